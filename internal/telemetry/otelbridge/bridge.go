// Package otelbridge wraps Synchronizer.Capture/DryCapture in an
// OpenTelemetry span, annotating it with the frame's resulting state, the
// driver's range, and each follower's emitted element count, so a capture
// pipeline's frame cadence is traceable end-to-end in whatever tracing
// backend the host process already exports to. Grounded on
// pkg/otel/spanlink.go's StartLinkedSpan pattern (span-wrap a hot-path call,
// attach identifying attributes) and internal/gateway/otelbridge.go's
// bridging intent, generalized from that file's ad hoc trace_id string
// parsing to the real go.opentelemetry.io/otel SDK.
package otelbridge

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Voskan/syncframe/pkg/capture"
)

// Bridge wraps a *capture.Synchronizer[S] so every Capture/DryCapture call
// becomes a traced span.
type Bridge[S capture.Numeric] struct {
	tracer trace.Tracer
	name   string
	sync   *capture.Synchronizer[S]
}

// New returns a Bridge that traces sync's frames as spans named
// "<name>.capture" / "<name>.dry_capture" under tracer.
func New[S capture.Numeric](tracer trace.Tracer, name string, sync *capture.Synchronizer[S]) *Bridge[S] {
	return &Bridge[S]{tracer: tracer, name: name, sync: sync}
}

// Capture runs the wrapped synchronizer's Capture inside a span.
func (b *Bridge[S]) Capture(ctx context.Context, lowerBound S, timeout time.Duration) capture.Frame[S] {
	return b.run(ctx, b.name+".capture", func() capture.Frame[S] {
		return b.sync.Capture(lowerBound, timeout)
	})
}

// DryCapture runs the wrapped synchronizer's DryCapture inside a span.
func (b *Bridge[S]) DryCapture(ctx context.Context, lowerBound S, timeout time.Duration) capture.Frame[S] {
	return b.run(ctx, b.name+".dry_capture", func() capture.Frame[S] {
		return b.sync.DryCapture(lowerBound, timeout)
	})
}

func (b *Bridge[S]) run(ctx context.Context, spanName string, fn func() capture.Frame[S]) capture.Frame[S] {
	_, span := b.tracer.Start(ctx, spanName)
	defer span.End()

	frame := fn()

	span.SetAttributes(
		attribute.String("syncframe.state", frame.State.String()),
		attribute.String("syncframe.range.lower", fmt.Sprint(frame.Range.Lower)),
		attribute.String("syncframe.range.upper", fmt.Sprint(frame.Range.Upper)),
		attribute.Int("syncframe.driver.elements", len(frame.Driver)),
	)
	for name, elems := range frame.Follower {
		span.SetAttributes(attribute.Int("syncframe.follower."+name+".elements", len(elems)))
	}

	if frame.State == capture.ErrorDriverLowerBoundExceeded || frame.State == capture.Timeout {
		span.SetStatus(codes.Error, frame.State.String())
	}

	return frame
}
