// Package feed implements a reference producer that injects stamped
// elements into a capture.Captor from an upstream connection, reconnecting
// with jittered exponential backoff on failure. It mirrors the
// connect/reconnect shape of internal/agent/exporter/grpc_exporter.go, with
// the gRPC stream generalized to the Source interface so the producer can
// sit in front of any transport a caller wires up.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/internal/util"
	"github.com/Voskan/syncframe/pkg/capture"
	spanlink "github.com/Voskan/syncframe/pkg/otel"
)

// Source is one upstream connection yielding a monotonically stamped
// sequence of elements. Implementations are expected to block in Next until
// data arrives or the connection is lost.
type Source[V any] interface {
	// Dial establishes (or re-establishes) the upstream connection.
	Dial(ctx context.Context) error
	// Next blocks for the next element, or returns an error once the
	// connection has failed.
	Next(ctx context.Context) (capture.Dispatch[int64, V], error)
	// Close releases any resources held by the current connection.
	Close() error
}

// ErrClosed is returned by Run when it observes Stop while dialing, backing
// off, or after a lost connection; a Stop observed while draining a live
// connection makes Run return nil instead.
var ErrClosed = errors.New("feed: producer stopped")

// Producer drives a Source into a Captor for as long as Run's context stays
// alive, transparently reconnecting on error.
type Producer[V any] struct {
	name   string
	src    Source[V]
	captor *capture.Captor[int64, V]
	newBO  func() backoff.BackOff
	tracer trace.Tracer

	closing chan struct{}
}

// WithTracer attaches tracer so each connect attempt is recorded as a span
// tagged with the goroutine that ran it, via pkg/otel.StartLinkedSpan. Returns
// the Producer for chaining. A nil tracer (the default) disables tracing.
func (p *Producer[V]) WithTracer(tracer trace.Tracer) *Producer[V] {
	p.tracer = tracer
	return p
}

// New returns a Producer named for logging/metrics that feeds captor from
// src. newBackOff, if nil, defaults to a 500ms..15s exponential backoff with
// no elapsed-time cap (a feed is expected to run indefinitely).
func New[V any](name string, src Source[V], captor *capture.Captor[int64, V], newBackOff func() backoff.BackOff) *Producer[V] {
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxInterval = 15 * time.Second
			bo.MaxElapsedTime = 0
			return bo
		}
	}
	return &Producer[V]{
		name:    name,
		src:     src,
		captor:  captor,
		newBO:   newBackOff,
		closing: make(chan struct{}),
	}
}

// Stop signals Run to return at the next opportunity.
func (p *Producer[V]) Stop() {
	select {
	case <-p.closing:
	default:
		close(p.closing)
	}
}

// Run connects src and injects every element it yields into the captor
// until ctx is cancelled, Stop is called, or dialing permanently fails
// (backoff.Stop reached). Each reconnect attempt and each injected element
// is correlated with a ULID for log/trace correlation, following
// internal/util/id.go's monotonic-entropy generator.
func (p *Producer[V]) Run(ctx context.Context) error {
	log := logging.Named("feed").Sugar()
	for {
		if err := p.connect(ctx, log); err != nil {
			return err
		}

		runErr := p.drain(ctx, log)
		_ = p.src.Close()
		if runErr == nil {
			return nil // ctx cancelled or Stop called mid-drain
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.closing:
			return ErrClosed
		default:
		}
		log.Warnw("feed connection lost, reconnecting", "producer", p.name, "error", runErr)
	}
}

func (p *Producer[V]) connect(ctx context.Context, log *zap.SugaredLogger) error {
	bo := backoff.WithContext(p.newBO(), ctx)
	for {
		attemptID, _ := util.New()

		dialCtx := ctx
		var span trace.Span
		if p.tracer != nil {
			dialCtx, span = spanlink.StartLinkedSpan(ctx, p.tracer, "feed.connect")
		}
		err := p.src.Dial(dialCtx)
		if span != nil {
			span.End()
		}

		if err == nil {
			log.Infow("feed connected", "producer", p.name, "attempt", attemptID)
			return nil
		} else {
			next := bo.NextBackOff()
			if next == backoff.Stop {
				return err
			}
			log.Warnw("feed dial failed, backing off", "producer", p.name, "attempt", attemptID, "error", err, "wait", next)
			select {
			case <-time.After(next):
			case <-ctx.Done():
				return ctx.Err()
			case <-p.closing:
				return ErrClosed
			}
		}
	}
}

func (p *Producer[V]) drain(ctx context.Context, log *zap.SugaredLogger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.closing:
			return nil
		default:
		}

		d, err := p.src.Next(ctx)
		if err != nil {
			return err
		}
		batchID, _ := util.New()
		p.captor.Inject(d)
		metrics.ObserveInject(p.name)
		metrics.ObserveBufferDepth(p.name, p.captor.Size())
		log.Infow("feed injected element", "producer", p.name, "batch", batchID, "stamp", d.Stamp)
	}
}
