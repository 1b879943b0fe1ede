// Package admission provides capture.QueueMonitor backends: implementations
// callers attach to a follower captor to bolt on deterministic admission
// control (spec.md's "drop a frame if the buffer has grown during the
// frame" use case).
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/pkg/capture"
)

const keyPrefix = "syncframe:admission:"

// RedisMonitor is a capture.QueueMonitor that makes its admission decision
// locally (a minimum-depth threshold, like capture.MinDepthMonitor) but
// persists every decision and buffer-depth sample to a capped Redis list,
// following internal/gateway/retention/redis.go's
// LPush/LTrim/Expire pipeline shape. This lets several synchronizer
// instances across processes — e.g. a horizontally scaled frame-server
// fleet — observe one shared admission history even though each instance
// still decides for itself.
type RedisMonitor[S capture.Numeric] struct {
	cli    *redis.Client
	name   string
	minimum int
	ttl    time.Duration
	maxLen int64
}

// NewRedisMonitor returns a RedisMonitor admitting frames once bufferSize
// reaches minimum. Records are pushed to Redis as plain delimited strings —
// keeping the wire format a plain string avoids pulling an encoding
// dependency into a package whose only job is admission bookkeeping.
func NewRedisMonitor[S capture.Numeric](cli *redis.Client, name string, minimum int, retention time.Duration) *RedisMonitor[S] {
	if retention < time.Second {
		retention = time.Minute
	}
	return &RedisMonitor[S]{
		cli:     cli,
		name:    name,
		minimum: minimum,
		ttl:     retention,
		maxLen:  1000,
	}
}

// Check reports admission using the local minimum-depth rule; Redis is
// never consulted on the hot path so a monitor continues to function
// (fail-open) if the shared store is briefly unreachable.
func (m *RedisMonitor[S]) Check(bufferSize int, r capture.CaptureRange[S]) bool {
	return bufferSize >= m.minimum
}

// Update records the frame outcome and current depth to the shared Redis
// list and to the local Prometheus gauges/counters.
func (m *RedisMonitor[S]) Update(bufferSize int, r capture.CaptureRange[S], outcome capture.State) {
	metrics.ObserveBufferDepth(m.name, bufferSize)
	if outcome == capture.SkipFrameQueuePrecondition {
		metrics.ObserveAdmissionRejection(m.name)
	}

	if m.cli == nil {
		return
	}
	ctx := context.Background()
	key := keyPrefix + m.name
	record := fmt.Sprintf("%d|%v|%v|%s", bufferSize, r.Lower, r.Upper, outcome)

	pipe := m.cli.Pipeline()
	pipe.LPush(ctx, key, record)
	pipe.LTrim(ctx, key, 0, m.maxLen)
	pipe.Expire(ctx, key, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.Named("admission").Sugar().Warnw("redis admission write", "captor", m.name, "error", err)
	}
}

// History returns the most recent admission records for name, newest
// first, for debugging or an admin UI; it performs a plain LRANGE and
// tolerates a missing/unreachable Redis by returning nil.
func (m *RedisMonitor[S]) History(ctx context.Context) []string {
	if m.cli == nil {
		return nil
	}
	vals, err := m.cli.LRange(ctx, keyPrefix+m.name, 0, -1).Result()
	if err != nil {
		logging.Named("admission").Sugar().Warnw("redis admission read", "captor", m.name, "error", err)
		return nil
	}
	return vals
}
