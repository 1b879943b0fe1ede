package feed

import (
	"context"
	"errors"
	"time"

	"github.com/Voskan/syncframe/pkg/capture"
)

// TickerSource is a demo Source emitting a monotonically increasing
// int-stamped counter on a fixed interval. It simulates a flaky upstream by
// failing every failEvery ticks (0 disables this), so a Producer built on
// top of it exercises its reconnect/backoff path even in a local run.
type TickerSource struct {
	interval  time.Duration
	failEvery int

	tick   int
	stamp  int64
	ticker *time.Ticker
}

// NewTickerSource returns a TickerSource ticking every interval, failing
// its Next call once every failEvery ticks (failEvery <= 0 disables the
// simulated failure).
func NewTickerSource(interval time.Duration, failEvery int) *TickerSource {
	return &TickerSource{interval: interval, failEvery: failEvery}
}

// ErrSimulatedDisconnect is returned by TickerSource.Next on its scheduled
// simulated failures.
var ErrSimulatedDisconnect = errors.New("feed: simulated upstream disconnect")

func (s *TickerSource) Dial(ctx context.Context) error {
	s.ticker = time.NewTicker(s.interval)
	s.tick = 0
	return nil
}

func (s *TickerSource) Next(ctx context.Context) (capture.Dispatch[int64, int], error) {
	select {
	case <-ctx.Done():
		return capture.Dispatch[int64, int]{}, ctx.Err()
	case <-s.ticker.C:
	}
	s.tick++
	if s.failEvery > 0 && s.tick%s.failEvery == 0 {
		return capture.Dispatch[int64, int]{}, ErrSimulatedDisconnect
	}
	s.stamp++
	return capture.Dispatch[int64, int]{Stamp: s.stamp, Value: int(s.stamp)}, nil
}

func (s *TickerSource) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	return nil
}
