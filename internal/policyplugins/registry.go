// Package policyplugins is a name-keyed registry of capture.FollowerPolicy
// factories for the int64-stamped, int-valued demo pipeline used by
// cmd/syncframe and cmd/syncframe-gateway, letting an operator pick a
// follower strategy by name (config/flag) instead of recompiling. Adapted
// from internal/plugins/registry.go's kind/name registry, dropping its
// plugin.Open(.so) dynamic-loading path: follower policies are small value
// types constructed in-process, so there is nothing worth loading from a
// shared object for this use case.
package policyplugins

import (
	"fmt"
	"sync"

	"github.com/Voskan/syncframe/pkg/capture"
)

// Factory builds a capture.FollowerPolicy[int64,int] from a single integer
// parameter (typically a delay or window size; the parameter's meaning is
// policy-specific).
type Factory func(param int64) capture.FollowerPolicy[int64, int]

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register adds factory under name. Call from an init() func; re-registering
// an existing name panics to surface the programmer error immediately.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		panic("policyplugins: duplicate policy " + name)
	}
	registry[name] = factory
}

// Build constructs the named policy with param, or returns an error if name
// is not registered.
func Build(name string, param int64) (capture.FollowerPolicy[int64, int], error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("policyplugins: unknown follower policy %q", name)
	}
	return factory(param), nil
}

// Names returns the currently registered policy names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

func init() {
	Register("before", func(param int64) capture.FollowerPolicy[int64, int] {
		return capture.BeforeFollower[int64, int]{Delay: param}
	})
	Register("any-before", func(param int64) capture.FollowerPolicy[int64, int] {
		return capture.AnyBeforeFollower[int64, int]{Delay: param}
	})
	Register("any-at-or-before", func(param int64) capture.FollowerPolicy[int64, int] {
		return capture.NewAnyAtOrBeforeFollower[int64, int](param)
	})
	Register("latched", func(param int64) capture.FollowerPolicy[int64, int] {
		return &capture.LatchedFollower[int64, int]{MinPeriod: param}
	})
}
