// Package metrics centralises Prometheus metric registration for the capture
// engine's surrounding services (feed producer, frame server, gateway). It
// exposes typed collectors and helper update functions so that code can
// remain import-cycle-free. The package registers with the global
// prometheus.DefaultRegisterer, which callers typically expose via the
// /metrics HTTP handler from the Prometheus client library.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// Gauge metrics -----------------------------------------------------

	BufferDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "syncframe",
		Subsystem: "captor",
		Name:      "buffer_depth",
		Help:      "Current number of buffered elements, by captor name.",
	}, []string{"captor"})

	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "syncframe",
		Subsystem: "frameserver",
		Name:      "subscribers",
		Help:      "Current number of active frame subscriber connections.",
	})

	// Counter metrics -----------------------------------------------------

	FramesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncframe",
		Subsystem: "synchronizer",
		Name:      "frames_total",
		Help:      "Total number of frames broadcast to frame-server subscribers, by state.",
	}, []string{"state"})

	ElementsInjectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncframe",
		Subsystem: "captor",
		Name:      "elements_injected_total",
		Help:      "Total number of elements injected, by captor name.",
	}, []string{"captor"})

	AdmissionRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncframe",
		Subsystem: "admission",
		Name:      "rejections_total",
		Help:      "Total number of frames skipped by a follower's queue monitor.",
	}, []string{"captor"})
)

// Register exports all metrics; safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			BufferDepth,
			Subscribers,
			FramesTotal,
			ElementsInjectedTotal,
			AdmissionRejectionsTotal,
		)
	})
}

// ObserveFrame records a synchronizer frame's outcome by state label (e.g.
// "primed", "retry", "abort", "timeout").
func ObserveFrame(state string) {
	FramesTotal.WithLabelValues(state).Inc()
}

// ObserveInject records a single element injection against the named
// captor.
func ObserveInject(captor string) {
	ElementsInjectedTotal.WithLabelValues(captor).Inc()
}

// ObserveBufferDepth updates the current buffered-element count for the
// named captor, typically sampled after every inject/extract.
func ObserveBufferDepth(captor string, depth int) {
	BufferDepth.WithLabelValues(captor).Set(float64(depth))
}

// ObserveAdmissionRejection records a queue-monitor rejection for the named
// follower captor.
func ObserveAdmissionRejection(captor string) {
	AdmissionRejectionsTotal.WithLabelValues(captor).Inc()
}
