// Binary entrypoint for the standalone syncframe gateway: a frame server
// whose follower admission can be backed by a shared Redis monitor (when a
// Redis address is configured) so several gateway instances can agree on
// one admission history, following
// cmd/flarego-gateway/main.go's signal-driven shutdown shape.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Voskan/syncframe/internal/admission"
	"github.com/Voskan/syncframe/internal/feed"
	"github.com/Voskan/syncframe/internal/frameserver"
	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/internal/notify"
	"github.com/Voskan/syncframe/internal/policyplugins"
	"github.com/Voskan/syncframe/pkg/auth"
	"github.com/Voskan/syncframe/pkg/capture"
	"github.com/Voskan/syncframe/pkg/version"
)

func main() {
	cfg := loadGatewayConfig()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logging.Set(lg)
	defer lg.Sync()
	logging.Sugar().Infow("syncframe-gateway starting", "version", version.String())

	metrics.Register()

	var monitor capture.QueueMonitor[int64] = capture.MinDepthMonitor[int64]{MinSize: cfg.MinDepth}
	if cfg.RedisAddr != "" {
		cli := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		monitor = admission.NewRedisMonitor[int64](cli, "gateway-follower", cfg.MinDepth, cfg.Retention)
	}
	if cfg.AdmissionExpr != "" {
		exprMonitor, err := admission.NewExprMonitor[int64]("gateway-follower", cfg.AdmissionExpr)
		if err != nil {
			logging.Sugar().Fatalw("admission expression", "error", err)
		}
		monitor = exprMonitor
	}

	followerPolicy, err := policyplugins.Build(cfg.FollowerPolicy, cfg.FollowerParam)
	if err != nil {
		logging.Sugar().Fatalw("follower policy", "error", err, "available", policyplugins.Names())
	}

	driverCaptor := capture.NewCaptor[int64, int]("driver", capture.PollingLock, 0, nil)
	followerCaptor := capture.NewCaptor[int64, int]("follower", capture.PollingLock, 0, monitor)

	driverHandle := capture.NewDriverHandle[int64, int](driverCaptor, capture.NextDriver[int64, int]{})
	followerHandle := capture.NewFollowerHandle[int64, int](followerCaptor, followerPolicy)
	synchronizer := capture.NewSynchronizer[int64](driverHandle, followerHandle)

	var verifier *auth.Verifier
	if cfg.AuthSecret != "" {
		verifier = auth.NewVerifier([]byte(cfg.AuthSecret), "syncframe-gateway")
	}
	hub := frameserver.NewHub(verifier)
	if cfg.HistoryWindow > 0 {
		hub = hub.WithHistory(frameserver.NewHistory(cfg.HistoryWindow))
	}

	sinks := []notify.Sink{notify.NewLogSink()}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.WebhookURL))
	}
	health := notify.NewHealthWatcher(5, sinks...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driverProducer := feed.New[int]("gw-driver", feed.NewTickerSource(50*time.Millisecond, 37), driverCaptor, nil)
	followerProducer := feed.New[int]("gw-follower", feed.NewTickerSource(50*time.Millisecond, 41), followerCaptor, nil)
	go func() { _ = driverProducer.Run(ctx) }()
	go func() { _ = followerProducer.Run(ctx) }()

	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			frame := synchronizer.Capture(0, 0)
			health.Observe(frame.State)
			if frame.State == capture.Primed {
				hub.Broadcast(frame)
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	mux.HandleFunc("/history", hub.ServeHistory)
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logging.Sugar().Info("signal received, shutting down")
		cancel()
		driverProducer.Stop()
		followerProducer.Stop()
		_ = srv.Close()
	}()

	logging.Sugar().Infow("gateway listening", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Sugar().Fatalw("serve", "error", err)
	}
	logging.Sugar().Info("goodbye")
}
