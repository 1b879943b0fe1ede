// Binary entrypoint wiring a small capture.Synchronizer pipeline end to
// end: a feed producer injects into a driver and a follower captor, frames
// are traced via otelbridge and broadcast over frameserver, following
// cmd/flarego/root.go's cobra/viper shape.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Voskan/syncframe/internal/export"
	"github.com/Voskan/syncframe/internal/feed"
	"github.com/Voskan/syncframe/internal/frameserver"
	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/internal/telemetry/otelbridge"
	"github.com/Voskan/syncframe/pkg/capture"
	"github.com/Voskan/syncframe/pkg/version"
)

var (
	cfgFile    string
	logJSON    bool
	listenAddr string
	tickMillis int
	exportDir  string

	rootCmd = &cobra.Command{
		Use:   "syncframe",
		Short: "syncframe -- multi-stream capture engine demo",
		Long:  `syncframe synchronizes several time-stamped input streams into coherent frames and serves them over WebSocket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logging.Initialised() {
				return nil
			}
			return initLogger()
		},
		RunE: runPipeline,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file (YAML/TOML/JSON)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "enable JSON log output (default is human-friendly console)")
	rootCmd.Flags().StringVar(&listenAddr, "listen", ":8089", "HTTP listen address for the frame WebSocket and /metrics endpoint")
	rootCmd.Flags().IntVar(&tickMillis, "tick-ms", 50, "demo feed tick interval in milliseconds")
	rootCmd.Flags().StringVar(&exportDir, "export-dir", "", "if set, write every primed frame as a JSON file in this directory")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Sugar().Fatalw("command failed", "error", err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "syncframe"))
		}
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SYNCFRAME")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Sugar().Infof("using config file: %s", viper.ConfigFileUsed())
	}
}

func initLogger() error {
	cfg := zap.NewDevelopmentConfig()
	if logJSON {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zap.TimeEncoder(func(t time.Time, enc zap.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(time.RFC3339))
	})

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	logging.Set(logger)
	logging.Sugar().Infow("syncframe starting", "version", version.String())
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information and exit",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	metrics.Register()

	driverCaptor := capture.NewCaptor[int64, int]("driver", capture.PollingLock, 0, nil)
	followerCaptor := capture.NewCaptor[int64, int]("follower", capture.PollingLock, 0, nil)

	driverHandle := capture.NewDriverHandle[int64, int](driverCaptor, capture.NextDriver[int64, int]{})
	followerHandle := capture.NewFollowerHandle[int64, int](followerCaptor, capture.BeforeFollower[int64, int]{Delay: 1})

	synchronizer := capture.NewSynchronizer[int64](driverHandle, followerHandle)
	tracer := otel.Tracer("syncframe")
	bridge := otelbridge.New[int64](tracer, "demo", synchronizer)

	hub := frameserver.NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driverFeed := feed.New[int]("driver", feed.NewTickerSource(time.Duration(tickMillis)*time.Millisecond, 37), driverCaptor, nil).WithTracer(tracer)
	followerFeed := feed.New[int]("follower", feed.NewTickerSource(time.Duration(tickMillis)*time.Millisecond, 41), followerCaptor, nil).WithTracer(tracer)

	go func() { _ = driverFeed.Run(ctx) }()
	go func() { _ = followerFeed.Run(ctx) }()

	var exporter *export.FileExporter[int64]
	if exportDir != "" {
		var err error
		exporter, err = export.NewFileExporter[int64](export.FileConfig{Dir: exportDir, Prefix: "syncframe"})
		if err != nil {
			return err
		}
	}

	go runCaptureLoop(ctx, bridge, hub, exporter)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listenAddr, Handler: mux}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logging.Sugar().Info("signal received, shutting down")
		cancel()
		driverFeed.Stop()
		followerFeed.Stop()
		_ = srv.Close()
	}()

	logging.Sugar().Infow("serving frames", "addr", listenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runCaptureLoop(ctx context.Context, bridge *otelbridge.Bridge[int64], hub *frameserver.Hub, exporter *export.FileExporter[int64]) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		frame := bridge.Capture(ctx, 0, 0)
		if frame.State != capture.Primed {
			continue
		}
		hub.Broadcast(frame)
		if exporter != nil {
			if err := exporter.Export(frame); err != nil {
				logging.Sugar().Warnw("export frame", "error", err)
			}
		}
	}
}
