// Helper for parsing CLI flags and env vars into this binary's runtime
// configuration, so that main.go stays minimal. Mirrors
// cmd/flarego-gateway/config.go's flags-then-env-then-defaults precedence,
// generalized to the capture-engine gateway's own settings.
//
// Environment variables (prefixed SYNCFRAME_GW_); a flag given on the
// command line takes precedence over its variable:
//
//	LISTEN          -- HTTP listen address for /ws and /metrics (default :8443)
//	AUTH_SECRET     -- HMAC secret for frame-subscriber JWTs (required to enable auth)
//	REDIS_ADDR      -- Redis address for the shared admission backend (optional)
//	FOLLOWER_POLICY -- name registered in internal/policyplugins (default "before")
//	WEBHOOK_URL     -- optional webhook notified on sustained non-Primed frames
//
// The minimum follower depth, the history window and the admission
// expression are set by the -min-depth, -history-window and -admission-expr
// flags only; no environment variable is read for them.
package main

import (
	"flag"
	"time"

	"github.com/spf13/viper"
)

type gatewayConfig struct {
	ListenAddr     string
	AuthSecret     string
	RedisAddr      string
	MinDepth       int
	Retention      time.Duration
	FollowerPolicy string
	FollowerParam  int64
	HistoryWindow  time.Duration
	WebhookURL     string
	AdmissionExpr  string
}

func loadGatewayConfig() gatewayConfig {
	cfg := gatewayConfig{
		ListenAddr:     ":8443",
		MinDepth:       1,
		Retention:      15 * time.Minute,
		FollowerPolicy: "before",
		FollowerParam:  1,
		HistoryWindow:  5 * time.Minute,
	}

	v := viper.New()
	v.SetEnvPrefix("SYNCFRAME_GW")
	v.AutomaticEnv()

	listen := flag.String("listen", "", "HTTP listen address (host:port, default "+cfg.ListenAddr+")")
	authSecret := flag.String("auth-secret", "", "HMAC secret for frame-subscriber JWTs (empty disables auth)")
	redisAddr := flag.String("redis-addr", "", "Redis address for the shared admission backend (empty disables it)")
	minDepth := flag.Int("min-depth", cfg.MinDepth, "minimum follower buffer depth required to admit a frame")
	retention := flag.Duration("retention", 0, "retention window for the admission history kept in Redis (default "+cfg.Retention.String()+")")
	followerPolicy := flag.String("follower-policy", "", "registered follower policy name (see internal/policyplugins, default "+cfg.FollowerPolicy+")")
	followerParam := flag.Int64("follower-param", cfg.FollowerParam, "parameter passed to the follower policy factory (delay/period)")
	historyWindow := flag.Duration("history-window", cfg.HistoryWindow, "how long the hub retains frames for late subscribers (0 disables)")
	webhookURL := flag.String("webhook-url", "", "optional webhook notified on sustained non-Primed frames")
	admissionExpr := flag.String("admission-expr", "", "alertsengine expression over buffer_size/range_lower/range_upper/range_width deciding admission (overrides min-depth/redis)")
	flag.Parse()

	if s := v.GetString("LISTEN"); s != "" {
		cfg.ListenAddr = s
	}
	if s := v.GetString("AUTH_SECRET"); s != "" {
		cfg.AuthSecret = s
	}
	if s := v.GetString("REDIS_ADDR"); s != "" {
		cfg.RedisAddr = s
	}
	if d := v.GetDuration("RETENTION"); d > 0 {
		cfg.Retention = d
	}
	if s := v.GetString("FOLLOWER_POLICY"); s != "" {
		cfg.FollowerPolicy = s
	}
	if s := v.GetString("WEBHOOK_URL"); s != "" {
		cfg.WebhookURL = s
	}

	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *authSecret != "" {
		cfg.AuthSecret = *authSecret
	}
	if *redisAddr != "" {
		cfg.RedisAddr = *redisAddr
	}
	cfg.MinDepth = *minDepth
	if *retention > 0 {
		cfg.Retention = *retention
	}
	if *followerPolicy != "" {
		cfg.FollowerPolicy = *followerPolicy
	}
	cfg.FollowerParam = *followerParam
	cfg.HistoryWindow = *historyWindow
	if *webhookURL != "" {
		cfg.WebhookURL = *webhookURL
	}
	cfg.AdmissionExpr = *admissionExpr

	if cfg.Retention < time.Minute {
		cfg.Retention = time.Minute
	}
	return cfg
}
