// Generic webhook sink: performs an HTTP POST with a small JSON payload for
// every notification. It is synchronous internally but off-loads the actual
// request to a goroutine so Notify never blocks its caller, and retries
// transient failures with internal/util's jittered backoff.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/util"
	"go.uber.org/zap"
)

// WebhookSink posts {rule, msg, ts} JSON to URL.
type WebhookSink struct {
	URL        string
	Timeout    time.Duration // per-request timeout; default 5s
	MaxRetries int           // total attempts incl. first; default 5
}

// NewWebhookSink returns a sink with defaults.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{URL: url, Timeout: 5 * time.Second, MaxRetries: 5}
}

func (s *WebhookSink) Notify(rule, msg string) {
	if s.URL == "" {
		logging.Named("notify").Sugar().Warn("webhook sink configured without URL")
		return
	}
	go s.doPost(rule, msg)
}

func (s *WebhookSink) doPost(rule, msg string) {
	payload := map[string]any{
		"rule": rule,
		"msg":  msg,
		"ts":   time.Now().Unix(),
	}
	body, _ := json.Marshal(payload)

	client := &http.Client{Timeout: s.Timeout}
	bo := util.NewBackoff()

	for attempt := 1; attempt <= s.MaxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		cancel()
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return
		}
		if err == nil {
			_ = resp.Body.Close()
		}
		logging.Named("notify").Warn("webhook notify failed", zap.String("rule", rule), zap.Int("attempt", attempt), zap.Error(err))
		if attempt == s.MaxRetries {
			break
		}
		time.Sleep(bo.Next())
	}
}
