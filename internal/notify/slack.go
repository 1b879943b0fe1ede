// Slack sink posts to a Slack Incoming Webhook URL whenever a notification
// fires. Intentionally minimal and synchronous per call.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Voskan/syncframe/internal/logging"
	"go.uber.org/zap"
)

// SlackSink implements Sink for Slack.
type SlackSink struct {
	WebhookURL string
	Username   string // optional
	IconEmoji  string // optional (":warning:")
	Timeout    time.Duration
	httpClient *http.Client
}

// NewSlackSink constructs a sink with a default 10s HTTP client timeout.
func NewSlackSink(webhookURL string) *SlackSink {
	return &SlackSink{WebhookURL: webhookURL, Timeout: 10 * time.Second}
}

func (s *SlackSink) Notify(rule, msg string) {
	if s.WebhookURL == "" {
		logging.Named("notify").Sugar().Warn("Slack sink configured without webhook URL")
		return
	}

	payload := map[string]any{
		"text":       "*syncframe* — " + msg,
		"username":   s.Username,
		"icon_emoji": s.IconEmoji,
	}
	body, _ := json.Marshal(payload)

	cli := s.httpClient
	if cli == nil {
		cli = &http.Client{Timeout: s.Timeout}
	}

	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := cli.Post(s.WebhookURL, "application/json", bytes.NewReader(body))
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return
		}
		if err == nil {
			_ = resp.Body.Close()
		}
		logging.Named("notify").Warn("Slack notify failed", zap.String("rule", rule), zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(time.Duration(attempt) * time.Second)
	}
}
