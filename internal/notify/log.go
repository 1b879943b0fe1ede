package notify

import (
	"github.com/Voskan/syncframe/internal/logging"
	"go.uber.org/zap"
)

// LogSink writes the notification to the structured logger at WARN level.
// Handy in development or small setups where webhook/Slack is overkill.
type LogSink struct{}

// NewLogSink returns a new LogSink.
func NewLogSink() *LogSink { return &LogSink{} }

func (s *LogSink) Notify(rule, msg string) {
	logging.Named("notify").Warn("capture health notification", zap.String("rule", rule), zap.String("msg", msg))
}
