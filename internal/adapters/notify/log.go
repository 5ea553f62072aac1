package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

// LogNotifier writes alerts to the application log. It is the default alert
// channel and never fails.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert.
func (n *LogNotifier) Notify(ctx context.Context, kind string, rfp *core.RFP) error {
	n.logger.Info("Alert",
		zap.String("kind", kind),
		zap.Int64("rfp_id", rfp.ID),
		zap.String("name", rfp.Name),
		zap.String("urgency", string(rfp.UrgencyLevel)),
		zap.Time("deadline", rfp.Deadline))
	return nil
}
