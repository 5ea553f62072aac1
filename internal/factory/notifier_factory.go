package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/adapters/notify"
	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
)

// NotifierFactory creates alert notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	alerts := f.cfg.GetAlerts()

	switch alerts.Type {
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "webhook":
		if alerts.WebhookURL == "" {
			return nil, fmt.Errorf("alerts.webhook_url is required for webhook alerts")
		}
		return notify.NewWebhookNotifier(alerts.WebhookURL, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported alert type: %s", alerts.Type)
	}
}
