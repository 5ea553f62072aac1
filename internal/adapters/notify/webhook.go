package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

// WebhookNotifier POSTs alerts as JSON to a configured URL. Delivery is
// best-effort with a short timeout; callers treat failures as log-only.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a webhook-backed notifier.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type webhookPayload struct {
	AlertID   string    `json:"alert_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	RFP       *core.RFP `json:"rfp"`
}

// Notify delivers the alert to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, kind string, rfp *core.RFP) error {
	payload := webhookPayload{
		AlertID:   uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now(),
		RFP:       rfp,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Alert delivered",
		zap.String("kind", kind),
		zap.String("alert_id", payload.AlertID),
		zap.Int64("rfp_id", rfp.ID))
	return nil
}
