package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

func testRFP() *core.RFP {
	return &core.RFP{
		ID:           7,
		Name:         "Facade Restoration",
		Deadline:     time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		UrgencyLevel: core.UrgencyUrgent,
	}
}

func TestWebhookNotifyDelivers(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, zap.NewNop())
	require.NoError(t, n.Notify(context.Background(), "new_urgent_rfp", testRFP()))

	require.Equal(t, "new_urgent_rfp", received.Kind)
	require.NotEmpty(t, received.AlertID)
	require.NotNil(t, received.RFP)
	require.Equal(t, int64(7), received.RFP.ID)
}

func TestWebhookNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, zap.NewNop())
	err := n.Notify(context.Background(), "deadline_reminder", testRFP())
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestWebhookNotifyUnreachable(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:1/hook", zap.NewNop())
	require.Error(t, n.Notify(context.Background(), "deadline_reminder", testRFP()))
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	require.NoError(t, n.Notify(context.Background(), "new_urgent_rfp", testRFP()))
}
