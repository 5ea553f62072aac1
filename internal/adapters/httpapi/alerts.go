package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type alertRequest struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	RFPID    int64    `json:"rfp_id"`
	Channels []string `json:"channels"`
}

// handleSendAlert triggers a manual alert. When the referenced record
// exists it goes through the configured notifier; otherwise the request
// is only logged.
func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.logger.Info("Alert requested",
		zap.String("type", req.Type),
		zap.String("message", req.Message),
		zap.Int64("rfp_id", req.RFPID),
		zap.Strings("channels", req.Channels))

	if req.RFPID > 0 {
		if rfp, err := s.service.Get(r.Context(), req.RFPID); err == nil {
			if err := s.notifier.Notify(r.Context(), req.Type, rfp); err != nil {
				s.logger.Error("Failed to deliver manual alert",
					zap.Int64("rfp_id", req.RFPID),
					zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Alert sent successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleListAlerts returns the alert history. Alerts are not persisted, so
// the history is always empty.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": []interface{}{},
		"total":  0,
	})
}
