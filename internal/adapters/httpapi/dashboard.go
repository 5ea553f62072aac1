package httpapi

import (
	"net/http"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.service.Stats(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	recent, err := s.service.Recent(ctx, 5)
	if err != nil {
		s.writeError(w, err)
		return
	}
	upcoming, err := s.service.UpcomingDeadlines(ctx, 14*24*time.Hour, true, 10)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"summary":           stats,
		"recentRFPs":        recent,
		"upcomingDeadlines": upcoming,
		"systemStatus": map[string]interface{}{
			"healthy": true,
			"version": version,
		},
	})
}
