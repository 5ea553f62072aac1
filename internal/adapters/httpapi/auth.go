package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin is demo authentication: any non-empty email and password are
// accepted and the returned token carries no authority.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, "Email and password required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   "demo-" + uuid.New().String(),
		"user": map[string]interface{}{
			"id":    1,
			"email": req.Email,
			"name":  s.auth.DemoName,
			"role":  s.auth.DemoRole,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    1,
		"email": s.auth.DemoEmail,
		"name":  s.auth.DemoName,
		"role":  s.auth.DemoRole,
	})
}
