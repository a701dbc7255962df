package mock

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/augustosalazar/roble-go/schema"
)

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.LoginCalls++
	s.mu.Unlock()

	var request schema.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if request.Email != s.Email || request.Password != s.Password {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	accessToken, err := s.createJWT(request.Email, "access_token", time.Hour)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	refreshToken, err := s.createJWT(request.Email, "refresh_token", 24*time.Hour)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	s.refreshToken = refreshToken
	s.validAccess[accessToken] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, &schema.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	s.refreshToken = ""
	s.validAccess = map[string]bool{}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request schema.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if request.Email == "" || request.Password == "" {
		http.Error(w, "Missing email or password", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.RefreshCalls++
	forcedStatus := s.RefreshStatus
	held := s.refreshToken
	s.mu.Unlock()

	if forcedStatus != 0 {
		http.Error(w, "Refresh disabled", forcedStatus)
		return
	}
	var request schema.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if held == "" || request.RefreshToken != held {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	accessToken, err := s.createJWT(s.Email, "access_token", time.Hour)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	s.validAccess[accessToken] = true
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, &schema.TokenResponse{AccessToken: accessToken})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
