package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"callwatch/internal/config"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	Users    []config.User
	TenantID string
	Secret   string
	TTL      time.Duration
}

// Login godoc
//
// @Summary      Supervisor login
// @Description  Authenticate a dashboard user and return a JWT token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {string} string "invalid request"
// @Failure      401 {string} string "invalid username or password"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var user *config.User
	for i := range h.Users {
		if h.Users[i].Username == req.Username {
			user = &h.Users[i]
			break
		}
	}
	if user == nil {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	role := user.Role
	if role == "" {
		role = "user"
	}

	token, err := GenerateJWT(JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TenantID:  h.TenantID,
		Role:      role,
		ExpiresAt: time.Now().Add(h.TTL),
	}, h.Secret)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token})
}
