package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"qc-backend/internal/auth"
	"qc-backend/internal/config"
	"qc-backend/pkg/utils"
)

type AuthHandler struct {
	cfg        *config.Config
	jwtManager *auth.JWTManager
}

func NewAuthHandler(cfg *config.Config, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, jwtManager: jwtManager}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the shared operator account and issues a JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username != h.cfg.Operator.Username ||
		!auth.VerifyPassword(h.cfg.Operator.PasswordHash, req.Password) {
		log.Printf("[Auth] Failed login attempt for %q", req.Username)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": req.Username,
	})
}
