package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/auth"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
)

// ErrInvalidCredentials is returned for any failed staff login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the staff desk account.
type AuthService struct {
	email        string
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service from the configured staff credentials.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		email:        strings.ToLower(strings.TrimSpace(cfg.StaffEmail)),
		passwordHash: cfg.StaffPasswordHash,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// Enabled reports whether staff credentials are configured.
func (s *AuthService) Enabled() bool {
	return s.email != "" && s.passwordHash != ""
}

// LoginStaff authenticates staff and returns a role-bearing token.
func (s *AuthService) LoginStaff(_ context.Context, email, password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrInvalidCredentials
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokenMgr.GenerateToken(s.email, auth.StaffRoleAdmin)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
