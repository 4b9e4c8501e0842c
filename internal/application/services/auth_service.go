package services

import (
	"fmt"

	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/security"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// AuthService authenticates the dashboard admin and issues JWTs for the
// protected analytics endpoints.
type AuthService struct {
	jwtSecret string
	logger    *logging.ChanneledLogger
}

func NewAuthService(jwtSecret string, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{jwtSecret: jwtSecret, logger: logger}
}

// Login verifies the admin password and returns a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if config.AdminPasswordHash == "" {
		return "", fmt.Errorf("admin login is not configured")
	}

	if !security.CheckPassword(config.AdminPasswordHash, password) {
		if s.logger != nil {
			s.logger.LogAuthOperation("login", "admin", false)
		}
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := security.GenerateAdminToken("admin", s.jwtSecret, config.TokenLifetime)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAuthOperation("login", "admin", true)
	}
	return token, nil
}

// ValidateToken checks a bearer token and reports whether it carries the
// admin role.
func (s *AuthService) ValidateToken(token string) bool {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false
	}
	return security.IsAdminClaims(claims)
}
