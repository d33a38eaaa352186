package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/JoaoGSDC/streamline-app/configs"
)

// Config holds all security related configurations
type Config struct {
	SessionSecret  string
	SessionMaxAge  time.Duration
	CookieName     string
	SecureCookies  bool
	AllowedOrigins []string
	SealingKey     *[32]byte
}

// NewConfig creates a new security configuration
func NewConfig(appConfig *configs.Config) (*Config, error) {
	if err := ValidateSessionSecret(appConfig.Session.Secret); err != nil {
		return nil, err
	}

	key, err := appConfig.SealingKey()
	if err != nil {
		return nil, err
	}

	allowedOrigins := appConfig.Security.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{appConfig.Twitch.FrontendURL}
	}

	cookieName := appConfig.Session.CookieName
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	return &Config{
		SessionSecret:  appConfig.Session.Secret,
		SessionMaxAge:  appConfig.SessionMaxAge(),
		CookieName:     cookieName,
		SecureCookies:  appConfig.Session.Secure,
		AllowedOrigins: allowedOrigins,
		SealingKey:     key,
	}, nil
}

// ValidateSessionSecret checks if the session secret is properly configured
func ValidateSessionSecret(secret string) error {
	if secret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if len(secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters long")
	}
	return nil
}

// GenerateSecureToken returns length random bytes, URL-safe base64 encoded.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("token length must be positive")
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
