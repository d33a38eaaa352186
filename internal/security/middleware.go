package security

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/audit"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SessionContextKey is the echo context key holding the session *Profile.
const SessionContextKey = "session_profile"

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	EnableHSTS    bool
	CSPDirectives string
}

// DefaultSecurityConfig returns production-ready security settings
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		EnableHSTS:    true,
		CSPDirectives: "default-src 'self'; img-src 'self' data: https:; connect-src 'self' wss: https:; frame-ancestors 'none';",
	}
}

func SetupSecurityMiddleware(e *echo.Echo, config *Config, securityConfig *SecurityConfig) {
	if securityConfig == nil {
		securityConfig = DefaultSecurityConfig()
	}

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Requested-With"},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	hstsMaxAge := 0
	if securityConfig.EnableHSTS {
		hstsMaxAge = 31536000
	}

	// Security headers middleware
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            hstsMaxAge,
		ContentSecurityPolicy: securityConfig.CSPDirectives,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request ID middleware for tracing
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogLevel:  1,
	}))
}

// LoggingMiddleware logs request and response with structured logging
func LoggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			status = statusOf(err)
		}

		utils.WithFields(map[string]interface{}{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     status,
			"duration":   time.Since(start).String(),
			"ip":         c.RealIP(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Info("Request completed")

		return err
	}
}

// SessionMiddleware attaches the session profile to the context when a valid
// cookie is present. A missing, tampered or expired cookie leaves the request
// anonymous.
func SessionMiddleware(config *Config, sessions *SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := GetTokenFromCookie(c, config.CookieName)
			if token == "" {
				return next(c)
			}

			profile, err := sessions.Parse(token)
			if err != nil {
				utils.WithFields(map[string]interface{}{
					"path":  c.Request().URL.Path,
					"error": err.Error(),
				}).Debug("Ignoring unusable session cookie")
				return next(c)
			}

			c.Set(SessionContextKey, profile)
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if SessionFrom(c) == nil {
			return utils.ErrUnauthorized
		}
		return next(c)
	}
}

// SessionFrom returns the session profile of the request, or nil.
func SessionFrom(c echo.Context) *Profile {
	profile, _ := c.Get(SessionContextKey).(*Profile)
	return profile
}

// ActorID returns the streamer id of the session, or ErrUnauthorized.
func ActorID(c echo.Context) (uuid.UUID, error) {
	profile := SessionFrom(c)
	if profile == nil {
		return uuid.Nil, utils.ErrUnauthorized
	}
	id, err := uuid.Parse(profile.ID)
	if err != nil {
		return uuid.Nil, utils.ErrUnauthorized
	}
	return id, nil
}

// AuditMiddleware logs security-relevant events
func AuditMiddleware(al *audit.AuditLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if strings.HasPrefix(req.URL.Path, "/api/auth/") {
				utils.WithFields(map[string]interface{}{
					"ip":         c.RealIP(),
					"user_agent": req.UserAgent(),
					"path":       req.URL.Path,
				}).Info("Auth request")
			}

			err := next(c)

			streamerID := ""
			if profile := SessionFrom(c); profile != nil {
				streamerID = profile.ID
			}

			if err != nil {
				switch statusOf(err) {
				case http.StatusUnauthorized:
					al.LogAnonymousRefused(req.Method, req.URL.Path, c.RealIP())
				case http.StatusForbidden:
					al.LogOwnershipDenied(streamerID, req.Method, req.URL.Path, c.RealIP())
				}
				return err
			}

			if req.Method == http.MethodDelete && c.Response().Status < http.StatusMultipleChoices {
				al.LogDeletion(streamerID, req.URL.Path, c.RealIP())
			}
			return nil
		}
	}
}

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
