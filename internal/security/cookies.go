package security

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// Cookie names
	DefaultSessionCookie = "twitch_session"
	StateCookie          = "twitch_oauth_state"

	// StateMaxAge bounds how long a login round trip through Twitch may take.
	StateMaxAge = 10 * time.Minute
)

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// DefaultCookieConfig returns the settings shared by every cookie the API sets.
func DefaultCookieConfig(config *Config) *CookieConfig {
	return &CookieConfig{
		Domain:   "",
		Path:     "/",
		Secure:   config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetCookieConfigForContext upgrades the Secure flag when the request came in over HTTPS.
func GetCookieConfigForContext(c echo.Context, config *Config) *CookieConfig {
	cookieConfig := DefaultCookieConfig(config)
	if IsSecureContext(c) {
		cookieConfig.Secure = true
	}
	return cookieConfig
}

// SetSessionCookie stores the signed session. The cookie is readable by the
// frontend, which renders the profile from its payload.
func SetSessionCookie(c echo.Context, config *Config, value string) {
	cookieConfig := GetCookieConfigForContext(c, config)
	c.SetCookie(&http.Cookie{
		Name:     config.CookieName,
		Value:    value,
		Path:     cookieConfig.Path,
		Domain:   cookieConfig.Domain,
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		Expires:  time.Now().Add(config.SessionMaxAge),
		Secure:   cookieConfig.Secure,
		HttpOnly: false,
		SameSite: cookieConfig.SameSite,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c echo.Context, config *Config) {
	cookieConfig := GetCookieConfigForContext(c, config)
	c.SetCookie(&http.Cookie{
		Name:     config.CookieName,
		Value:    "",
		Path:     cookieConfig.Path,
		Domain:   cookieConfig.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cookieConfig.Secure,
		HttpOnly: false,
		SameSite: cookieConfig.SameSite,
	})
}

// SetStateCookie remembers the OAuth state for the callback to verify.
func SetStateCookie(c echo.Context, config *Config, state string) {
	cookieConfig := GetCookieConfigForContext(c, config)
	c.SetCookie(&http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     cookieConfig.Path,
		Domain:   cookieConfig.Domain,
		MaxAge:   int(StateMaxAge.Seconds()),
		Secure:   cookieConfig.Secure,
		HttpOnly: true,
		SameSite: cookieConfig.SameSite,
	})
}

// ConsumeStateCookie clears the state cookie and reports whether it matched state.
func ConsumeStateCookie(c echo.Context, config *Config, state string) bool {
	expected := GetTokenFromCookie(c, StateCookie)

	cookieConfig := GetCookieConfigForContext(c, config)
	c.SetCookie(&http.Cookie{
		Name:     StateCookie,
		Value:    "",
		Path:     cookieConfig.Path,
		Domain:   cookieConfig.Domain,
		MaxAge:   -1,
		Secure:   cookieConfig.Secure,
		HttpOnly: true,
		SameSite: cookieConfig.SameSite,
	})

	if expected == "" || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(state)) == 1
}

// GetTokenFromCookie retrieves a token from cookies
func GetTokenFromCookie(c echo.Context, cookieName string) string {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// IsSecureContext checks if the request is made over HTTPS
func IsSecureContext(c echo.Context) bool {
	if c.Request().TLS != nil {
		return true
	}

	// Check for X-Forwarded-Proto header (common with reverse proxies)
	if c.Request().Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}

	return c.Request().Header.Get("X-Forwarded-SSL") == "on"
}
