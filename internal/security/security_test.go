package security_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/testsupport"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

func newSecurityConfig(t *testing.T) *security.Config {
	t.Helper()
	cfg, err := security.NewConfig(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func testProfile() security.Profile {
	return security.Profile{
		ID:              "6f1c8a52-4f0e-4d8e-9b59-5d2a3f6c7e10",
		Name:            "Gaules",
		TwitchUsername:  "gaules",
		Avatar:          "https://static-cdn.jtvnw.net/a.png",
		TwitchURL:       "https://twitch.tv/gaules",
		Followers:       4200000,
		BroadcasterType: "partner",
		CreatedAt:       "2025-10-01T12:00:00Z",
	}
}

func TestNewConfigRejectsShortSecret(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Session.Secret = "short"
	if _, err := security.NewConfig(cfg); err == nil {
		t.Fatal("expected error for short session secret")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := security.NewSessionManager(newSecurityConfig(t))

	token, err := sessions.Issue(testProfile())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	profile, err := sessions.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *profile != testProfile() {
		t.Fatalf("profile mismatch: %+v", profile)
	}
}

func TestSessionRejectsTamperingAndForeignSecret(t *testing.T) {
	cfg := newSecurityConfig(t)
	sessions := security.NewSessionManager(cfg)
	token, err := sessions.Issue(testProfile())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := sessions.Parse(strings.Join(parts, ".")); !errors.Is(err, security.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for tampered signature, got %v", err)
	}

	other := *cfg
	other.SessionSecret = strings.Repeat("z", 40)
	if _, err := security.NewSessionManager(&other).Parse(token); !errors.Is(err, security.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for foreign secret, got %v", err)
	}

	if _, err := sessions.Parse("not-a-jwt"); err == nil {
		t.Fatal("expected error for garbage")
	}
}

func TestSessionExpires(t *testing.T) {
	cfg := newSecurityConfig(t)
	cfg.SessionMaxAge = -time.Minute
	sessions := security.NewSessionManager(cfg)

	token, err := sessions.Issue(testProfile())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := sessions.Parse(token); !errors.Is(err, security.ErrExpiredSession) {
		t.Fatalf("expected ErrExpiredSession, got %v", err)
	}
}

func TestSealer(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}
	sealer := security.NewSealer(&key)

	sealed, err := sealer.Seal("oauth-access-token")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "" || strings.Contains(sealed, "oauth-access-token") {
		t.Fatalf("token not sealed: %q", sealed)
	}
	opened, err := sealer.Open(sealed)
	if err != nil || opened != "oauth-access-token" {
		t.Fatalf("Open = %q, %v", opened, err)
	}

	var otherKey [32]byte
	if _, err := security.NewSealer(&otherKey).Open(sealed); !errors.Is(err, security.ErrUnsealable) {
		t.Fatalf("expected ErrUnsealable with the wrong key, got %v", err)
	}

	disabled := security.NewSealer(nil)
	if s, err := disabled.Seal("x"); s != "" || err != nil {
		t.Fatalf("disabled sealer should store nothing, got %q %v", s, err)
	}
}

func newSessionEcho(t *testing.T, cfg *security.Config) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = utils.CustomHTTPErrorHandler
	e.Use(security.SessionMiddleware(cfg, security.NewSessionManager(cfg)))
	e.GET("/whoami", func(c echo.Context) error {
		profile := security.SessionFrom(c)
		if profile == nil {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, profile.TwitchUsername)
	})
	e.POST("/mutate", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, security.RequireSession)
	return e
}

func TestSessionMiddleware(t *testing.T) {
	cfg := newSecurityConfig(t)
	e := newSessionEcho(t, cfg)
	token, err := security.NewSessionManager(cfg).Issue(testProfile())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name   string
		method string
		path   string
		cookie string
		code   int
		body   string
	}{
		{"anonymous read", http.MethodGet, "/whoami", "", http.StatusOK, "anonymous"},
		{"session read", http.MethodGet, "/whoami", token, http.StatusOK, "gaules"},
		{"tampered read", http.MethodGet, "/whoami", token + "x", http.StatusOK, "anonymous"},
		{"anonymous mutate", http.MethodPost, "/mutate", "", http.StatusUnauthorized, ""},
		{"session mutate", http.MethodPost, "/mutate", token, http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, rec.Code, rec.Body.String())
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, rec.Body.String())
			}
		})
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	cfg := newSecurityConfig(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	security.SetSessionCookie(c, cfg, "value")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "twitch_session" || cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
	if cookie.MaxAge != 30*24*60*60 {
		t.Fatalf("unexpected max age %d", cookie.MaxAge)
	}
}

func TestStateCookie(t *testing.T) {
	cfg := newSecurityConfig(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	req.AddCookie(&http.Cookie{Name: security.StateCookie, Value: "abc"})
	c := e.NewContext(req, httptest.NewRecorder())
	if !security.ConsumeStateCookie(c, cfg, "abc") {
		t.Fatal("matching state should verify")
	}

	c = e.NewContext(req, httptest.NewRecorder())
	if security.ConsumeStateCookie(c, cfg, "abd") {
		t.Fatal("mismatched state must not verify")
	}

	bare := httptest.NewRequest(http.MethodGet, "/callback", nil)
	c = e.NewContext(bare, httptest.NewRecorder())
	if security.ConsumeStateCookie(c, cfg, "") {
		t.Fatal("missing state must not verify")
	}
}
