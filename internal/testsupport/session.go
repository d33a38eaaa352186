package testsupport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/configs"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

// CreateStreamer registers a streamer with the given handle.
func CreateStreamer(t testing.TB, db *database.Handle, handle string) *streamer.Streamer {
	t.Helper()

	svc := streamer.NewStreamerService(streamer.NewStreamerStore(db), security.NewSealer(nil))
	created, err := svc.Login(context.Background(), streamer.Identity{
		ExternalID:  "ext-" + handle,
		Login:       handle,
		DisplayName: handle,
	})
	if err != nil {
		t.Fatalf("create streamer %s: %v", handle, err)
	}
	return created
}

// SessionCookie returns a signed session cookie for s.
func SessionCookie(t testing.TB, cfg *configs.Config, s *streamer.Streamer) *http.Cookie {
	t.Helper()

	secCfg, err := security.NewConfig(cfg)
	if err != nil {
		t.Fatalf("security config: %v", err)
	}
	value, err := security.NewSessionManager(secCfg).Issue(s.Profile())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: secCfg.CookieName, Value: value}
}

// NewEcho returns an echo instance with the API error handler and session
// middleware installed.
func NewEcho(t testing.TB, cfg *configs.Config) *echo.Echo {
	t.Helper()

	secCfg, err := security.NewConfig(cfg)
	if err != nil {
		t.Fatalf("security config: %v", err)
	}
	e := echo.New()
	e.HTTPErrorHandler = utils.CustomHTTPErrorHandler
	e.Use(security.SessionMiddleware(secCfg, security.NewSessionManager(secCfg)))
	return e
}

// Do sends a request through e, with cookie when it is not nil.
func Do(e *echo.Echo, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// WithSession attaches profile to c, for handlers invoked outside the
// middleware chain.
func WithSession(c echo.Context, profile *security.Profile) {
	c.Set(security.SessionContextKey, profile)
}
