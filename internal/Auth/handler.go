package Auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/JoaoGSDC/streamline-app/internal/audit"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Error codes appended to the frontend's /auth page.
const (
	ErrAccessDenied  = "access_denied"
	ErrNoCode        = "no_code"
	ErrInvalidState  = "invalid_state"
	ErrNoUser        = "no_user"
	ErrCallbackError = "callback_error"
)

type Handler struct {
	provider    Provider
	streamers   StreamerLogin
	sessions    *security.SessionManager
	config      *security.Config
	audit       *audit.AuditLogger
	frontendURL string
}

func NewHandler(provider Provider, streamers StreamerLogin, sessions *security.SessionManager, config *security.Config, al *audit.AuditLogger, frontendURL string) *Handler {
	return &Handler{
		provider:    provider,
		streamers:   streamers,
		sessions:    sessions,
		config:      config,
		audit:       al,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// TwitchLogin redirects to Twitch with a fresh state bound to this browser.
func (h *Handler) TwitchLogin(c echo.Context) error {
	state, err := security.GenerateSecureToken(32)
	if err != nil {
		utils.Errorf("Failed to generate OAuth state: %v", err)
		return utils.ErrInternalServer
	}
	security.SetStateCookie(c, h.config, state)
	return c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// TwitchCallback finishes the OAuth flow: it exchanges the code, records the
// streamer, sets the session cookie and sends the browser to the admin page.
// Every failure ends on the frontend's /auth page with an error code.
func (h *Handler) TwitchCallback(c echo.Context) error {
	if c.QueryParam("error") != "" {
		return h.fail(c, ErrAccessDenied, nil)
	}
	code := c.QueryParam("code")
	if code == "" {
		return h.fail(c, ErrNoCode, nil)
	}
	if !security.ConsumeStateCookie(c, h.config, c.QueryParam("state")) {
		return h.fail(c, ErrInvalidState, nil)
	}

	ctx := c.Request().Context()
	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		return h.fail(c, ErrCallbackError, err)
	}
	identity, err := h.provider.FetchIdentity(ctx, token)
	if err != nil {
		return h.fail(c, ErrCallbackError, err)
	}
	if identity == nil {
		return h.fail(c, ErrNoUser, nil)
	}

	st, err := h.streamers.Login(ctx, *identity)
	if err != nil {
		return h.fail(c, ErrCallbackError, err)
	}
	value, err := h.sessions.Issue(st.Profile())
	if err != nil {
		return h.fail(c, ErrCallbackError, err)
	}

	security.SetSessionCookie(c, h.config, value)
	h.audit.LogLogin(st.ID.String(), st.Handle, c.RealIP(), c.Request().UserAgent())
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/admin")
}

// Logout clears the session cookie.
func (h *Handler) Logout(c echo.Context) error {
	streamerID := ""
	if profile := security.SessionFrom(c); profile != nil {
		streamerID = profile.ID
	}
	security.ClearSessionCookie(c, h.config)
	h.audit.LogLogout(streamerID, c.RealIP())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *Handler) fail(c echo.Context, code string, cause error) error {
	if cause != nil {
		utils.WithField("reason", code).Errorf("Auth callback error: %v", cause)
	}
	h.audit.LogFailedLogin(code, c.RealIP(), c.Request().UserAgent())
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth?error="+url.QueryEscape(code))
}
