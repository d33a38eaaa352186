package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/configs"
	Auth "github.com/JoaoGSDC/streamline-app/internal/Auth"
	"github.com/JoaoGSDC/streamline-app/internal/audit"
	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/gamelist"
	"github.com/JoaoGSDC/streamline-app/internal/igdb"
	"github.com/JoaoGSDC/streamline-app/internal/live"
	"github.com/JoaoGSDC/streamline-app/internal/ordering"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/stream"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 30 * time.Second

// App is the wired HTTP service.
type App struct {
	Config *configs.Config
	Echo   *echo.Echo
	Live   *live.Server
	DB     *database.Handle

	connector *database.Connector
	catalog   igdb.Catalog
	provider  Auth.Provider
	audit     *audit.AuditLogger
}

type Option func(*App)

// WithCatalog replaces the IGDB client.
func WithCatalog(catalog igdb.Catalog) Option {
	return func(a *App) { a.catalog = catalog }
}

// WithAuthProvider replaces the Twitch OAuth provider.
func WithAuthProvider(provider Auth.Provider) Option {
	return func(a *App) { a.provider = provider }
}

// WithAuditLogger sends audit events somewhere other than the process logger.
func WithAuditLogger(al *audit.AuditLogger) Option {
	return func(a *App) { a.audit = al }
}

// New opens the database and wires every store, service and route.
func New(ctx context.Context, cfg *configs.Config, opts ...Option) (*App, error) {
	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	secCfg, err := security.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("security config: %w", err)
	}

	app.connector = database.NewConnector(cfg)
	app.DB, err = app.connector.Handle(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if app.catalog == nil {
		clientID := cfg.IGDB.ClientID
		if clientID == "" {
			clientID = cfg.Twitch.ClientID
		}
		app.catalog = igdb.NewClient(igdb.Config{
			ClientID:     clientID,
			ClientSecret: cfg.Twitch.ClientSecret,
			AccessToken:  cfg.IGDB.AccessToken,
			BaseURL:      cfg.IGDB.BaseURL,
			Timeout:      cfg.IGDBTimeout(),
		}, igdb.WithLocation(loc))
	}
	if app.provider == nil {
		app.provider = Auth.NewTwitchProvider(cfg)
	}
	if app.audit == nil {
		app.audit = audit.NewAuditLogger(nil)
	}

	app.Live = live.NewServer()
	sessions := security.NewSessionManager(secCfg)

	gameStore := game.NewGameStore(app.DB)
	gameService := game.NewGameService(gameStore)
	streamerService := streamer.NewStreamerService(streamer.NewStreamerStore(app.DB), security.NewSealer(secCfg.SealingKey))
	listStore := gamelist.NewStreamerGameStore(app.DB)
	listService := gamelist.NewStreamerGameService(listStore, gameService, ordering.NewEngine(listStore, cfg.Ordering.Atomic), app.Live)
	streamService := stream.NewScheduledStreamService(stream.NewScheduledStreamStore(app.DB), gameService, streamerService, app.Live, loc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = utils.CustomHTTPErrorHandler

	security.SetupSecurityMiddleware(e, secCfg, security.DefaultSecurityConfig())
	e.Use(security.LoggingMiddleware)
	e.Use(security.SessionMiddleware(secCfg, sessions))
	e.Use(security.AuditMiddleware(app.audit))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	setupAuthRoutes(e, Auth.NewHandler(app.provider, streamerService, sessions, secCfg, app.audit, cfg.Twitch.FrontendURL))
	setupCatalogRoutes(e, game.NewHandler(gameService), igdb.NewHandler(app.catalog))
	scheduleHandler := stream.NewHandler(streamService)
	setupStreamerRoutes(e, streamer.NewHandler(streamerService), scheduleHandler)
	setupGameListRoutes(e, gamelist.NewHandler(listService))
	setupScheduleRoutes(e, scheduleHandler)
	e.GET("/ws/streamers/:handle", live.NewHandler(app.Live, streamerService, secCfg.AllowedOrigins).Subscribe)

	for _, route := range e.Routes() {
		utils.WithFields(map[string]interface{}{
			"method": route.Method,
			"path":   route.Path,
		}).Debug("Registered route")
	}

	app.Echo = e
	return app, nil
}

func setupAuthRoutes(e *echo.Echo, h *Auth.Handler) {
	auth := e.Group("/api/auth")
	auth.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{Rate: 5, Burst: 20, ExpiresIn: 3 * time.Minute},
	)))
	auth.GET("/twitch/login", h.TwitchLogin)
	auth.GET("/twitch/callback", h.TwitchCallback)
	auth.POST("/logout", h.Logout)
}

func setupCatalogRoutes(e *echo.Echo, games *game.Handler, catalog *igdb.Handler) {
	e.POST("/api/games", games.CreateGame)
	e.GET("/api/games/:id", games.GetGame)

	e.GET("/api/igdb/search", catalog.Search)
	e.GET("/api/igdb/games/:id", catalog.GetGame)
}

func setupStreamerRoutes(e *echo.Echo, streamers *streamer.Handler, schedule *stream.Handler) {
	e.GET("/api/me", streamers.Me, security.RequireSession)
	e.GET("/api/streamers/:handle", streamers.GetByHandle)
	e.GET("/api/streamers/:handle/agenda", schedule.GetAgenda)
}

func setupGameListRoutes(e *echo.Echo, h *gamelist.Handler) {
	e.GET("/api/streamer-games", h.ListStreamerGames)

	// Writes are tied to the session streamer and its own rows.
	api := e.Group("/api/streamer-games", security.RequireSession)
	api.POST("", h.CreateStreamerGame)
	api.POST("/reorder", h.Reorder)
	api.PATCH("/:id", h.UpdateStreamerGame)
	api.DELETE("/:id", h.DeleteStreamerGame)
	api.POST("/:id/move", h.Move)
	api.POST("/:id/status", h.ChangeStatus)
}

func setupScheduleRoutes(e *echo.Echo, h *stream.Handler) {
	e.GET("/api/scheduled-streams", h.ListScheduledStreams)

	api := e.Group("/api/scheduled-streams", security.RequireSession)
	api.POST("", h.CreateScheduledStream)
	api.PATCH("/:id", h.UpdateScheduledStream)
	api.DELETE("/:id", h.DeleteScheduledStream)
}

// Run serves HTTP and the live hub until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.Live.Start(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		utils.Infof("HTTP server listening on %s", a.Config.ListenAddr())
		if err := a.Echo.Start(a.Config.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.Close()
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		utils.Info("Shutdown signal received, starting graceful shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		utils.Errorf("HTTP server shutdown error: %v", err)
	}
	stopHub()
	a.Close()

	utils.Info("Server shutdown complete")
	return nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.connector.Close()
}
