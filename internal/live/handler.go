package live

import (
	"context"
	"errors"
	"net/http"

	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type StreamerLookup interface {
	GetByHandle(ctx context.Context, handle string) (*streamer.Streamer, error)
}

type Handler struct {
	server    *Server
	streamers StreamerLookup
	upgrader  websocket.Upgrader
}

// NewHandler accepts upgrades from allowedOrigins only; "*" allows any origin
// and requests without an Origin header are always accepted.
func NewHandler(server *Server, streamers StreamerLookup, allowedOrigins []string) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &Handler{
		server:    server,
		streamers: streamers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Subscribe upgrades the request and streams the handle's live events.
func (h *Handler) Subscribe(c echo.Context) error {
	s, err := h.streamers.GetByHandle(c.Request().Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, streamer.ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, "Streamer não encontrado")
		}
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		utils.Errorf("WebSocket upgrade failed: %v", err)
		return nil
	}

	client := &Client{
		ID:     uuid.NewString(),
		RoomID: s.ID.String(),
		Conn:   conn,
		Server: h.server,
		Send:   make(chan []byte, sendBuffer),
	}
	if !h.server.join(client) {
		conn.Close()
		return nil
	}

	utils.WithFields(map[string]interface{}{
		"streamer": s.Handle,
		"client":   client.ID,
	}).Debug("Live viewer connected")

	go client.WritePump()
	client.ReadPump()
	return nil
}
