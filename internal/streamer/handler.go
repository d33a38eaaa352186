package streamer

import (
	"errors"
	"net/http"

	"github.com/JoaoGSDC/streamline-app/internal/security"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *StreamerService
}

func NewHandler(service *StreamerService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetByHandle returns the public profile behind a Twitch handle.
func (h *Handler) GetByHandle(c echo.Context) error {
	streamer, err := h.service.GetByHandle(c.Request().Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, "Streamer não encontrado")
		}
		return err
	}
	return c.JSON(http.StatusOK, streamer.PublicStreamer())
}

// Me returns the session's streamer as currently stored.
func (h *Handler) Me(c echo.Context) error {
	id, err := security.ActorID(c)
	if err != nil {
		return err
	}

	streamer, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.ErrUnauthorized
		}
		return err
	}
	return c.JSON(http.StatusOK, streamer.Profile())
}
