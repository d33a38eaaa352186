package game

import (
	"errors"
	"net/http"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *GameService
}

func NewHandler(service *GameService) *Handler {
	return &Handler{
		service: service,
	}
}

// CreateGame registers a catalog or custom game.
func (h *Handler) CreateGame(c echo.Context) error {
	var request CreateGame
	if err := c.Bind(&request); err != nil {
		return utils.NewValidationError("Invalid request body")
	}

	game, err := h.service.Create(c.Request().Context(), request)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return utils.NewValidationError("Title is required")
		}
		return err
	}

	return c.JSON(http.StatusOK, game)
}

// GetGame returns one game by path id or by the gameId query parameter.
func (h *Handler) GetGame(c echo.Context) error {
	raw := c.Param("id")
	if raw == "" {
		raw = c.QueryParam("gameId")
	}
	if raw == "" {
		return utils.NewValidationError("gameId is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return utils.NewAppError(http.StatusNotFound, "Game not found")
	}

	game, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, "Game not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, game)
}
