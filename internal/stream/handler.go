package stream

import (
	"errors"
	"net/http"

	"github.com/JoaoGSDC/streamline-app/internal/security"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *ScheduledStreamService
}

func NewHandler(service *ScheduledStreamService) *Handler {
	return &Handler{
		service: service,
	}
}

// ListScheduledStreams returns a streamer's schedule joined with game data.
func (h *Handler) ListScheduledStreams(c echo.Context) error {
	streamerID, err := uuid.Parse(c.QueryParam("streamerId"))
	if err != nil {
		return utils.NewValidationError("streamerId is required")
	}

	streams, err := h.service.List(c.Request().Context(), streamerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, streams)
}

func (h *Handler) CreateScheduledStream(c echo.Context) error {
	actor, err := security.ActorID(c)
	if err != nil {
		return err
	}

	var request CreateRequest
	if err := bindBody(c, &request); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), actor, request)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateScheduledStream(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	var patch Patch
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), actor, id, patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteScheduledStream deletes a stream owned by the session's streamer.
func (h *Handler) DeleteScheduledStream(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// GetAgenda serves /api/streamers/{handle}/agenda?view=&date=.
func (h *Handler) GetAgenda(c echo.Context) error {
	agenda, err := h.service.Agenda(c.Request().Context(), c.Param("handle"), c.QueryParam("view"), c.QueryParam("date"))
	if err != nil {
		if errors.Is(err, ErrUnknownStreamer) {
			return utils.NewAppError(http.StatusNotFound, "Streamer não encontrado")
		}
		return err
	}
	return c.JSON(http.StatusOK, agenda)
}

func actorAndID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	actor, err := security.ActorID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, utils.ErrNotFound
	}
	return actor, id, nil
}

// bindBody binds a JSON body with c.Bind. Variant errors from the request
// types keep their own message.
func bindBody(c echo.Context, dst interface{}) error {
	if c.Request().ContentLength == 0 {
		return utils.NewValidationError("Request body is required")
	}
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	for _, variant := range []error{errBothGames, errGameTitle, errInvalidGameID} {
		if errors.Is(err, variant) {
			return utils.NewValidationError(variant.Error())
		}
	}
	return utils.NewValidationError("Invalid request body")
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return utils.ErrNotFound
	case errors.Is(err, ErrForbidden):
		return utils.ErrForbidden
	}
	return err
}
