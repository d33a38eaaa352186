package gamelist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JoaoGSDC/streamline-app/internal/ordering"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *StreamerGameService
}

func NewHandler(service *StreamerGameService) *Handler {
	return &Handler{
		service: service,
	}
}

// ListStreamerGames lists a streamer's board. Plain requests get the raw
// rows; sort/page requests get a page of cards; group=status gets the board.
func (h *Handler) ListStreamerGames(c echo.Context) error {
	streamerID, err := uuid.Parse(c.QueryParam("streamerId"))
	if err != nil {
		return utils.NewValidationError("streamerId is required")
	}

	q := parseListQuery(c)
	ctx := c.Request().Context()

	switch {
	case q.Group:
		board, err := h.service.Board(ctx, streamerID, q.Filter)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, board)
	case q.Paginate:
		page, err := h.service.Page(ctx, streamerID, q)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, page)
	}

	items, err := h.service.List(ctx, streamerID, q.Filter)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateStreamerGame(c echo.Context) error {
	actor, err := security.ActorID(c)
	if err != nil {
		return err
	}

	var request CreateRequest
	if err := bindBody(c, &request); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), actor, request)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateStreamerGame(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	var patch Patch
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), actor, id, patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteStreamerGame(c echo.Context) error {
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

// Reorder persists the order of a whole column after a drag.
func (h *Handler) Reorder(c echo.Context) error {
	actor, err := security.ActorID(c)
	if err != nil {
		return err
	}

	var request struct {
		Status string   `json:"status"`
		IDs    []string `json:"ids"`
	}
	if err := bindBody(c, &request); err != nil {
		return err
	}

	assignments, err := h.service.Reorder(c.Request().Context(), actor, request.Status, request.IDs)
	return orderResponse(c, assignments, err)
}

// Move drops one item into a column before another item.
func (h *Handler) Move(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	var request struct {
		Status   string `json:"status"`
		BeforeID string `json:"beforeId"`
	}
	if err := bindBody(c, &request); err != nil {
		return err
	}

	assignments, err := h.service.Move(c.Request().Context(), actor, id, request.Status, request.BeforeID)
	return orderResponse(c, assignments, err)
}

// ChangeStatus moves one item to another column without reordering.
func (h *Handler) ChangeStatus(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	var request struct {
		Status string `json:"status"`
	}
	if err := bindBody(c, &request); err != nil {
		return err
	}

	if err := h.service.ChangeStatus(c.Request().Context(), actor, id, request.Status); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func orderResponse(c echo.Context, assignments []ordering.Assignment, err error) error {
	var partial *ordering.PartialError
	if errors.As(err, &partial) {
		return c.JSON(http.StatusMultiStatus, map[string]interface{}{
			"success": false,
			"error":   "Falha ao salvar a ordem de alguns jogos",
			"failed":  partial.Failed,
		})
	}
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"assignments": assignments,
	})
}

func parseListQuery(c echo.Context) ListQuery {
	q := ListQuery{
		Filter: Filter{
			Query:  c.QueryParam("q"),
			Status: c.QueryParam("status"),
		},
		Sort:  views.ParseSortKey(c.QueryParam("sort")),
		Group: c.QueryParam("group") == "status",
	}
	q.Dir = views.ParseDirection(c.QueryParam("dir"), q.Sort)

	for _, name := range []string{"sort", "dir", "page", "pageSize"} {
		if c.QueryParam(name) != "" {
			q.Paginate = true
		}
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	return q
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
	for _, variant := range []error{errNoEntry, errBothEntries, errInvalidGameID} {
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
