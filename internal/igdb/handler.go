package igdb

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Catalog is the part of the client the HTTP proxy needs.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]Game, error)
	Details(ctx context.Context, id int64) (*Details, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Search proxies a catalog search. Upstream failures are logged and answered
// with an empty result list.
func (h *Handler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return utils.NewValidationError("Parâmetro 'q' é obrigatório")
	}
	limit := ClampLimit(c.QueryParam("limit"))

	results, err := h.catalog.Search(c.Request().Context(), q, limit)
	if err != nil {
		utils.WithFields(map[string]interface{}{
			"query": q,
			"error": err.Error(),
		}).Error("IGDB search failed")
		results = nil
	}
	if results == nil {
		results = []Game{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// GetGame proxies the details of one catalog entry.
func (h *Handler) GetGame(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return utils.NewValidationError("ID inválido")
	}

	game, err := h.catalog.Details(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, "Jogo não encontrado")
		}
		utils.WithFields(map[string]interface{}{
			"igdb_id": id,
			"error":   err.Error(),
		}).Error("IGDB details failed")
		return utils.NewAppError(http.StatusBadGateway, "Falha ao buscar jogo na IGDB")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"game": game,
	})
}
