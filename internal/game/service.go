package game

import (
	"context"
	"errors"
	"strings"

	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

var ErrTitleRequired = errors.New("title is required")

type GameService struct {
	store GameStore
}

func NewGameService(store GameStore) *GameService {
	return &GameService{
		store: store,
	}
}

// Create registers a game. A catalog game already known by its external id
// is returned as is. Images are normalised once, here.
func (gs *GameService) Create(ctx context.Context, input CreateGame) (*Game, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.ExternalCatalogID != nil {
		existing, err := gs.store.GetByExternalID(ctx, *input.ExternalCatalogID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	genres := input.Genres
	if genres == nil {
		genres = []string{}
	}
	storeLinks := input.StoreLinks
	if storeLinks == nil {
		storeLinks = []views.StoreLink{}
	}

	game, err := gs.store.Create(ctx, &Game{
		ExternalCatalogID: input.ExternalCatalogID,
		Title:             title,
		Image:             views.NormalizeImagePtr(input.Image, views.SizeCard),
		Synopsis:          trimPtr(input.Synopsis),
		Genres:            genres,
		Platform:          trimPtr(input.Platform),
		Website:           trimPtr(input.Website),
		StoreLinks:        storeLinks,
		IsCustom:          input.IsCustom || input.ExternalCatalogID == nil,
	})
	if err != nil {
		return nil, err
	}

	utils.WithFields(map[string]interface{}{
		"game_id":   game.ID,
		"title":     game.Title,
		"is_custom": game.IsCustom,
	}).Debug("Game registered")
	return game, nil
}

func (gs *GameService) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	return gs.store.GetByID(ctx, id)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
