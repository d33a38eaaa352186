package game

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("game not found")

// GameStore persists catalog and custom games.
type GameStore interface {
	// Create inserts game, or returns the row already registered for its
	// external catalog id.
	Create(ctx context.Context, game *Game) (*Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	GetByExternalID(ctx context.Context, externalID int64) (*Game, error)
}
