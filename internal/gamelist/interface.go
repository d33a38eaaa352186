package gamelist

import (
	"context"
	"errors"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/ordering"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("streamer game not found")
	ErrForbidden = errors.New("streamer game belongs to another streamer")
)

// StreamerGameStore persists board items. It also stores ordering writes.
type StreamerGameStore interface {
	ordering.Store

	Create(ctx context.Context, item *StreamerGame) (*StreamerGame, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StreamerGame, error)
	List(ctx context.Context, streamerID uuid.UUID, filter Filter) ([]*StreamerGame, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Owners(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// GameLookup resolves catalog references.
type GameLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*game.Game, error)
}

// Publisher receives board changes for live viewers.
type Publisher interface {
	Publish(streamerID uuid.UUID, eventType string, data interface{})
}
