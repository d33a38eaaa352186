package stream

import (
	"context"
	"errors"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("scheduled stream not found")
	ErrForbidden = errors.New("scheduled stream belongs to another streamer")
)

// ScheduledStreamStore persists scheduled streams with their game joined in.
type ScheduledStreamStore interface {
	Create(ctx context.Context, s *ScheduledStream) (*ScheduledStream, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduledStream, error)
	ListByStreamer(ctx context.Context, streamerID uuid.UUID) ([]*ScheduledStream, error)
	Update(ctx context.Context, s *ScheduledStream) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GameLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*game.Game, error)
}

type StreamerLookup interface {
	GetByHandle(ctx context.Context, handle string) (*streamer.Streamer, error)
}

// Publisher pushes live events to a streamer's viewers.
type Publisher interface {
	Publish(streamerID uuid.UUID, eventType string, data interface{})
}
