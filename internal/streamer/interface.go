package streamer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("streamer not found")

// StreamerStore persists streamer accounts.
type StreamerStore interface {
	Upsert(ctx context.Context, streamer *Streamer) (*Streamer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Streamer, error)
	GetByHandle(ctx context.Context, handle string) (*Streamer, error)
	GetByExternalID(ctx context.Context, externalID string) (*Streamer, error)
	List(ctx context.Context) ([]*Streamer, error)
}
