package streamer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

const selectStreamer = `
	SELECT id, external_id, display_name, handle, COALESCE(avatar_url, ''), COALESCE(bio, ''),
	       COALESCE(profile_url, ''), follower_count, COALESCE(broadcaster_type, ''),
	       COALESCE(sealed_access_token, ''), created_at, updated_at
	FROM streamers`

type StreamerStoreImpl struct {
	db *database.Handle
}

func NewStreamerStore(db *database.Handle) *StreamerStoreImpl {
	return &StreamerStoreImpl{db: db}
}

// Upsert inserts a streamer keyed by external id. On conflict only the
// profile-refresh fields change; id, handle and created_at are kept. An empty
// sealed token keeps the stored one.
func (ss *StreamerStoreImpl) Upsert(ctx context.Context, streamer *Streamer) (*Streamer, error) {
	now := time.Now().UTC()
	if streamer.ID == uuid.Nil {
		streamer.ID = uuid.New()
	}
	streamer.Handle = strings.ToLower(streamer.Handle)

	query := `
		INSERT INTO streamers (id, external_id, display_name, handle, avatar_url, bio, profile_url,
		                       follower_count, broadcaster_type, sealed_access_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url,
			bio = excluded.bio,
			profile_url = excluded.profile_url,
			follower_count = excluded.follower_count,
			broadcaster_type = excluded.broadcaster_type,
			sealed_access_token = COALESCE(NULLIF(excluded.sealed_access_token, ''), streamers.sealed_access_token),
			updated_at = excluded.updated_at
	`

	_, err := ss.db.ExecContext(ctx, ss.db.Rebind(query),
		streamer.ID, streamer.ExternalID, streamer.DisplayName, streamer.Handle, streamer.AvatarURL,
		streamer.Bio, streamer.ProfileURL, streamer.FollowerCount, streamer.BroadcasterType,
		streamer.SealedAccessToken, now, now,
	)
	if err != nil {
		utils.Errorf("Error upserting streamer %s: %v", streamer.ExternalID, err)
		return nil, fmt.Errorf("failed to upsert streamer: %w", err)
	}

	return ss.GetByExternalID(ctx, streamer.ExternalID)
}

func (ss *StreamerStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*Streamer, error) {
	return ss.getOne(ctx, selectStreamer+` WHERE id = ?`, id)
}

func (ss *StreamerStoreImpl) GetByHandle(ctx context.Context, handle string) (*Streamer, error) {
	return ss.getOne(ctx, selectStreamer+` WHERE LOWER(handle) = ?`, strings.ToLower(strings.TrimSpace(handle)))
}

func (ss *StreamerStoreImpl) GetByExternalID(ctx context.Context, externalID string) (*Streamer, error) {
	return ss.getOne(ctx, selectStreamer+` WHERE external_id = ?`, externalID)
}

func (ss *StreamerStoreImpl) List(ctx context.Context) ([]*Streamer, error) {
	rows, err := ss.db.QueryContext(ctx, selectStreamer+` ORDER BY handle`)
	if err != nil {
		utils.Errorf("Error listing streamers: %v", err)
		return nil, fmt.Errorf("failed to list streamers: %w", err)
	}
	defer rows.Close()

	streamers := []*Streamer{}
	for rows.Next() {
		streamer, err := scanStreamer(rows)
		if err != nil {
			return nil, err
		}
		streamers = append(streamers, streamer)
	}
	return streamers, rows.Err()
}

func (ss *StreamerStoreImpl) getOne(ctx context.Context, query string, arg interface{}) (*Streamer, error) {
	row := ss.db.QueryRowContext(ctx, ss.db.Rebind(query), arg)
	streamer, err := scanStreamer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return streamer, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStreamer(row scanner) (*Streamer, error) {
	streamer := &Streamer{}
	err := row.Scan(
		&streamer.ID, &streamer.ExternalID, &streamer.DisplayName, &streamer.Handle, &streamer.AvatarURL,
		&streamer.Bio, &streamer.ProfileURL, &streamer.FollowerCount, &streamer.BroadcasterType,
		&streamer.SealedAccessToken, &streamer.CreatedAt, &streamer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		utils.Errorf("Error scanning streamer: %v", err)
		return nil, fmt.Errorf("failed to scan streamer: %w", err)
	}
	return streamer, nil
}
