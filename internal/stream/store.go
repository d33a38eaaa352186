package stream

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

const selectScheduledStream = `
	SELECT s.id, s.streamer_id, s.game_id, s.external_catalog_id, s.game_title, s.game_image,
	       s.game_synopsis, s.scheduled_date, s.scheduled_time, s.duration, s.links, s.notes,
	       s.created_at, s.updated_at,
	       ` + game.Columns + `
	FROM scheduled_streams s
	LEFT JOIN games g ON g.id = s.game_id`

type ScheduledStreamStoreImpl struct {
	db *database.Handle
}

func NewScheduledStreamStore(db *database.Handle) *ScheduledStreamStoreImpl {
	return &ScheduledStreamStoreImpl{db: db}
}

func (ss *ScheduledStreamStoreImpl) Create(ctx context.Context, s *ScheduledStream) (*ScheduledStream, error) {
	now := time.Now().UTC()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	links, err := database.EncodeList(s.Links)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO scheduled_streams (id, streamer_id, game_id, external_catalog_id, game_title, game_image,
		                               game_synopsis, scheduled_date, scheduled_time, duration, links, notes,
		                               created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = ss.db.ExecContext(ctx, ss.db.Rebind(query),
		s.ID, s.StreamerID, nullUUID(s.GameID), s.ExternalCatalogID, s.GameTitle, s.GameImage,
		s.GameSynopsis, s.ScheduledDate.UTC(), s.ScheduledTime, s.Duration, links, s.Notes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		utils.Errorf("Error creating scheduled stream: %v", err)
		return nil, fmt.Errorf("failed to create scheduled stream: %w", err)
	}

	return ss.GetByID(ctx, s.ID)
}

func (ss *ScheduledStreamStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*ScheduledStream, error) {
	rows, err := ss.db.QueryContext(ctx, ss.db.Rebind(selectScheduledStream+` WHERE s.id = ?`), id)
	if err != nil {
		utils.Errorf("Error querying scheduled stream %s: %v", id, err)
		return nil, fmt.Errorf("failed to get scheduled stream: %w", err)
	}
	streams, err := scanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, ErrNotFound
	}
	return streams[0], nil
}

// ListByStreamer returns the schedule earliest first.
func (ss *ScheduledStreamStoreImpl) ListByStreamer(ctx context.Context, streamerID uuid.UUID) ([]*ScheduledStream, error) {
	query := selectScheduledStream + ` WHERE s.streamer_id = ? ORDER BY s.scheduled_date, s.id`
	rows, err := ss.db.QueryContext(ctx, ss.db.Rebind(query), streamerID)
	if err != nil {
		utils.Errorf("Error listing scheduled streams for %s: %v", streamerID, err)
		return nil, fmt.Errorf("failed to list scheduled streams: %w", err)
	}
	return scanAll(rows)
}

// Update writes the editable columns of s.
func (ss *ScheduledStreamStoreImpl) Update(ctx context.Context, s *ScheduledStream) error {
	links, err := database.EncodeList(s.Links)
	if err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE scheduled_streams
		SET scheduled_date = ?, scheduled_time = ?, duration = ?, links = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	return ss.execOne(ctx, query, s.ScheduledDate.UTC(), s.ScheduledTime, s.Duration, links, s.Notes, s.UpdatedAt, s.ID)
}

func (ss *ScheduledStreamStoreImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return ss.execOne(ctx, `DELETE FROM scheduled_streams WHERE id = ?`, id)
}

func (ss *ScheduledStreamStoreImpl) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := ss.db.ExecContext(ctx, ss.db.Rebind(query), args...)
	if err != nil {
		utils.Errorf("Error writing scheduled stream: %v", err)
		return fmt.Errorf("failed to write scheduled stream: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to write scheduled stream: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAll(rows *sql.Rows) ([]*ScheduledStream, error) {
	defer rows.Close()

	streams := []*ScheduledStream{}
	for rows.Next() {
		s := &ScheduledStream{}
		var gameID uuid.NullUUID
		var links string
		var joined game.Nullable

		dest := []interface{}{
			&s.ID, &s.StreamerID, &gameID, &s.ExternalCatalogID, &s.GameTitle, &s.GameImage,
			&s.GameSynopsis, &s.ScheduledDate, &s.ScheduledTime, &s.Duration, &links, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		}
		if err := rows.Scan(append(dest, joined.Dest()...)...); err != nil {
			utils.Errorf("Error scanning scheduled stream: %v", err)
			return nil, fmt.Errorf("failed to scan scheduled stream: %w", err)
		}

		if gameID.Valid {
			id := gameID.UUID
			s.GameID = &id
		}
		s.Links = []views.Link{}
		if err := database.DecodeList(links, &s.Links); err != nil {
			return nil, err
		}
		if s.Links == nil {
			s.Links = []views.Link{}
		}

		g, err := joined.Game()
		if err != nil {
			return nil, err
		}
		s.Game = g
		streams = append(streams, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled streams: %w", err)
	}
	return streams, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
