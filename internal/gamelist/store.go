package gamelist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/ordering"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

const selectStreamerGame = `
	SELECT sg.id, sg.streamer_id, sg.game_id, sg.custom_title, sg.custom_image, sg.status,
	       sg.started_at, sg.finished_at, sg.notes, sg.sort_order, sg.created_at, sg.updated_at,
	       ` + game.Columns + `
	FROM streamer_games sg
	LEFT JOIN games g ON g.id = sg.game_id`

type StreamerGameStoreImpl struct {
	db *database.Handle
}

func NewStreamerGameStore(db *database.Handle) *StreamerGameStoreImpl {
	return &StreamerGameStoreImpl{db: db}
}

func (s *StreamerGameStoreImpl) Create(ctx context.Context, item *StreamerGame) (*StreamerGame, error) {
	now := time.Now().UTC()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO streamer_games (id, streamer_id, game_id, custom_title, custom_image, status,
		                            started_at, finished_at, notes, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		item.ID, item.StreamerID, nullUUID(item.GameID), item.CustomTitle, item.CustomImage, item.Status,
		utcPtr(item.StartedAt), utcPtr(item.FinishedAt), item.Notes, item.SortOrder, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		utils.Errorf("Error creating streamer game: %v", err)
		return nil, fmt.Errorf("failed to create streamer game: %w", err)
	}

	return s.GetByID(ctx, item.ID)
}

func (s *StreamerGameStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*StreamerGame, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(selectStreamerGame+` WHERE sg.id = ?`), id)
	if err != nil {
		utils.Errorf("Error querying streamer game %s: %v", id, err)
		return nil, fmt.Errorf("failed to get streamer game: %w", err)
	}
	items, err := scanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

// List returns the streamer's items in creation order. The query matches a
// case-insensitive substring of the catalog or custom title. SQLite's LOWER
// only folds ASCII, so on sqlite the title match runs here instead.
func (s *StreamerGameStoreImpl) List(ctx context.Context, streamerID uuid.UUID, filter Filter) ([]*StreamerGame, error) {
	query := selectStreamerGame + ` WHERE sg.streamer_id = ?`
	args := []interface{}{streamerID}

	if filter.Status != "" {
		query += ` AND sg.status = ?`
		args = append(args, filter.Status)
	}
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	if q != "" && s.db.IsPostgres() {
		query += ` AND LOWER(COALESCE(g.title, sg.custom_title, '')) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(q)+"%")
	}
	query += ` ORDER BY sg.created_at, sg.id`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		utils.Errorf("Error listing streamer games for %s: %v", streamerID, err)
		return nil, fmt.Errorf("failed to list streamer games: %w", err)
	}
	items, err := scanAll(rows)
	if err != nil || q == "" || s.db.IsPostgres() {
		return items, err
	}

	matched := items[:0]
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title()), q) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (s *StreamerGameStoreImpl) Update(ctx context.Context, id uuid.UUID, patch Patch) error {
	sets := []string{}
	args := []interface{}{}
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.GameID.Set {
		set("game_id", nullUUID(patch.GameID.Value))
	}
	if patch.CustomTitle.Set {
		set("custom_title", patch.CustomTitle.Value)
	}
	if patch.CustomImage.Set {
		set("custom_image", patch.CustomImage.Value)
	}
	if patch.Status.Set {
		set("status", patch.Status.Value)
	}
	if patch.StartedAt.Set {
		set("started_at", utcPtr(patch.StartedAt.Value))
	}
	if patch.FinishedAt.Set {
		set("finished_at", utcPtr(patch.FinishedAt.Value))
	}
	if patch.Notes.Set {
		set("notes", patch.Notes.Value)
	}
	if patch.SortOrder.Set {
		set("sort_order", patch.SortOrder.Value)
	}
	set("updated_at", time.Now().UTC())
	args = append(args, id)

	query := `UPDATE streamer_games SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	return s.execOne(ctx, s.db.DB, query, args...)
}

func (s *StreamerGameStoreImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, s.db.DB, `DELETE FROM streamer_games WHERE id = ?`, id)
}

// Owners maps each existing id to its streamer. Unknown ids are absent.
func (s *StreamerGameStoreImpl) Owners(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	owners := make(map[uuid.UUID]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `SELECT id, streamer_id FROM streamer_games WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		utils.Errorf("Error loading streamer game owners: %v", err)
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, owner uuid.UUID
		if err := rows.Scan(&id, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners[id] = owner
	}
	return owners, rows.Err()
}

// ApplyOrder writes a whole column in one transaction.
func (s *StreamerGameStoreImpl) ApplyOrder(ctx context.Context, assignments []ordering.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		utils.Errorf("Failed to begin transaction: %v", err)
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, a := range assignments {
		err := s.execOne(ctx, tx, `UPDATE streamer_games SET status = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
			a.Status, a.SortOrder, now, a.ID)
		if err != nil {
			return fmt.Errorf("reorder %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// SetOrder writes one assignment on its own.
func (s *StreamerGameStoreImpl) SetOrder(ctx context.Context, a ordering.Assignment) error {
	return s.execOne(ctx, s.db.DB, `UPDATE streamer_games SET status = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		a.Status, a.SortOrder, time.Now().UTC(), a.ID)
}

// SetStatus changes the column of one item and leaves its sort order alone.
func (s *StreamerGameStoreImpl) SetStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, s.db.DB, `UPDATE streamer_games SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *StreamerGameStoreImpl) execOne(ctx context.Context, ex execer, query string, args ...interface{}) error {
	res, err := ex.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		utils.Errorf("Error writing streamer game: %v", err)
		return fmt.Errorf("failed to write streamer game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to write streamer game: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAll(rows *sql.Rows) ([]*StreamerGame, error) {
	defer rows.Close()

	items := []*StreamerGame{}
	for rows.Next() {
		item := &StreamerGame{}
		var gameID uuid.NullUUID
		var joined game.Nullable

		dest := []interface{}{
			&item.ID, &item.StreamerID, &gameID, &item.CustomTitle, &item.CustomImage, &item.Status,
			&item.StartedAt, &item.FinishedAt, &item.Notes, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt,
		}
		if err := rows.Scan(append(dest, joined.Dest()...)...); err != nil {
			utils.Errorf("Error scanning streamer game: %v", err)
			return nil, fmt.Errorf("failed to scan streamer game: %w", err)
		}

		if gameID.Valid {
			id := gameID.UUID
			item.GameID = &id
		}
		g, err := joined.Game()
		if err != nil {
			return nil, err
		}
		item.Game = g
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate streamer games: %w", err)
	}
	return items, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func utcPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ ordering.Store = (*StreamerGameStoreImpl)(nil)
