package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

// Columns lists the games columns in the order Scan expects them. Other
// stores use it when they join games in.
const Columns = `g.id, g.external_catalog_id, g.title, g.image_url, g.synopsis, g.genres, g.platform,
	g.website, g.store_links, g.is_custom, g.created_at`

type GameStoreImpl struct {
	db *database.Handle
}

func NewGameStore(db *database.Handle) *GameStoreImpl {
	return &GameStoreImpl{db: db}
}

func (gs *GameStoreImpl) Create(ctx context.Context, game *Game) (*Game, error) {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	game.CreatedAt = time.Now().UTC()

	genres, err := database.EncodeList(game.Genres)
	if err != nil {
		return nil, err
	}
	storeLinks, err := database.EncodeList(game.StoreLinks)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO games (id, external_catalog_id, title, image_url, synopsis, genres, platform,
		                   website, store_links, is_custom, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if game.ExternalCatalogID != nil {
		query += ` ON CONFLICT (external_catalog_id) DO NOTHING`
	}

	_, err = gs.db.ExecContext(ctx, gs.db.Rebind(query),
		game.ID, game.ExternalCatalogID, game.Title, game.Image, game.Synopsis, genres, game.Platform,
		game.Website, storeLinks, game.IsCustom, game.CreatedAt,
	)
	if err != nil {
		utils.Errorf("Error creating game %q: %v", game.Title, err)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if game.ExternalCatalogID != nil {
		return gs.GetByExternalID(ctx, *game.ExternalCatalogID)
	}
	return gs.GetByID(ctx, game.ID)
}

func (gs *GameStoreImpl) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	row := gs.db.QueryRowContext(ctx, gs.db.Rebind(`SELECT `+Columns+` FROM games g WHERE g.id = ?`), id)
	return scanOne(row)
}

func (gs *GameStoreImpl) GetByExternalID(ctx context.Context, externalID int64) (*Game, error) {
	row := gs.db.QueryRowContext(ctx, gs.db.Rebind(`SELECT `+Columns+` FROM games g WHERE g.external_catalog_id = ?`), externalID)
	return scanOne(row)
}

func scanOne(row *sql.Row) (*Game, error) {
	var game Game
	var genres, storeLinks string
	err := row.Scan(
		&game.ID, &game.ExternalCatalogID, &game.Title, &game.Image, &game.Synopsis, &genres, &game.Platform,
		&game.Website, &storeLinks, &game.IsCustom, &game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		utils.Errorf("Error scanning game: %v", err)
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	if err := game.decodeLists(genres, storeLinks); err != nil {
		return nil, err
	}
	return &game, nil
}

func (g *Game) decodeLists(genres, storeLinks string) error {
	g.Genres = []string{}
	g.StoreLinks = nil
	if err := database.DecodeList(genres, &g.Genres); err != nil {
		return err
	}
	if err := database.DecodeList(storeLinks, &g.StoreLinks); err != nil {
		return err
	}
	if g.StoreLinks == nil {
		g.StoreLinks = []views.StoreLink{}
	}
	return nil
}

// Nullable holds a LEFT JOINed games row.
type Nullable struct {
	ID                uuid.NullUUID
	ExternalCatalogID sql.NullInt64
	Title             sql.NullString
	Image             sql.NullString
	Synopsis          sql.NullString
	Genres            sql.NullString
	Platform          sql.NullString
	Website           sql.NullString
	StoreLinks        sql.NullString
	IsCustom          sql.NullBool
	CreatedAt         sql.NullTime
}

// Dest returns the scan destinations matching Columns.
func (n *Nullable) Dest() []interface{} {
	return []interface{}{
		&n.ID, &n.ExternalCatalogID, &n.Title, &n.Image, &n.Synopsis, &n.Genres, &n.Platform,
		&n.Website, &n.StoreLinks, &n.IsCustom, &n.CreatedAt,
	}
}

// Game returns the joined row, or nil when the join found nothing.
func (n *Nullable) Game() (*Game, error) {
	if !n.ID.Valid {
		return nil, nil
	}
	game := &Game{
		ID:        n.ID.UUID,
		Title:     n.Title.String,
		Image:     stringPtr(n.Image),
		Synopsis:  stringPtr(n.Synopsis),
		Platform:  stringPtr(n.Platform),
		Website:   stringPtr(n.Website),
		IsCustom:  n.IsCustom.Bool,
		CreatedAt: n.CreatedAt.Time,
	}
	if n.ExternalCatalogID.Valid {
		id := n.ExternalCatalogID.Int64
		game.ExternalCatalogID = &id
	}
	if err := game.decodeLists(n.Genres.String, n.StoreLinks.String); err != nil {
		return nil, err
	}
	return game, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
