package game

import (
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/views"

	"github.com/google/uuid"
)

type Game struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	ExternalCatalogID *int64            `json:"igdbId" db:"external_catalog_id"`
	Title             string            `json:"title" db:"title"`
	Image             *string           `json:"image" db:"image_url"`
	Synopsis          *string           `json:"synopsis" db:"synopsis"`
	Genres            []string          `json:"genre" db:"genres"`
	Platform          *string           `json:"platform" db:"platform"`
	Website           *string           `json:"website" db:"website"`
	StoreLinks        []views.StoreLink `json:"storeLinks" db:"store_links"`
	IsCustom          bool              `json:"isCustomGame" db:"is_custom"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
}

// CreateGame is the body of POST /api/games.
type CreateGame struct {
	ExternalCatalogID *int64            `json:"igdbId"`
	Title             string            `json:"title"`
	Image             *string           `json:"image"`
	Synopsis          *string           `json:"synopsis"`
	Genres            []string          `json:"genre"`
	Platform          *string           `json:"platform"`
	Website           *string           `json:"website"`
	StoreLinks        []views.StoreLink `json:"storeLinks"`
	IsCustom          bool              `json:"isCustomGame"`
}

// Raw is the shape the schedule views join onto an entry.
func (g *Game) Raw() *views.RawGame {
	return &views.RawGame{
		Title:             g.Title,
		Image:             g.Image,
		Synopsis:          g.Synopsis,
		Platform:          g.Platform,
		StoreLinks:        g.StoreLinks,
		ExternalCatalogID: g.ExternalCatalogID,
	}
}
