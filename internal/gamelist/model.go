package gamelist

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/ordering"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

// StreamerGame is a game on a streamer's board together with its personal status.
type StreamerGame struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	StreamerID  uuid.UUID  `json:"streamerId" db:"streamer_id"`
	GameID      *uuid.UUID `json:"gameId" db:"game_id"`
	CustomTitle *string    `json:"customTitle" db:"custom_title"`
	CustomImage *string    `json:"customImage" db:"custom_image"`
	Status      string     `json:"status" db:"status"`
	StartedAt   *time.Time `json:"startedAt" db:"started_at"`
	FinishedAt  *time.Time `json:"finishedAt" db:"finished_at"`
	Notes       *string    `json:"notes" db:"notes"`
	SortOrder   *int       `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	Game        *game.Game `json:"game"`
}

// Title is the catalog title, falling back to the custom one.
func (sg *StreamerGame) Title() string {
	if sg.Game != nil && sg.Game.Title != "" {
		return sg.Game.Title
	}
	if sg.CustomTitle != nil {
		return *sg.CustomTitle
	}
	return ""
}

func (sg *StreamerGame) Card() views.GameCard {
	card := views.GameCard{
		ID:         sg.ID.String(),
		Title:      sg.Title(),
		Status:     sg.Status,
		StoreLinks: []views.StoreLink{},
		SortOrder:  sg.SortOrder,
		StartedAt:  sg.StartedAt,
		FinishedAt: sg.FinishedAt,
	}
	if card.Title == "" {
		card.Title = "Jogo"
	}
	updated := sg.UpdatedAt
	card.UpdatedAt = &updated
	if sg.Notes != nil {
		card.Notes = *sg.Notes
	}
	if sg.GameID != nil {
		id := sg.GameID.String()
		card.GameID = &id
	}

	var image string
	if sg.Game != nil {
		if sg.Game.Image != nil {
			image = *sg.Game.Image
		}
		if sg.Game.Platform != nil {
			card.Platform = *sg.Game.Platform
		}
		if len(sg.Game.StoreLinks) > 0 {
			card.StoreLinks = sg.Game.StoreLinks
		}
	}
	if image == "" && sg.CustomImage != nil {
		image = *sg.CustomImage
	}
	card.Image = views.NormalizeImage(image, views.SizeCard)
	return card
}

func (sg *StreamerGame) Item() ordering.Item {
	return ordering.Item{
		ID:        sg.ID.String(),
		Title:     sg.Title(),
		Status:    sg.Status,
		SortOrder: sg.SortOrder,
	}
}

// ValidStatus reports whether status is one of the four board columns.
func ValidStatus(status string) bool {
	switch status {
	case views.StatusToPlay, views.StatusPlaying, views.StatusFinished, views.StatusDropped:
		return true
	}
	return false
}

// Entry is what a new board item refers to: a catalog game or a custom title.
type Entry interface {
	isEntry()
}

type CatalogEntry struct {
	GameID uuid.UUID
}

type CustomEntry struct {
	Title string
	Image *string
}

func (CatalogEntry) isEntry() {}
func (CustomEntry) isEntry()  {}

var (
	errNoEntry       = errors.New("gameId or customTitle is required")
	errBothEntries   = errors.New("gameId and customTitle are mutually exclusive")
	errInvalidGameID = errors.New("invalid gameId")
)

// CreateRequest is the body of POST /api/streamer-games. Any streamerId in
// the body is ignored; the owner comes from the session.
type CreateRequest struct {
	Entry      Entry
	Status     string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Notes      *string
	SortOrder  *int
}

func (r *CreateRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		GameID      *string    `json:"gameId"`
		CustomTitle *string    `json:"customTitle"`
		CustomImage *string    `json:"customImage"`
		Status      string     `json:"status"`
		StartedAt   *time.Time `json:"startedAt"`
		FinishedAt  *time.Time `json:"finishedAt"`
		Notes       *string    `json:"notes"`
		SortOrder   *int       `json:"sortOrder"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	hasGame := wire.GameID != nil && strings.TrimSpace(*wire.GameID) != ""
	hasCustom := wire.CustomTitle != nil && strings.TrimSpace(*wire.CustomTitle) != ""

	switch {
	case hasGame && hasCustom:
		return errBothEntries
	case hasGame:
		id, err := uuid.Parse(strings.TrimSpace(*wire.GameID))
		if err != nil {
			return errInvalidGameID
		}
		r.Entry = CatalogEntry{GameID: id}
	case hasCustom:
		r.Entry = CustomEntry{Title: strings.TrimSpace(*wire.CustomTitle), Image: wire.CustomImage}
	default:
		return errNoEntry
	}

	r.Status = wire.Status
	r.StartedAt = wire.StartedAt
	r.FinishedAt = wire.FinishedAt
	r.Notes = wire.Notes
	r.SortOrder = wire.SortOrder
	return nil
}

// Patch is the body of PATCH /api/streamer-games/{id}. Only these fields can
// be changed; anything else in the body is ignored.
type Patch struct {
	GameID      utils.Optional[uuid.UUID] `json:"gameId"`
	CustomTitle utils.Optional[string]    `json:"customTitle"`
	CustomImage utils.Optional[string]    `json:"customImage"`
	Status      utils.Optional[string]    `json:"status"`
	StartedAt   utils.Optional[time.Time] `json:"startedAt"`
	FinishedAt  utils.Optional[time.Time] `json:"finishedAt"`
	Notes       utils.Optional[string]    `json:"notes"`
	SortOrder   utils.Optional[int]       `json:"sortOrder"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return !p.GameID.Set && !p.CustomTitle.Set && !p.CustomImage.Set && !p.Status.Set &&
		!p.StartedAt.Set && !p.FinishedAt.Set && !p.Notes.Set && !p.SortOrder.Set
}

// Filter narrows a streamer's list.
type Filter struct {
	Query  string
	Status string
}

// ListQuery controls the server-side views of a list.
type ListQuery struct {
	Filter
	Sort     views.SortKey
	Dir      views.Direction
	Page     int
	PageSize int
	Paginate bool
	Group    bool
}
