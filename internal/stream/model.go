package stream

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

// ScheduledStream is one entry of a streamer's public schedule.
type ScheduledStream struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	StreamerID        uuid.UUID    `json:"streamerId" db:"streamer_id"`
	GameID            *uuid.UUID   `json:"gameId" db:"game_id"`
	ExternalCatalogID *int64       `json:"igdbGameId" db:"external_catalog_id"`
	GameTitle         *string      `json:"gameTitle" db:"game_title"`
	GameImage         *string      `json:"gameImage" db:"game_image"`
	GameSynopsis      *string      `json:"gameSynopsis" db:"game_synopsis"`
	ScheduledDate     time.Time    `json:"scheduledDate" db:"scheduled_date"`
	ScheduledTime     string       `json:"scheduledTime" db:"scheduled_time"`
	Duration          string       `json:"duration" db:"duration"`
	Links             []views.Link `json:"links" db:"links"`
	Notes             *string      `json:"notes" db:"notes"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
	Game              *game.Game   `json:"-"`
}

// AdHocGame is what the game field shows for a stream that names a game
// without a catalog row.
type AdHocGame struct {
	ID       *uuid.UUID `json:"id"`
	IgdbID   *int64     `json:"igdbId"`
	Title    string     `json:"title"`
	Image    *string    `json:"image"`
	Synopsis *string    `json:"synopsis"`
}

// MarshalJSON adds the game field: the joined catalog row, the ad-hoc game,
// or null.
func (s ScheduledStream) MarshalJSON() ([]byte, error) {
	type plain ScheduledStream
	out := struct {
		plain
		Game interface{} `json:"game"`
	}{plain: plain(s)}

	switch {
	case s.Game != nil:
		out.Game = s.Game
	case s.GameTitle != nil && strings.TrimSpace(*s.GameTitle) != "":
		out.Game = AdHocGame{
			IgdbID:   s.ExternalCatalogID,
			Title:    *s.GameTitle,
			Image:    s.GameImage,
			Synopsis: s.GameSynopsis,
		}
	}
	return json.Marshal(out)
}

// Raw is the input of views.NormalizeEntry.
func (s *ScheduledStream) Raw() views.RawEntry {
	raw := views.RawEntry{
		ID:                s.ID.String(),
		GameTitle:         s.GameTitle,
		GameImage:         s.GameImage,
		GameSynopsis:      s.GameSynopsis,
		ExternalCatalogID: s.ExternalCatalogID,
		ScheduledDate:     s.ScheduledDate,
		ScheduledTime:     s.ScheduledTime,
		Duration:          s.Duration,
		Links:             s.Links,
		Notes:             s.Notes,
	}
	if s.Game != nil {
		raw.Game = s.Game.Raw()
	}
	return raw
}

// GameRef is the game a new stream points at: a catalog row, an ad-hoc game,
// or nil for none.
type GameRef interface {
	isGameRef()
}

type CatalogGame struct {
	GameID uuid.UUID
}

type AdHocRef struct {
	Title             string
	Image             *string
	Synopsis          *string
	ExternalCatalogID *int64
}

func (CatalogGame) isGameRef() {}
func (AdHocRef) isGameRef()    {}

var (
	errBothGames     = errors.New("gameId and gameTitle are mutually exclusive")
	errGameTitle     = errors.New("gameTitle is required")
	errInvalidGameID = errors.New("invalid gameId")
)

// CreateRequest is the body of POST /api/scheduled-streams. The owner comes
// from the session; scheduledDate is parsed by the service because it needs
// the app timezone.
type CreateRequest struct {
	Game          GameRef
	ScheduledDate string
	ScheduledTime string
	Duration      string
	Links         []views.Link
	Notes         *string
}

func (r *CreateRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		GameID        *string      `json:"gameId"`
		IgdbGameID    *int64       `json:"igdbGameId"`
		GameTitle     *string      `json:"gameTitle"`
		GameImage     *string      `json:"gameImage"`
		GameSynopsis  *string      `json:"gameSynopsis"`
		ScheduledDate string       `json:"scheduledDate"`
		ScheduledTime string       `json:"scheduledTime"`
		Duration      string       `json:"duration"`
		Links         []views.Link `json:"links"`
		Notes         *string      `json:"notes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	hasGame := wire.GameID != nil && strings.TrimSpace(*wire.GameID) != ""
	hasTitle := wire.GameTitle != nil && strings.TrimSpace(*wire.GameTitle) != ""
	hasAdHoc := hasTitle || wire.IgdbGameID != nil || nonBlank(wire.GameImage) || nonBlank(wire.GameSynopsis)

	switch {
	case hasGame && hasTitle:
		return errBothGames
	case hasGame:
		id, err := uuid.Parse(strings.TrimSpace(*wire.GameID))
		if err != nil {
			return errInvalidGameID
		}
		r.Game = CatalogGame{GameID: id}
	case hasAdHoc:
		if !hasTitle {
			return errGameTitle
		}
		r.Game = AdHocRef{
			Title:             strings.TrimSpace(*wire.GameTitle),
			Image:             wire.GameImage,
			Synopsis:          wire.GameSynopsis,
			ExternalCatalogID: wire.IgdbGameID,
		}
	}

	r.ScheduledDate = strings.TrimSpace(wire.ScheduledDate)
	r.ScheduledTime = strings.TrimSpace(wire.ScheduledTime)
	r.Duration = strings.TrimSpace(wire.Duration)
	r.Links = wire.Links
	r.Notes = wire.Notes
	return nil
}

// Patch is the body of PATCH /api/scheduled-streams/{id}. The game of a
// stream is fixed once created.
type Patch struct {
	ScheduledDate utils.Optional[string]       `json:"scheduledDate"`
	ScheduledTime utils.Optional[string]       `json:"scheduledTime"`
	Duration      utils.Optional[string]       `json:"duration"`
	Links         utils.Optional[[]views.Link] `json:"links"`
	Notes         utils.Optional[string]       `json:"notes"`
}

func (p Patch) Empty() bool {
	return !p.ScheduledDate.Set && !p.ScheduledTime.Set && !p.Duration.Set && !p.Links.Set && !p.Notes.Set
}

// Agenda views.
const (
	ViewAll   = "all"
	ViewToday = "today"
	ViewWeek  = "week"
	ViewMonth = "month"
)

// Agenda is a streamer's schedule run through one of the calendar views.
// Entries always holds the flat list shown by the view.
type Agenda struct {
	Handle  string           `json:"handle"`
	View    string           `json:"view"`
	Date    string           `json:"date"`
	Entries []views.Entry    `json:"entries"`
	Week    []views.WeekDay  `json:"week,omitempty"`
	Month   *views.MonthView `json:"month,omitempty"`
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
