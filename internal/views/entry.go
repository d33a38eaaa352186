package views

import (
	"fmt"
	"strings"
	"time"
)

// Link is a labelled URL attached to a scheduled stream.
type Link struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// StoreLink points at a store or official page of a game.
type StoreLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RawGame is the catalog row joined onto a scheduled stream.
type RawGame struct {
	Title             string
	Image             *string
	Synopsis          *string
	Platform          *string
	StoreLinks        []StoreLink
	ExternalCatalogID *int64
}

// RawEntry is a scheduled stream as stored, with its optional game joined in.
type RawEntry struct {
	ID                string
	Game              *RawGame
	GameTitle         *string
	GameImage         *string
	GameSynopsis      *string
	ExternalCatalogID *int64
	ScheduledDate     time.Time
	ScheduledTime     string
	Duration          string
	Links             []Link
	Notes             *string
}

// Entry is a scheduled stream ready for display.
type Entry struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Image             string      `json:"image"`
	ScheduledTime     string      `json:"scheduledTime"`
	ScheduledAt       int64       `json:"scheduledAt"`
	Duration          string      `json:"duration"`
	Platform          string      `json:"platform"`
	Synopsis          string      `json:"synopsis"`
	StreamURL         string      `json:"streamUrl"`
	StoreLinks        []StoreLink `json:"storeLinks"`
	Links             []Link      `json:"links"`
	Notes             string      `json:"notes,omitempty"`
	ExternalCatalogID *int64      `json:"externalCatalogId,omitempty"`
}

// At returns the scheduled instant in loc.
func (e Entry) At(loc *time.Location) time.Time {
	return time.UnixMilli(e.ScheduledAt).In(loc)
}

// NormalizeEntry builds the display form of a scheduled stream. handle is the
// streamer's channel login and loc the zone the schedule is read in.
func NormalizeEntry(raw RawEntry, handle string, loc *time.Location) Entry {
	entry := Entry{
		ID:            raw.ID,
		Title:         "Jogo",
		ScheduledTime: FormatScheduleTime(raw.ScheduledDate.In(loc)),
		ScheduledAt:   raw.ScheduledDate.UnixMilli(),
		Duration:      raw.Duration,
		StreamURL:     "https://twitch.tv/" + handle,
		StoreLinks:    []StoreLink{},
		Links:         raw.Links,
		Notes:         deref(raw.Notes),
	}
	if entry.Links == nil {
		entry.Links = []Link{}
	}

	var image string
	switch {
	case raw.Game != nil:
		entry.Title = firstNonEmpty(raw.Game.Title, deref(raw.GameTitle), "Jogo")
		image = firstNonEmpty(deref(raw.Game.Image), deref(raw.GameImage))
		entry.Platform = deref(raw.Game.Platform)
		entry.Synopsis = firstNonEmpty(deref(raw.Game.Synopsis), deref(raw.GameSynopsis))
		if raw.Game.StoreLinks != nil {
			entry.StoreLinks = raw.Game.StoreLinks
		}
		entry.ExternalCatalogID = raw.Game.ExternalCatalogID
	default:
		entry.Title = firstNonEmpty(deref(raw.GameTitle), "Jogo")
		image = deref(raw.GameImage)
		entry.Synopsis = deref(raw.GameSynopsis)
	}
	if entry.ExternalCatalogID == nil {
		entry.ExternalCatalogID = raw.ExternalCatalogID
	}
	entry.Image = NormalizeImage(image, SizeSchedule)

	return entry
}

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// WeekdayName is the pt-BR name of a weekday, capitalised.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// FormatScheduleTime renders t like "segunda-feira, 20/10, 19:00".
func FormatScheduleTime(t time.Time) string {
	return fmt.Sprintf("%s, %02d/%02d, %02d:%02d",
		strings.ToLower(WeekdayName(t.Weekday())), t.Day(), int(t.Month()), t.Hour(), t.Minute())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
