package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

// Live event types published to the owner's room.
const (
	EventScheduleCreated = "schedule.created"
	EventScheduleUpdated = "schedule.updated"
	EventScheduleDeleted = "schedule.deleted"
)

// ErrUnknownStreamer is returned by Agenda for a handle nobody owns.
var ErrUnknownStreamer = errors.New("streamer not found")

type ScheduledStreamService struct {
	store     ScheduledStreamStore
	games     GameLookup
	streamers StreamerLookup
	publisher Publisher
	loc       *time.Location
	now       func() time.Time
}

func NewScheduledStreamService(store ScheduledStreamStore, games GameLookup, streamers StreamerLookup, publisher Publisher, loc *time.Location) *ScheduledStreamService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduledStreamService{
		store:     store,
		games:     games,
		streamers: streamers,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

// Location is the zone schedules are read and written in.
func (ss *ScheduledStreamService) Location() *time.Location {
	return ss.loc
}

func (ss *ScheduledStreamService) List(ctx context.Context, streamerID uuid.UUID) ([]*ScheduledStream, error) {
	return ss.store.ListByStreamer(ctx, streamerID)
}

// Create schedules a stream for actor.
func (ss *ScheduledStreamService) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (*ScheduledStream, error) {
	if req.ScheduledTime == "" || req.Duration == "" || req.ScheduledDate == "" {
		return nil, utils.NewValidationError("Missing required fields")
	}
	date, err := ParseScheduledDate(req.ScheduledDate, req.ScheduledTime, ss.loc)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}
	links, err := cleanLinks(req.Links)
	if err != nil {
		return nil, err
	}

	s := &ScheduledStream{
		StreamerID:    actor,
		ScheduledDate: date,
		ScheduledTime: req.ScheduledTime,
		Duration:      req.Duration,
		Links:         links,
		Notes:         req.Notes,
	}

	switch ref := req.Game.(type) {
	case CatalogGame:
		g, err := ss.games.GetByID(ctx, ref.GameID)
		if err != nil {
			if errors.Is(err, game.ErrNotFound) {
				return nil, utils.NewValidationError("gameId does not exist")
			}
			return nil, err
		}
		id := g.ID
		s.GameID = &id
		s.ExternalCatalogID = g.ExternalCatalogID
	case AdHocRef:
		title := ref.Title
		s.GameTitle = &title
		s.GameImage = views.NormalizeImagePtr(ref.Image, views.SizeSchedule)
		s.GameSynopsis = ref.Synopsis
		s.ExternalCatalogID = ref.ExternalCatalogID
	}

	created, err := ss.store.Create(ctx, s)
	if err != nil {
		return nil, err
	}
	ss.publish(actor, EventScheduleCreated, created)
	return created, nil
}

// Update edits the date, time, duration, links or notes of a stream owned by
// actor.
func (ss *ScheduledStreamService) Update(ctx context.Context, actor, id uuid.UUID, patch Patch) (*ScheduledStream, error) {
	current, err := ss.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	clock := current.ScheduledTime
	if patch.ScheduledTime.Set {
		v := patch.ScheduledTime.Value
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil, utils.NewValidationError("scheduledTime is required")
		}
		clock = strings.TrimSpace(*v)
		current.ScheduledTime = clock
	}
	if patch.Duration.Set {
		v := patch.Duration.Value
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil, utils.NewValidationError("duration is required")
		}
		current.Duration = strings.TrimSpace(*v)
	}
	if patch.ScheduledDate.Set {
		if patch.ScheduledDate.Value == nil {
			return nil, utils.NewValidationError("scheduledDate is required")
		}
		date, err := ParseScheduledDate(strings.TrimSpace(*patch.ScheduledDate.Value), clock, ss.loc)
		if err != nil {
			return nil, utils.NewValidationError(err.Error())
		}
		current.ScheduledDate = date
	} else if patch.ScheduledTime.Set {
		// Keep the day, move the instant to the new clock.
		if _, err := time.Parse("15:04", clock); err == nil {
			day := current.ScheduledDate.In(ss.loc).Format("2006-01-02")
			if current.ScheduledDate, err = ParseScheduledDate(day, clock, ss.loc); err != nil {
				return nil, utils.NewValidationError(err.Error())
			}
		}
	}
	if patch.Links.Set {
		var links []views.Link
		if patch.Links.Value != nil {
			links = *patch.Links.Value
		}
		if current.Links, err = cleanLinks(links); err != nil {
			return nil, err
		}
	}
	if patch.Notes.Set {
		current.Notes = patch.Notes.Value
	}

	if err := ss.store.Update(ctx, current); err != nil {
		return nil, err
	}
	updated, err := ss.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ss.publish(actor, EventScheduleUpdated, updated)
	return updated, nil
}

// Delete removes a stream owned by actor.
func (ss *ScheduledStreamService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := ss.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := ss.store.Delete(ctx, id); err != nil {
		return err
	}
	ss.publish(actor, EventScheduleDeleted, map[string]interface{}{"id": id.String()})
	return nil
}

// Entries returns the normalised schedule of st.
func (ss *ScheduledStreamService) Entries(ctx context.Context, st *streamer.Streamer) ([]views.Entry, error) {
	streams, err := ss.store.ListByStreamer(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	entries := make([]views.Entry, len(streams))
	for i, s := range streams {
		entries[i] = views.NormalizeEntry(s.Raw(), st.Handle, ss.loc)
	}
	return views.SortBySchedule(entries), nil
}

// Agenda runs the schedule of handle through view. date (YYYY-MM-DD) is the
// reference day and defaults to today in the app timezone.
func (ss *ScheduledStreamService) Agenda(ctx context.Context, handle, view, date string) (*Agenda, error) {
	if view == "" {
		view = ViewAll
	}
	switch view {
	case ViewAll, ViewToday, ViewWeek, ViewMonth:
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("invalid view %q", view))
	}

	reference := ss.now().In(ss.loc)
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, ss.loc)
		if err != nil {
			return nil, utils.NewValidationError("invalid date")
		}
		reference = parsed
	}

	st, err := ss.streamers.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, streamer.ErrNotFound) {
			return nil, ErrUnknownStreamer
		}
		return nil, err
	}
	entries, err := ss.Entries(ctx, st)
	if err != nil {
		return nil, err
	}

	agenda := &Agenda{
		Handle: st.Handle,
		View:   view,
		Date:   reference.Format("2006-01-02"),
	}
	switch view {
	case ViewToday:
		agenda.Entries = views.FilterToday(entries, reference)
	case ViewWeek:
		agenda.Week = views.FilterWeek(entries, reference)
		agenda.Entries = []views.Entry{}
		for _, day := range agenda.Week {
			agenda.Entries = append(agenda.Entries, day.Entries...)
		}
	case ViewMonth:
		month := views.FilterMonth(entries, reference)
		agenda.Month = &month
		agenda.Entries = month.Month
	default:
		agenda.Entries = entries
	}
	return agenda, nil
}

func (ss *ScheduledStreamService) owned(ctx context.Context, actor, id uuid.UUID) (*ScheduledStream, error) {
	s, err := ss.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.StreamerID != actor {
		return nil, ErrForbidden
	}
	return s, nil
}

func (ss *ScheduledStreamService) publish(actor uuid.UUID, eventType string, data interface{}) {
	if ss.publisher == nil {
		return
	}
	ss.publisher.Publish(actor, eventType, data)
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseScheduledDate reads an RFC 3339 instant, a local date-time, or a bare
// YYYY-MM-DD date. Local values are in loc; a bare date takes its time of
// day from clock (HH:MM) when that parses, else midnight.
func ParseScheduledDate(raw, clock string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduledDate %q", raw)
	}
	if hm, err := time.Parse("15:04", strings.TrimSpace(clock)); err == nil {
		return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), nil
	}
	return day, nil
}

func cleanLinks(links []views.Link) ([]views.Link, error) {
	out := make([]views.Link, 0, len(links))
	for _, l := range links {
		l.URL = strings.TrimSpace(l.URL)
		l.Name = strings.TrimSpace(l.Name)
		if l.URL == "" {
			return nil, utils.NewValidationError("link url is required")
		}
		out = append(out, l)
	}
	return out, nil
}
