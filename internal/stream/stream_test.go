package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/configs"
	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/security"
	"github.com/JoaoGSDC/streamline-app/internal/stream"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	"github.com/JoaoGSDC/streamline-app/internal/testsupport"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

var brt = time.FixedZone("BRT", -3*60*60)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ uuid.UUID, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

type fixture struct {
	cfg       *configs.Config
	db        *database.Handle
	svc       *stream.ScheduledStreamService
	games     *game.GameService
	publisher *recordingPublisher
	alice     *streamer.Streamer
	bob       *streamer.Streamer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpen(t, cfg)
	gameStore := game.NewGameStore(db)
	streamers := streamer.NewStreamerService(streamer.NewStreamerStore(db), security.NewSealer(nil))
	publisher := &recordingPublisher{}

	return &fixture{
		cfg:       cfg,
		db:        db,
		svc:       stream.NewScheduledStreamService(stream.NewScheduledStreamStore(db), gameStore, streamers, publisher, brt),
		games:     game.NewGameService(gameStore),
		publisher: publisher,
		alice:     testsupport.CreateStreamer(t, db, "alice"),
		bob:       testsupport.CreateStreamer(t, db, "bob"),
	}
}

func (f *fixture) schedule(t *testing.T, owner *streamer.Streamer, title, date string) *stream.ScheduledStream {
	t.Helper()
	s, err := f.svc.Create(context.Background(), owner.ID, stream.CreateRequest{
		Game:          stream.AdHocRef{Title: title},
		ScheduledDate: date,
		ScheduledTime: "19:00",
		Duration:      "3h",
	})
	if err != nil {
		t.Fatalf("schedule %s: %v", title, err)
	}
	return s
}

func TestParseScheduledDate(t *testing.T) {
	cases := []struct {
		name, raw, clock string
		want             time.Time
		wantErr          bool
	}{
		{"rfc3339", "2025-10-20T19:00:00Z", "", time.Date(2025, 10, 20, 19, 0, 0, 0, time.UTC), false},
		{"rfc3339 offset", "2025-10-20T19:00:00-03:00", "", time.Date(2025, 10, 20, 22, 0, 0, 0, time.UTC), false},
		{"local date time", "2025-10-20T19:00:00", "", time.Date(2025, 10, 20, 22, 0, 0, 0, time.UTC), false},
		{"local without seconds", "2025-10-20T19:00", "", time.Date(2025, 10, 20, 22, 0, 0, 0, time.UTC), false},
		{"date and clock", "2025-10-20", "19:30", time.Date(2025, 10, 20, 22, 30, 0, 0, time.UTC), false},
		{"date only", "2025-10-20", "noite", time.Date(2025, 10, 20, 3, 0, 0, 0, time.UTC), false},
		{"garbage", "20/10/2025", "19:00", time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := stream.ParseScheduledDate(tc.raw, tc.clock, brt)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v want %v", got.UTC(), tc.want)
			}
		})
	}
}

func TestCreateRequestDecoding(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
		want    string
	}{
		{"catalog", `{"gameId":"` + uuid.NewString() + `"}`, "", "catalog"},
		{"ad hoc", `{"gameId":null,"igdbGameId":1942,"gameTitle":"The Witcher 3"}`, "", "adhoc"},
		{"none", `{"scheduledTime":"19:00"}`, "", "none"},
		{"both", `{"gameId":"` + uuid.NewString() + `","gameTitle":"x"}`, "mutually exclusive", ""},
		{"image without title", `{"gameImage":"//img/x.jpg"}`, "gameTitle is required", ""},
		{"bad game id", `{"gameId":"7"}`, "invalid gameId", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req stream.CreateRequest
			err := json.Unmarshal([]byte(tc.body), &req)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := "none"
			switch req.Game.(type) {
			case stream.CatalogGame:
				got = "catalog"
			case stream.AdHocRef:
				got = "adhoc"
			}
			if got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestCreateVariants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	catalogID := int64(1942)
	witcher, err := f.games.Create(ctx, game.CreateGame{Title: "The Witcher 3", ExternalCatalogID: &catalogID})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	catalog, err := f.svc.Create(ctx, f.alice.ID, stream.CreateRequest{
		Game:          stream.CatalogGame{GameID: witcher.ID},
		ScheduledDate: "2025-10-20",
		ScheduledTime: "19:00",
		Duration:      "4h",
		Links:         []views.Link{{URL: " https://youtube.com/x ", Name: "VOD"}},
	})
	if err != nil {
		t.Fatalf("create catalog stream: %v", err)
	}
	if catalog.Game == nil || catalog.ExternalCatalogID == nil || *catalog.ExternalCatalogID != 1942 {
		t.Fatalf("catalog game not joined: %+v", catalog)
	}
	if len(catalog.Links) != 1 || catalog.Links[0].URL != "https://youtube.com/x" {
		t.Fatalf("unexpected links %+v", catalog.Links)
	}

	adHoc, err := f.svc.Create(ctx, f.alice.ID, stream.CreateRequest{
		Game:          stream.AdHocRef{Title: "Jogo da Comunidade", Image: strPtr("//images.igdb.com/t_thumb/abc.jpg")},
		ScheduledDate: "2025-10-21T20:00:00-03:00",
		ScheduledTime: "20:00",
		Duration:      "2h",
	})
	if err != nil {
		t.Fatalf("create ad hoc stream: %v", err)
	}
	if adHoc.GameImage == nil || *adHoc.GameImage != "https://images.igdb.com/t_1080p/abc.png" {
		t.Fatalf("image not normalised at ingestion: %v", adHoc.GameImage)
	}

	bare, err := f.svc.Create(ctx, f.alice.ID, stream.CreateRequest{ScheduledDate: "2025-10-22", ScheduledTime: "18:00", Duration: "1h"})
	if err != nil {
		t.Fatalf("create bare stream: %v", err)
	}

	games := map[uuid.UUID]map[string]interface{}{}
	for _, s := range []*stream.ScheduledStream{catalog, adHoc, bare} {
		raw, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		g, _ := decoded["game"].(map[string]interface{})
		games[s.ID] = g
	}
	if games[catalog.ID]["title"] != "The Witcher 3" {
		t.Fatalf("catalog game field: %v", games[catalog.ID])
	}
	if games[adHoc.ID]["title"] != "Jogo da Comunidade" || games[adHoc.ID]["id"] != nil {
		t.Fatalf("ad hoc game field: %v", games[adHoc.ID])
	}
	if games[bare.ID] != nil {
		t.Fatalf("bare stream should have null game: %v", games[bare.ID])
	}

	list, err := f.svc.List(ctx, f.alice.ID)
	if err != nil || len(list) != 3 || list[0].ID != catalog.ID {
		t.Fatalf("list in date order: %v %v", list, err)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name string
		req  stream.CreateRequest
	}{
		{"missing duration", stream.CreateRequest{ScheduledDate: "2025-10-20", ScheduledTime: "19:00"}},
		{"missing time", stream.CreateRequest{ScheduledDate: "2025-10-20", Duration: "1h"}},
		{"bad date", stream.CreateRequest{ScheduledDate: "amanhã", ScheduledTime: "19:00", Duration: "1h"}},
		{"unknown game", stream.CreateRequest{Game: stream.CatalogGame{GameID: uuid.New()}, ScheduledDate: "2025-10-20", ScheduledTime: "19:00", Duration: "1h"}},
		{"link without url", stream.CreateRequest{ScheduledDate: "2025-10-20", ScheduledTime: "19:00", Duration: "1h", Links: []views.Link{{Name: "x"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.alice.ID, tc.req)
			var appErr *utils.AppError
			if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.schedule(t, f.alice, "Hades", "2025-10-20")

	updated, err := f.svc.Update(ctx, f.alice.ID, s.ID, stream.Patch{
		ScheduledDate: utils.Some("2025-10-24"),
		ScheduledTime: utils.Some("21:15"),
		Links:         utils.Null[[]views.Link](),
		Notes:         utils.Some("com convidados"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := time.Date(2025, 10, 24, 21, 15, 0, 0, brt)
	if !updated.ScheduledDate.Equal(want) || updated.ScheduledTime != "21:15" {
		t.Fatalf("date not moved: %v %s", updated.ScheduledDate, updated.ScheduledTime)
	}
	if updated.Links == nil || len(updated.Links) != 0 || updated.Notes == nil || *updated.Notes != "com convidados" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Duration != "3h" || updated.GameTitle == nil || *updated.GameTitle != "Hades" {
		t.Fatal("fields outside the patch must be kept")
	}

	if _, err := f.svc.Update(ctx, f.alice.ID, s.ID, stream.Patch{Duration: utils.Null[string]()}); err == nil {
		t.Fatal("clearing duration must fail")
	}
	if _, err := f.svc.Update(ctx, f.bob.ID, s.ID, stream.Patch{Notes: utils.Some("x")}); !errors.Is(err, stream.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateTimeOnlyMovesInstant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.schedule(t, f.alice, "Hades", "2025-10-20T19:00:00")

	updated, err := f.svc.Update(ctx, f.alice.ID, s.ID, stream.Patch{ScheduledTime: utils.Some("21:15")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := time.Date(2025, 10, 20, 21, 15, 0, 0, brt)
	if !updated.ScheduledDate.Equal(want) || updated.ScheduledTime != "21:15" {
		t.Fatalf("expected %v at 21:15, got %v %s", want, updated.ScheduledDate, updated.ScheduledTime)
	}

	agenda, err := f.svc.Agenda(ctx, "alice", stream.ViewToday, "2025-10-20")
	if err != nil {
		t.Fatalf("Agenda: %v", err)
	}
	if len(agenda.Entries) != 1 || agenda.Entries[0].ScheduledTime != "segunda-feira, 20/10, 21:15" {
		t.Fatalf("agenda still shows the old time: %+v", agenda.Entries)
	}

	// A free-form clock keeps the stored instant.
	updated, err = f.svc.Update(ctx, f.alice.ID, s.ID, stream.Patch{ScheduledTime: utils.Some("à noite")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.ScheduledDate.Equal(want) || updated.ScheduledTime != "à noite" {
		t.Fatalf("unexpected %v %s", updated.ScheduledDate, updated.ScheduledTime)
	}
}

func TestDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.schedule(t, f.alice, "Celeste", "2025-10-20")

	if err := f.svc.Delete(ctx, f.bob.ID, s.ID); !errors.Is(err, stream.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if list, _ := f.svc.List(ctx, f.alice.ID); len(list) != 1 {
		t.Fatal("row must survive a foreign delete")
	}
	if err := f.svc.Delete(ctx, f.alice.ID, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.svc.Delete(ctx, f.alice.ID, s.ID); !errors.Is(err, stream.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := []string{stream.EventScheduleCreated, stream.EventScheduleDeleted}
	if len(f.publisher.events) != 2 || f.publisher.events[0] != want[0] || f.publisher.events[1] != want[1] {
		t.Fatalf("unexpected events %v", f.publisher.events)
	}
}

func TestAgenda(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.schedule(t, f.alice, "Segunda", "2025-10-20T19:00:00")
	f.schedule(t, f.alice, "Quase meia-noite", "2025-10-20T23:59:59")
	f.schedule(t, f.alice, "Terça", "2025-10-21T00:00:00")
	f.schedule(t, f.alice, "Domingo", "2025-10-26T10:00:00")
	f.schedule(t, f.alice, "Novembro", "2025-11-02T15:00:00")
	f.schedule(t, f.bob, "Outro canal", "2025-10-20T19:00:00")

	today, err := f.svc.Agenda(ctx, "alice", stream.ViewToday, "2025-10-20")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(today.Entries) != 2 || today.Entries[0].Title != "Segunda" || today.Entries[1].Title != "Quase meia-noite" {
		t.Fatalf("unexpected today %+v", today.Entries)
	}
	first := today.Entries[0]
	if first.ScheduledTime != "segunda-feira, 20/10, 19:00" || first.StreamURL != "https://twitch.tv/alice" || first.Image != views.PlaceholderImage {
		t.Fatalf("entry not normalised: %+v", first)
	}

	week, err := f.svc.Agenda(ctx, "alice", stream.ViewWeek, "2025-10-22")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if len(week.Week) != 7 || week.Week[0].Name != "Segunda-feira" || week.Week[0].Date != "2025-10-20" {
		t.Fatalf("unexpected week shape %+v", week.Week)
	}
	if len(week.Week[0].Entries) != 2 || len(week.Week[1].Entries) != 1 || len(week.Week[6].Entries) != 1 || len(week.Entries) != 4 {
		t.Fatalf("unexpected week grouping %+v", week.Week)
	}

	month, err := f.svc.Agenda(ctx, "alice", stream.ViewMonth, "2025-10-21")
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if month.Month == nil || len(month.Month.Month) != 4 || len(month.Month.Selected) != 1 || month.Month.Selected[0].Title != "Terça" {
		t.Fatalf("unexpected month %+v", month.Month)
	}

	all, err := f.svc.Agenda(ctx, "ALICE", "", "")
	if err != nil || all.View != stream.ViewAll || len(all.Entries) != 5 {
		t.Fatalf("all: %+v %v", all, err)
	}

	if _, err := f.svc.Agenda(ctx, "alice", "year", ""); err == nil {
		t.Fatal("expected error for unknown view")
	}
	if _, err := f.svc.Agenda(ctx, "alice", stream.ViewToday, "20/10/2025"); err == nil {
		t.Fatal("expected error for bad date")
	}
	if _, err := f.svc.Agenda(ctx, "nobody", "", ""); !errors.Is(err, stream.ErrUnknownStreamer) {
		t.Fatalf("expected ErrUnknownStreamer, got %v", err)
	}
}

func strPtr(s string) *string { return &s }
