package live_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/live"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	"github.com/JoaoGSDC/streamline-app/internal/testsupport"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type fixture struct {
	server *live.Server
	alice  *streamer.Streamer
	url    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpen(t, cfg)
	alice := testsupport.CreateStreamer(t, db, "alice")
	streamers := streamer.NewStreamerService(streamer.NewStreamerStore(db), nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server := live.NewServer()
	go server.Start(ctx)

	e := echo.New()
	e.HTTPErrorHandler = utils.CustomHTTPErrorHandler
	h := live.NewHandler(server, streamers, []string{"http://frontend.test"})
	e.GET("/ws/streamers/:handle", h.Subscribe)

	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	return &fixture{
		server: server,
		alice:  alice,
		url:    "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/streamers/",
	}
}

func (f *fixture) dial(t *testing.T, handle string, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(f.url+handle, header)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSubscribeReceivesOwnStreamerEvents(t *testing.T) {
	f := newFixture(t)

	conn, _, err := f.dial(t, "alice", "http://frontend.test")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return f.server.RoomSize(f.alice.ID.String()) == 1 })

	// Another streamer's event must not reach alice's viewers.
	f.server.Publish(uuid.New(), "games.changed", nil)
	f.server.Publish(f.alice.ID, "schedule.deleted", map[string]string{"id": "abc"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event live.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Type != "schedule.deleted" || event.StreamerID != f.alice.ID.String() {
		t.Fatalf("unexpected event %+v", event)
	}
	data, _ := event.Data.(map[string]interface{})
	if data["id"] != "abc" {
		t.Fatalf("unexpected data %v", event.Data)
	}
	if event.CreatedAt.IsZero() {
		t.Fatal("expected createdAt")
	}
}

func TestSubscribeLeavesRoomOnClose(t *testing.T) {
	f := newFixture(t)

	conn, _, err := f.dial(t, "alice", "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return f.server.RoomSize(f.alice.ID.String()) == 1 })

	conn.Close()
	waitFor(t, func() bool { return f.server.RoomSize(f.alice.ID.String()) == 0 })
}

func TestSubscribeRejects(t *testing.T) {
	f := newFixture(t)

	if _, resp, err := f.dial(t, "nobody", ""); err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown handle, got %v %v", resp, err)
	}
	if _, resp, err := f.dial(t, "alice", "http://evil.test"); err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %v %v", resp, err)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	// No Start loop: the queue fills and further events are dropped.
	server := live.NewServer()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			server.Publish(uuid.New(), "games.changed", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}
