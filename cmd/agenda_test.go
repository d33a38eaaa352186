package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/stream"
	"github.com/JoaoGSDC/streamline-app/internal/views"
)

func TestRenderAgenda(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2025, 10, 20, 19, 0, 0, 0, loc)

	agenda := &stream.Agenda{
		Handle: "alice",
		View:   stream.ViewWeek,
		Date:   "2025-10-20",
		Entries: []views.Entry{{
			ID:            "1",
			Title:         "Hades",
			ScheduledTime: "19:00",
			ScheduledAt:   at.UnixMilli(),
			Duration:      "2h",
		}},
	}

	var out bytes.Buffer
	renderAgenda(&out, agenda, loc, at.Add(-3*time.Hour))

	got := out.String()
	for _, want := range []string{"@alice", "Hades", "Segunda-feira", "20/10/2025", "19:00", "2h", "daqui a 3 horas", "TOTAL"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in\n%s", want, got)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now, "agora"},
		{now.Add(90 * time.Minute), "daqui a 1 hora"},
		{now.Add(-3 * time.Hour), "há 3 horas"},
		{now.Add(-45 * time.Minute), "há 45 minutos"},
		{now.Add(3 * 24 * time.Hour), "daqui a 3 dias"},
		{now.Add(-10 * 24 * time.Hour), "há 1 semana"},
	}
	for _, tc := range cases {
		if got := relativeTime(tc.at, now); got != tc.want {
			t.Fatalf("relativeTime(%v) = %q, want %q", tc.at.Sub(now), got, tc.want)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "agenda"} {
		if !names[want] {
			t.Fatalf("missing %s command", want)
		}
	}
}

func TestMigrateAndAgendaCommands(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", t.TempDir()+"/cli.db")
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var out bytes.Buffer
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"agenda", "nobody"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected unknown streamer error")
	}
}
