package views_test

import (
	"testing"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/views"
)

func entryAt(id string, at time.Time) views.Entry {
	return views.Entry{ID: id, ScheduledAt: at.UnixMilli()}
}

func ids(entries []views.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestFilterTodayBoundaries(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 10, 22, 15, 30, 0, 0, loc)

	entries := []views.Entry{
		entryAt("last-ms-today", time.Date(2025, 10, 22, 23, 59, 59, 999_000_000, loc)),
		entryAt("midnight-tomorrow", time.Date(2025, 10, 23, 0, 0, 0, 0, loc)),
		entryAt("midnight-today", time.Date(2025, 10, 22, 0, 0, 0, 0, loc)),
		entryAt("yesterday", time.Date(2025, 10, 21, 23, 59, 59, 0, loc)),
	}

	got := ids(views.FilterToday(entries, now))
	if len(got) != 2 || got[0] != "midnight-today" || got[1] != "last-ms-today" {
		t.Fatalf("unexpected today entries %v", got)
	}
}

func TestFilterTodayUsesNowLocation(t *testing.T) {
	loc := saoPaulo(t)
	// 01:00 UTC on the 23rd is still the 22nd in Sao Paulo.
	entries := []views.Entry{entryAt("late", time.Date(2025, 10, 23, 1, 0, 0, 0, time.UTC))}
	now := time.Date(2025, 10, 22, 12, 0, 0, 0, loc)
	if got := views.FilterToday(entries, now); len(got) != 1 {
		t.Fatalf("expected entry in local today, got %v", ids(got))
	}
}

func TestFilterWeek(t *testing.T) {
	loc := saoPaulo(t)
	// Wednesday.
	ref := time.Date(2025, 10, 22, 10, 0, 0, 0, loc)

	entries := []views.Entry{
		entryAt("sun", time.Date(2025, 10, 26, 20, 0, 0, 0, loc)),
		entryAt("mon", time.Date(2025, 10, 20, 19, 0, 0, 0, loc)),
		entryAt("mon-late", time.Date(2025, 10, 20, 22, 0, 0, 0, loc)),
		entryAt("next-mon", time.Date(2025, 10, 27, 19, 0, 0, 0, loc)),
		entryAt("prev-sun", time.Date(2025, 10, 19, 19, 0, 0, 0, loc)),
	}

	week := views.FilterWeek(entries, ref)
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	names := []string{"Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado", "Domingo"}
	for i, day := range week {
		if day.Name != names[i] {
			t.Fatalf("day %d: got %q want %q", i, day.Name, names[i])
		}
	}
	if week[0].Date != "2025-10-20" || week[6].Date != "2025-10-26" {
		t.Fatalf("unexpected week range %s..%s", week[0].Date, week[6].Date)
	}
	if got := ids(week[0].Entries); len(got) != 2 || got[0] != "mon" || got[1] != "mon-late" {
		t.Fatalf("monday: %v", got)
	}
	if got := ids(week[6].Entries); len(got) != 1 || got[0] != "sun" {
		t.Fatalf("sunday: %v", got)
	}
	total := 0
	for _, day := range week {
		total += len(day.Entries)
	}
	if total != 3 {
		t.Fatalf("entries outside the week leaked in: %d", total)
	}
}

func TestFilterWeekFromSunday(t *testing.T) {
	loc := saoPaulo(t)
	ref := time.Date(2025, 10, 26, 10, 0, 0, 0, loc)
	week := views.FilterWeek(nil, ref)
	if week[0].Date != "2025-10-20" {
		t.Fatalf("sunday belongs to the week starting monday 20, got %s", week[0].Date)
	}
}

func TestByCalendarDateAndMonth(t *testing.T) {
	loc := saoPaulo(t)
	entries := []views.Entry{
		entryAt("a", time.Date(2025, 10, 5, 8, 0, 0, 0, loc)),
		entryAt("b", time.Date(2025, 10, 5, 21, 0, 0, 0, loc)),
		entryAt("c", time.Date(2025, 10, 30, 21, 0, 0, 0, loc)),
		entryAt("d", time.Date(2025, 11, 5, 21, 0, 0, 0, loc)),
	}
	selected := time.Date(2025, 10, 5, 0, 0, 0, 0, loc)

	if got := ids(views.ByCalendarDate(entries, selected)); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("by date: %v", got)
	}

	month := views.FilterMonth(entries, selected)
	if month.SelectedDate != "2025-10-05" {
		t.Fatalf("selected date: %s", month.SelectedDate)
	}
	if got := ids(month.Month); len(got) != 3 || got[2] != "c" {
		t.Fatalf("month: %v", got)
	}
	if len(month.Selected) != 2 {
		t.Fatalf("selected: %v", ids(month.Selected))
	}
}
