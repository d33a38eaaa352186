package views

import (
	"sort"
	"time"
)

// startOfDay is local midnight of t in t's own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SortBySchedule orders entries by scheduled instant, earliest first.
func SortBySchedule(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledAt < out[j].ScheduledAt
	})
	return out
}

// FilterToday keeps the entries scheduled in [midnight, next midnight) of
// now's day, in now's location.
func FilterToday(entries []Entry, now time.Time) []Entry {
	start := startOfDay(now)
	end := start.AddDate(0, 0, 1)

	out := []Entry{}
	for _, e := range SortBySchedule(entries) {
		at := e.At(now.Location())
		if !at.Before(start) && at.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// WeekDay is one column of the weekly view.
type WeekDay struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// FilterWeek groups the entries of the Monday-to-Sunday week that contains
// reference under their scheduled weekday, in reference's location. Days
// are always returned in Monday..Sunday order, empty or not.
func FilterWeek(entries []Entry, reference time.Time) []WeekDay {
	day := startOfDay(reference)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	end := monday.AddDate(0, 0, 7)

	week := make([]WeekDay, 7)
	for i := range week {
		d := monday.AddDate(0, 0, i)
		week[i] = WeekDay{
			Name:    WeekdayName(d.Weekday()),
			Date:    d.Format("2006-01-02"),
			Entries: []Entry{},
		}
	}

	for _, e := range SortBySchedule(entries) {
		at := e.At(reference.Location())
		if at.Before(monday) || !at.Before(end) {
			continue
		}
		idx := (int(at.Weekday()) + 6) % 7
		week[idx].Entries = append(week[idx].Entries, e)
	}
	return week
}

// ByCalendarDate keeps the entries whose calendar date in selected's
// location equals selected's, ignoring the time of day.
func ByCalendarDate(entries []Entry, selected time.Time) []Entry {
	y, m, d := selected.Date()
	out := []Entry{}
	for _, e := range SortBySchedule(entries) {
		ey, em, ed := e.At(selected.Location()).Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	return out
}

// MonthView drives the calendar picker: the selected day plus the whole month.
type MonthView struct {
	SelectedDate string  `json:"selectedDate"`
	Selected     []Entry `json:"selected"`
	Month        []Entry `json:"month"`
}

// FilterMonth returns the entries of selected's day and of its whole month.
func FilterMonth(entries []Entry, selected time.Time) MonthView {
	y, m, _ := selected.Date()
	month := []Entry{}
	for _, e := range SortBySchedule(entries) {
		ey, em, _ := e.At(selected.Location()).Date()
		if ey == y && em == m {
			month = append(month, e)
		}
	}
	return MonthView{
		SelectedDate: selected.Format("2006-01-02"),
		Selected:     ByCalendarDate(entries, selected),
		Month:        month,
	}
}
