package views

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Tracked game statuses, in the order the board shows them.
const (
	StatusToPlay   = "to_play"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
	StatusDropped  = "dropped"
)

var statusPriority = map[string]int{
	StatusPlaying:  3,
	StatusToPlay:   2,
	StatusFinished: 1,
	StatusDropped:  0,
}

// StatusPriority ranks a status for sorting; unknown statuses rank -1.
func StatusPriority(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return -1
}

// GameCard is a tracked game ready for the grid, table or board views.
type GameCard struct {
	ID         string      `json:"id"`
	GameID     *string     `json:"gameId"`
	Title      string      `json:"title"`
	Image      string      `json:"image"`
	Status     string      `json:"status"`
	Platform   string      `json:"platform,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	StoreLinks []StoreLink `json:"storeLinks"`
	SortOrder  *int        `json:"sortOrder"`
	StartedAt  *time.Time  `json:"startedAt,omitempty"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
	UpdatedAt  *time.Time  `json:"updatedAt,omitempty"`
}

// ShowNotes reports whether the card's notes are meant to be displayed.
func (g GameCard) ShowNotes() bool {
	return g.Status == StatusFinished || g.Status == StatusDropped
}

// MarshalJSON adds showNotes so clients need not repeat the status rule.
func (g GameCard) MarshalJSON() ([]byte, error) {
	type card GameCard
	return json.Marshal(struct {
		card
		ShowNotes bool `json:"showNotes"`
	}{card(g), g.ShowNotes()})
}

// SortKey selects the comparator used by SortEntries.
type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortUpdatedAt SortKey = "updatedAt"
	SortTitleAsc  SortKey = "title_asc"
	SortTitle     SortKey = "title"
	SortStatus    SortKey = "status"
	SortPlatform  SortKey = "platform"
)

// ParseSortKey maps a query value to a SortKey, defaulting to SortRecent.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortRecent, SortUpdatedAt, SortTitleAsc, SortTitle, SortStatus, SortPlatform:
		return k
	}
	return SortRecent
}

// Direction of a sort; Desc negates the comparator.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection reads a query direction. Without one, the recency keys sort
// newest first and every other key ascending.
func ParseDirection(s string, key SortKey) Direction {
	switch Direction(strings.ToLower(s)) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	if key == SortRecent || key == SortUpdatedAt {
		return Desc
	}
	return Asc
}

func updatedMillis(g GameCard) int64 {
	if g.UpdatedAt == nil {
		return 0
	}
	return g.UpdatedAt.UnixMilli()
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortEntries returns a sorted copy of cards. Equal cards keep their
// relative order.
func SortEntries(cards []GameCard, key SortKey, dir Direction) []GameCard {
	out := make([]GameCard, len(cards))
	copy(out, cards)

	col := collate.New(language.BrazilianPortuguese)
	compare := func(a, b GameCard) int {
		switch key {
		case SortStatus:
			return StatusPriority(a.Status) - StatusPriority(b.Status)
		case SortTitle, SortTitleAsc:
			return col.CompareString(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortPlatform:
			return col.CompareString(strings.ToLower(a.Platform), strings.ToLower(b.Platform))
		default:
			return cmpInt64(updatedMillis(a), updatedMillis(b))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if dir == Desc {
			c = -c
		}
		return c < 0
	})
	return out
}

// StatusGroups holds one bucket per known status.
type StatusGroups struct {
	ToPlay   []GameCard `json:"to_play"`
	Playing  []GameCard `json:"playing"`
	Finished []GameCard `json:"finished"`
	Dropped  []GameCard `json:"dropped"`
}

// GroupByStatus partitions cards by status, preserving their order. Cards
// with an unknown status are left out.
func GroupByStatus(cards []GameCard) StatusGroups {
	groups := StatusGroups{
		ToPlay:   []GameCard{},
		Playing:  []GameCard{},
		Finished: []GameCard{},
		Dropped:  []GameCard{},
	}
	for _, c := range cards {
		switch c.Status {
		case StatusToPlay:
			groups.ToPlay = append(groups.ToPlay, c)
		case StatusPlaying:
			groups.Playing = append(groups.Playing, c)
		case StatusFinished:
			groups.Finished = append(groups.Finished, c)
		case StatusDropped:
			groups.Dropped = append(groups.Dropped, c)
		}
	}
	return groups
}
