// Package ordering keeps the manual order of a streamer's games inside each
// status column.
//
// Every column is a list of ids whose sort orders are (position+1)*Step, so a
// later insertion can land between two neighbours without renumbering.
package ordering

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Step is the gap between two consecutive sort orders in a column.
const Step = 10

// Item is the part of a tracked game the ordering rules look at.
type Item struct {
	ID        string
	Title     string
	Status    string
	SortOrder *int
}

// Assignment is one row write produced by a reindex.
type Assignment struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	SortOrder int    `json:"sortOrder"`
}

// Reindex assigns strictly increasing sort orders, Step apart, to ids in the
// given order and moves every one of them into status.
func Reindex(ids []string, status string) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ID: id, Status: status, SortOrder: (i + 1) * Step}
	}
	return out
}

// Move returns column with draggedID removed from wherever it was and
// reinserted just before beforeID. An empty or unknown beforeID appends
// draggedID at the end.
func Move(column []string, draggedID, beforeID string) []string {
	remaining := make([]string, 0, len(column)+1)
	for _, id := range column {
		if id != draggedID {
			remaining = append(remaining, id)
		}
	}

	pos := len(remaining)
	if beforeID != "" {
		for i, id := range remaining {
			if id == beforeID {
				pos = i
				break
			}
		}
	}

	out := make([]string, 0, len(remaining)+1)
	out = append(out, remaining[:pos]...)
	out = append(out, draggedID)
	out = append(out, remaining[pos:]...)
	return out
}

// MoveToPosition computes the new ordering of the target column and reindexes it.
func MoveToPosition(column []string, draggedID, status, beforeID string) []Assignment {
	return Reindex(Move(column, draggedID, beforeID), status)
}

// SortColumn returns the items in display order: defined sort orders first in
// ascending order, then items without one. Ties break on title, ignoring case.
func SortColumn(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].SortOrder, out[j].SortOrder
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		return col.CompareString(strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)) < 0
	})
	return out
}

// IDs lists the ids of items, preserving order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Column returns the display-ordered items whose status is status.
func Column(items []Item, status string) []Item {
	var column []Item
	for _, item := range items {
		if item.Status == status {
			column = append(column, item)
		}
	}
	return SortColumn(column)
}
