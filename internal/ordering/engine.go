package ordering

import (
	"context"
	"fmt"
	"strings"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"
)

// Store persists ordering decisions.
type Store interface {
	// ApplyOrder writes every assignment in one transaction.
	ApplyOrder(ctx context.Context, assignments []Assignment) error
	// SetOrder writes a single assignment.
	SetOrder(ctx context.Context, assignment Assignment) error
	// SetStatus changes only the status of one item.
	SetStatus(ctx context.Context, id, status string) error
}

// PartialError reports the items whose write failed in per-item mode. The
// writes that succeeded are kept.
type PartialError struct {
	Failed []string
	Err    error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("reorder partially failed for %d item(s) [%s]: %v",
		len(e.Failed), strings.Join(e.Failed, ", "), e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

type Engine struct {
	store  Store
	atomic bool
}

// NewEngine returns an engine that writes reorders in a single transaction
// when atomic is set, or one row at a time otherwise.
func NewEngine(store Store, atomic bool) *Engine {
	return &Engine{store: store, atomic: atomic}
}

// Reindex persists the given column order under status.
func (e *Engine) Reindex(ctx context.Context, ids []string, status string) ([]Assignment, error) {
	assignments := Reindex(ids, status)
	if err := e.persist(ctx, assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// MoveToPosition moves draggedID into the status column just before beforeID
// and persists the resulting order of that column. column holds the current
// items of the target column; the dragged item may come from another column.
func (e *Engine) MoveToPosition(ctx context.Context, column []Item, draggedID, status, beforeID string) ([]Assignment, error) {
	ordered := IDs(SortColumn(column))
	return e.Reindex(ctx, Move(ordered, draggedID, beforeID), status)
}

// ChangeStatus moves one item to another column without touching its sort order.
func (e *Engine) ChangeStatus(ctx context.Context, id, status string) error {
	return e.store.SetStatus(ctx, id, status)
}

func (e *Engine) persist(ctx context.Context, assignments []Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	if e.atomic {
		return e.store.ApplyOrder(ctx, assignments)
	}

	var partial *PartialError
	for _, a := range assignments {
		if err := e.store.SetOrder(ctx, a); err != nil {
			utils.WithFields(map[string]interface{}{
				"item_id":    a.ID,
				"sort_order": a.SortOrder,
				"error":      err.Error(),
			}).Warn("Failed to persist sort order")
			if partial == nil {
				partial = &PartialError{Err: err}
			}
			partial.Failed = append(partial.Failed, a.ID)
		}
	}
	if partial != nil {
		return partial
	}
	return nil
}
