package gamelist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JoaoGSDC/streamline-app/internal/game"
	"github.com/JoaoGSDC/streamline-app/internal/ordering"
	"github.com/JoaoGSDC/streamline-app/internal/views"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

// EventGamesChanged is published to the owner's live room after every write.
const EventGamesChanged = "games.changed"

type StreamerGameService struct {
	store     StreamerGameStore
	games     GameLookup
	engine    *ordering.Engine
	publisher Publisher
}

func NewStreamerGameService(store StreamerGameStore, games GameLookup, engine *ordering.Engine, publisher Publisher) *StreamerGameService {
	return &StreamerGameService{
		store:     store,
		games:     games,
		engine:    engine,
		publisher: publisher,
	}
}

// List returns the streamer's items matching filter.
func (s *StreamerGameService) List(ctx context.Context, streamerID uuid.UUID, filter Filter) ([]*StreamerGame, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, utils.NewValidationError("invalid status")
	}
	return s.store.List(ctx, streamerID, filter)
}

// Cards returns the items as display cards sorted by key and dir.
func (s *StreamerGameService) Cards(ctx context.Context, streamerID uuid.UUID, q ListQuery) ([]views.GameCard, error) {
	items, err := s.List(ctx, streamerID, q.Filter)
	if err != nil {
		return nil, err
	}
	cards := make([]views.GameCard, len(items))
	for i, item := range items {
		cards[i] = item.Card()
	}
	return views.SortEntries(cards, q.Sort, q.Dir), nil
}

// Page is Cards cut down to one page.
func (s *StreamerGameService) Page(ctx context.Context, streamerID uuid.UUID, q ListQuery) (views.Page[views.GameCard], error) {
	cards, err := s.Cards(ctx, streamerID, q)
	if err != nil {
		return views.Page[views.GameCard]{}, err
	}
	return views.Paginate(cards, q.PageSize, q.Page), nil
}

// Board groups the items by status with each column in its manual order.
func (s *StreamerGameService) Board(ctx context.Context, streamerID uuid.UUID, filter Filter) (views.StatusGroups, error) {
	items, err := s.List(ctx, streamerID, filter)
	if err != nil {
		return views.StatusGroups{}, err
	}

	byID := make(map[string]*StreamerGame, len(items))
	ordered := make([]ordering.Item, len(items))
	for i, item := range items {
		byID[item.ID.String()] = item
		ordered[i] = item.Item()
	}

	cards := []views.GameCard{}
	for _, status := range []string{views.StatusToPlay, views.StatusPlaying, views.StatusFinished, views.StatusDropped} {
		for _, it := range ordering.SortColumn(ordering.Column(ordered, status)) {
			cards = append(cards, byID[it.ID].Card())
		}
	}
	return views.GroupByStatus(cards), nil
}

// Create adds an item to actor's board.
func (s *StreamerGameService) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (*StreamerGame, error) {
	if !ValidStatus(req.Status) {
		return nil, utils.NewValidationError("invalid status")
	}

	item := &StreamerGame{
		StreamerID: actor,
		Status:     req.Status,
		StartedAt:  req.StartedAt,
		FinishedAt: req.FinishedAt,
		Notes:      req.Notes,
		SortOrder:  req.SortOrder,
	}

	switch entry := req.Entry.(type) {
	case CatalogEntry:
		if err := s.requireGame(ctx, entry.GameID); err != nil {
			return nil, err
		}
		id := entry.GameID
		item.GameID = &id
	case CustomEntry:
		title := entry.Title
		item.CustomTitle = &title
		item.CustomImage = views.NormalizeImagePtr(entry.Image, views.SizeCard)
	default:
		return nil, utils.NewValidationError(errNoEntry.Error())
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.publish(actor, "created", created.ID.String())
	return created, nil
}

// Update applies patch to an item owned by actor.
func (s *StreamerGameService) Update(ctx context.Context, actor, id uuid.UUID, patch Patch) (*StreamerGame, error) {
	current, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.Status.Set && (patch.Status.Value == nil || !ValidStatus(*patch.Status.Value)) {
		return nil, utils.NewValidationError("invalid status")
	}
	if patch.GameID.Set && patch.GameID.Value != nil {
		if err := s.requireGame(ctx, *patch.GameID.Value); err != nil {
			return nil, err
		}
	}
	if patch.CustomImage.Set {
		patch.CustomImage.Value = views.NormalizeImagePtr(patch.CustomImage.Value, views.SizeCard)
	}

	hasGame := current.GameID != nil
	if patch.GameID.Set {
		hasGame = patch.GameID.Value != nil
	}
	hasCustom := current.CustomTitle != nil && strings.TrimSpace(*current.CustomTitle) != ""
	if patch.CustomTitle.Set {
		hasCustom = patch.CustomTitle.Value != nil && strings.TrimSpace(*patch.CustomTitle.Value) != ""
	}
	if !hasGame && !hasCustom {
		return nil, utils.NewValidationError(errNoEntry.Error())
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.publish(actor, "updated", id.String())
	return s.store.GetByID(ctx, id)
}

// Delete removes an item owned by actor.
func (s *StreamerGameService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(actor, "deleted", id.String())
	return nil
}

// Reorder persists the full order of one column of actor's board.
func (s *StreamerGameService) Reorder(ctx context.Context, actor uuid.UUID, status string, ids []string) ([]ordering.Assignment, error) {
	if !ValidStatus(status) {
		return nil, utils.NewValidationError("invalid status")
	}
	if len(ids) == 0 {
		return nil, utils.NewValidationError("ids is required")
	}
	if err := s.ownsAll(ctx, actor, ids); err != nil {
		return nil, err
	}

	assignments, err := s.engine.Reindex(ctx, ids, status)
	s.publishOrder(actor, err)
	return assignments, err
}

// Move drops id into status just before beforeID, or at the end of the
// column when beforeID is empty or not in that column.
func (s *StreamerGameService) Move(ctx context.Context, actor, id uuid.UUID, status, beforeID string) ([]ordering.Assignment, error) {
	if !ValidStatus(status) {
		return nil, utils.NewValidationError("invalid status")
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	column, err := s.store.List(ctx, actor, Filter{Status: status})
	if err != nil {
		return nil, err
	}
	items := make([]ordering.Item, len(column))
	for i, item := range column {
		items[i] = item.Item()
	}

	assignments, err := s.engine.MoveToPosition(ctx, items, id.String(), status, beforeID)
	s.publishOrder(actor, err)
	return assignments, err
}

// ChangeStatus moves id to another column without touching its sort order.
func (s *StreamerGameService) ChangeStatus(ctx context.Context, actor, id uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return utils.NewValidationError("invalid status")
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.engine.ChangeStatus(ctx, id.String(), status); err != nil {
		return err
	}
	s.publish(actor, "status", id.String())
	return nil
}

func (s *StreamerGameService) owned(ctx context.Context, actor, id uuid.UUID) (*StreamerGame, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.StreamerID != actor {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *StreamerGameService) ownsAll(ctx context.Context, actor uuid.UUID, raw []string) error {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return utils.NewValidationError(fmt.Sprintf("invalid id %q", r))
		}
		if seen[id] {
			return utils.NewValidationError(fmt.Sprintf("duplicate id %q", r))
		}
		seen[id] = true
		ids = append(ids, id)
	}

	owners, err := s.store.Owners(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		owner, ok := owners[id]
		if !ok {
			return ErrNotFound
		}
		if owner != actor {
			return ErrForbidden
		}
	}
	return nil
}

func (s *StreamerGameService) requireGame(ctx context.Context, id uuid.UUID) error {
	if _, err := s.games.GetByID(ctx, id); err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return utils.NewValidationError("gameId does not exist")
		}
		return err
	}
	return nil
}

func (s *StreamerGameService) publishOrder(actor uuid.UUID, err error) {
	var partial *ordering.PartialError
	if err == nil || errors.As(err, &partial) {
		s.publish(actor, "reordered", "")
	}
}

func (s *StreamerGameService) publish(actor uuid.UUID, action, id string) {
	if s.publisher == nil {
		return
	}
	data := map[string]interface{}{"action": action}
	if id != "" {
		data["id"] = id
	}
	s.publisher.Publish(actor, EventGamesChanged, data)
}
