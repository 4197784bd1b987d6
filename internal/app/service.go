package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evanschultz/dragboard/internal/domain"
)

// DefaultColumnNames lists the columns a fresh board starts with.
var DefaultColumnNames = []string{"Backlog", "In Progress", "Done"}

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	DefaultColumns []string
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Observer receives every applied board mutation.
type Observer func(domain.ChangeEvent)

// observerEntry keeps subscription order stable across unsubscribes.
type observerEntry struct {
	id int
	fn Observer
}

// Service is the board coordinator. It is the only writer of item placement
// and owns the active drag session.
type Service struct {
	repo           Repository
	idGen          IDGenerator
	clock          Clock
	defaultColumns []string

	mu             sync.Mutex
	session        domain.DragSession
	observers      []observerEntry
	nextObserverID int
	seq            int64
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	defaults := append([]string(nil), cfg.DefaultColumns...)
	if cfg.DefaultColumns == nil {
		defaults = append([]string(nil), DefaultColumnNames...)
	}
	return &Service{
		repo:           repo,
		idGen:          idGen,
		clock:          clock,
		defaultColumns: defaults,
	}
}

// NewItemID returns a fresh item identifier.
func (s *Service) NewItemID() string {
	return s.idGen()
}

// Subscribe registers an observer and returns a func that removes it.
func (s *Service) Subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObserverID++
	id := s.nextObserverID
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for idx, entry := range s.observers {
			if entry.id == id {
				s.observers = append(s.observers[:idx], s.observers[idx+1:]...)
				return
			}
		}
	}
}

// EnsureDefaultColumns seeds the configured columns into an empty board.
// Each seeded column is announced as add_column.
func (s *Service) EnsureDefaultColumns(ctx context.Context) ([]domain.Column, error) {
	s.mu.Lock()
	columns, err := s.repo.ListColumns(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if len(columns) > 0 {
		s.mu.Unlock()
		return columns, nil
	}
	now := s.clock()
	out := make([]domain.Column, 0, len(s.defaultColumns))
	events := make([]domain.ChangeEvent, 0, len(s.defaultColumns))
	for idx, name := range s.defaultColumns {
		column, err := domain.NewColumn(name, idx, now)
		if err == nil {
			err = s.repo.CreateColumn(ctx, column)
		}
		if err != nil {
			observers := s.observersLocked()
			s.mu.Unlock()
			notifyAll(observers, events)
			return nil, fmt.Errorf("seed default column %q: %w", name, err)
		}
		out = append(out, column)
		events = append(events, s.nextEventLocked(domain.ChangeEvent{
			Operation:  domain.ChangeOperationAddColumn,
			Column:     column.Name,
			OccurredAt: now,
		}))
	}
	observers := s.observersLocked()
	s.mu.Unlock()

	notifyAll(observers, events)
	return out, nil
}

// AddColumn appends a column after every existing one.
func (s *Service) AddColumn(ctx context.Context, name string) (domain.Column, error) {
	s.mu.Lock()
	columns, err := s.repo.ListColumns(ctx)
	if err != nil {
		s.mu.Unlock()
		return domain.Column{}, err
	}
	now := s.clock()
	column, err := domain.NewColumn(name, len(columns), now)
	if err != nil {
		s.mu.Unlock()
		return domain.Column{}, err
	}
	if err := s.repo.CreateColumn(ctx, column); err != nil {
		s.mu.Unlock()
		return domain.Column{}, err
	}
	event := s.nextEventLocked(domain.ChangeEvent{
		Operation:  domain.ChangeOperationAddColumn,
		Column:     column.Name,
		OccurredAt: now,
	})
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, event)
	return column, nil
}

// AddItem appends item to the collection. Identifiers are not de-duplicated.
func (s *Service) AddItem(ctx context.Context, in domain.ItemInput) (domain.Item, error) {
	now := s.clock()
	item, err := domain.NewItem(in, now)
	if err != nil {
		return domain.Item{}, err
	}

	s.mu.Lock()
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.mu.Unlock()
		return domain.Item{}, err
	}
	event := s.nextEventLocked(domain.ChangeEvent{
		Operation:  domain.ChangeOperationAddItem,
		ItemID:     item.ID,
		Column:     item.Column,
		OccurredAt: now,
	})
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, event)
	return item, nil
}

// BeginMove records which item is being dragged. Re-recording the current id is a no-op.
func (s *Service) BeginMove(itemID string) {
	s.mu.Lock()
	if !s.session.Begin(itemID) {
		s.mu.Unlock()
		return
	}
	event := s.nextEventLocked(domain.ChangeEvent{
		Operation:  domain.ChangeOperationBeginMove,
		ItemID:     itemID,
		OccurredAt: s.clock(),
	})
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, event)
}

// MovingItemID returns the active drag identifier, or "" when idle.
func (s *Service) MovingItemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ItemID
}

// CommitMove reassigns the dragged item to targetColumn and ends the drag.
// It returns the number of stored items that moved; zero means nothing was
// dragged or the dragged id matched no item.
func (s *Service) CommitMove(ctx context.Context, targetColumn string) (int, error) {
	s.mu.Lock()
	itemID := s.session.ItemID
	if itemID == "" {
		s.mu.Unlock()
		return 0, nil
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	from, found := "", false
	for _, item := range items {
		if item.ID == itemID {
			from, found = item.Column, true
			break
		}
	}
	s.session.Clear()
	if !found {
		s.mu.Unlock()
		return 0, nil
	}

	now := s.clock()
	moved, err := s.repo.MoveItems(ctx, itemID, targetColumn, now.UTC())
	if err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("move item %q: %w", itemID, err)
	}
	if moved == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	event := s.nextEventLocked(domain.ChangeEvent{
		Operation:  domain.ChangeOperationCommitMove,
		ItemID:     itemID,
		Column:     targetColumn,
		FromColumn: from,
		Moved:      moved,
		OccurredAt: now,
	})
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, event)
	return moved, nil
}

// ListColumns lists columns in position order.
func (s *Service) ListColumns(ctx context.Context) ([]domain.Column, error) {
	return s.repo.ListColumns(ctx)
}

// ListItems lists every item in insertion order.
func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListItems(ctx)
}

// ItemsInColumn lists the items filed under name, in insertion order.
func (s *Service) ItemsInColumn(ctx context.Context, name string) ([]domain.Item, error) {
	return s.repo.ListItemsByColumn(ctx, name)
}

// Board returns a snapshot of every column and item.
func (s *Service) Board(ctx context.Context) (domain.Board, error) {
	columns, err := s.repo.ListColumns(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	return domain.Board{Columns: columns, Items: items}, nil
}

// nextEventLocked stamps event with the next sequence number. Callers hold s.mu.
func (s *Service) nextEventLocked(event domain.ChangeEvent) domain.ChangeEvent {
	s.seq++
	event.Seq = s.seq
	event.OccurredAt = event.OccurredAt.UTC()
	return event
}

// observersLocked copies the observer list. Callers hold s.mu.
func (s *Service) observersLocked() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, entry := range s.observers {
		out = append(out, entry.fn)
	}
	return out
}

// notify delivers event outside the service lock so observers may call back in.
func notify(observers []Observer, event domain.ChangeEvent) {
	for _, fn := range observers {
		fn(event)
	}
}

func notifyAll(observers []Observer, events []domain.ChangeEvent) {
	for _, event := range events {
		notify(observers, event)
	}
}
