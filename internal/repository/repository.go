// Package repository owns the event collection: an ordered in-memory copy
// indexed by identifier, loaded once from the persistence store and flushed
// back in full after every mutation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/onbeventi/internal/clock"
	"github.com/mmynk/onbeventi/internal/metrics"
	"github.com/mmynk/onbeventi/internal/models"
	"github.com/mmynk/onbeventi/internal/notify"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAttendeeNotFound = errors.New("attendee not found")
	// ErrCapacityReached refuses a registration on a full event.
	ErrCapacityReached = errors.New("event is at capacity")
	// ErrCapacityExceeded refuses an event whose limit is below its attendee count.
	ErrCapacityExceeded = errors.New("capacity below current attendee count")
	ErrDuplicateID      = errors.New("identifier already in use")
	ErrStaleRevision    = errors.New("event was modified by another writer")
)

// Persistence loads and saves the whole collection. *storage.EventStore
// implements it.
type Persistence interface {
	LoadAll(ctx context.Context) []models.Event
	SaveAll(ctx context.Context, events []models.Event) error
}

type Repository struct {
	mu sync.Mutex

	store     Persistence
	clock     clock.Clock
	publisher notify.Publisher
	metrics   *metrics.Metrics

	events []models.Event
	index  map[string]int
}

type Option func(*Repository)

// WithPublisher sends a notification after every persisted change.
func WithPublisher(p notify.Publisher) Option {
	return func(r *Repository) {
		if p != nil {
			r.publisher = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

// New returns an empty repository. Call Load to read the stored collection.
func New(store Persistence, clk clock.Clock, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		clock:     clk,
		publisher: notify.Nop{},
		events:    []models.Event{},
		index:     map[string]int{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory collection with the stored one and returns the
// number of events read. Later duplicates of an identifier are dropped.
func (r *Repository) Load(ctx context.Context) int {
	events := r.store.LoadAll(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]models.Event, 0, len(events))
	r.index = make(map[string]int, len(events))
	for _, e := range events {
		if _, dup := r.index[e.ID]; dup {
			slog.WarnContext(ctx, "Dropping duplicate stored event", "event_id", e.ID)
			continue
		}
		r.index[e.ID] = len(r.events)
		r.events = append(r.events, e)
	}
	r.metrics.SetEventCount(len(r.events))
	return len(r.events)
}

// Get returns a copy of the event with the given id.
func (r *Repository) Get(_ context.Context, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	out := r.events[i].Clone()
	return &out, nil
}

// List returns copies of all events in insertion order.
func (r *Repository) List(_ context.Context) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Event, len(r.events))
	for i, e := range r.events {
		out[i] = e.Clone()
	}
	return out
}

// flush writes the whole collection. Callers hold r.mu.
func (r *Repository) flush(ctx context.Context) error {
	if err := r.store.SaveAll(ctx, r.events); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	r.metrics.SetEventCount(len(r.events))
	return nil
}

func (r *Repository) reindex() {
	r.index = make(map[string]int, len(r.events))
	for i, e := range r.events {
		r.index[e.ID] = i
	}
}

func (r *Repository) publish(ctx context.Context, kind notify.ChangeType, e *models.Event, subjectID string) {
	change := notify.Change{
		Type:      kind,
		EventID:   e.ID,
		SubjectID: subjectID,
		Revision:  e.Revision,
		At:        r.clock.Now(),
	}
	if err := r.publisher.Publish(ctx, change); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change",
			"type", kind,
			"event_id", e.ID,
			"error", err,
		)
	}
}

// edit describes what a mutation did. A zero kind means nothing changed.
type edit struct {
	kind    notify.ChangeType
	subject string
}

// mutate applies fn to a copy of the event, stores the copy, flushes and
// publishes. A failed flush restores the previous version.
func (r *Repository) mutate(ctx context.Context, op, eventID string, fn func(e *models.Event) (edit, error)) (result *models.Event, err error) {
	defer func() { r.metrics.ObserveRepository(op, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	prev := r.events[i]
	next := prev.Clone()
	ed, err := fn(&next)
	if err != nil {
		return nil, err
	}
	if ed.kind != "" {
		next.Revision = prev.Revision + 1
	}

	r.events[i] = next
	if err := r.flush(ctx); err != nil {
		r.events[i] = prev
		return nil, err
	}

	if ed.kind != "" {
		r.publish(ctx, ed.kind, &next, ed.subject)
	}
	out := next.Clone()
	return &out, nil
}
