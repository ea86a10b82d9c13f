package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/onbeventi/internal/models"
)

// EventStore persists the whole event collection as one JSON array under a
// single key. Every save rewrites the full collection.
type EventStore struct {
	store Store
	key   string
	now   func() time.Time
}

// NewEventStore binds an EventStore to the given backend and EventsKey.
func NewEventStore(store Store) *EventStore {
	return &EventStore{store: store, key: EventsKey, now: time.Now}
}

// Key returns the storage key holding the collection.
func (s *EventStore) Key() string {
	return s.key
}

// Load reads and decodes the collection.
// A missing key yields an empty collection; an undecodable payload yields
// ErrCorrupt.
func (s *EventStore) Load(ctx context.Context) ([]models.Event, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []models.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	if len(data) == 0 {
		return []models.Event{}, nil
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// LoadAll returns the stored collection and never fails: missing, unreadable
// and corrupted data all yield an empty slice. Corrupted payloads are copied
// to a quarantine key first so a later save cannot destroy them.
func (s *EventStore) LoadAll(ctx context.Context) []models.Event {
	events, err := s.Load(ctx)
	if err == nil {
		return events
	}

	if errors.Is(err, ErrCorrupt) {
		slog.WarnContext(ctx, "Stored events are corrupted, starting from an empty collection",
			"key", s.key,
			"error", err,
		)
		s.quarantine(ctx)
	} else {
		slog.ErrorContext(ctx, "Failed to read stored events, starting from an empty collection",
			"key", s.key,
			"error", err,
		)
	}
	return []models.Event{}
}

func (s *EventStore) quarantine(ctx context.Context) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to re-read corrupted events for quarantine", "key", s.key, "error", err)
		return
	}
	target := s.key + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if err := s.store.Put(ctx, target, data); err != nil {
		slog.ErrorContext(ctx, "Failed to quarantine corrupted events", "key", target, "error", err)
		return
	}
	slog.WarnContext(ctx, "Corrupted events quarantined", "key", target, "bytes", len(data))
}

// SaveAll replaces the stored collection with events.
func (s *EventStore) SaveAll(ctx context.Context, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	return nil
}
