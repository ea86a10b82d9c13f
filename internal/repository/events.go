package repository

import (
	"context"
	"fmt"

	"github.com/mmynk/onbeventi/internal/models"
	"github.com/mmynk/onbeventi/internal/notify"
	"github.com/mmynk/onbeventi/pkg/validator"
)

// CreateOrReplace stores event. An event whose id is unknown (or empty) is
// appended; a known id is replaced in place, keeping its position.
//
// A non-zero Revision must match the stored one or ErrStaleRevision is
// returned; zero skips the check. The stored revision is always assigned by
// the repository.
func (r *Repository) CreateOrReplace(ctx context.Context, event models.Event) (result *models.Event, err error) {
	defer func() { r.metrics.ObserveRepository("create_or_replace", err) }()

	e := event.Clone()
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Attendees == nil {
		e.Attendees = []models.Attendee{}
	}
	if e.Expenses == nil {
		e.Expenses = []models.Expense{}
	}
	if err := validator.Validate(ctx, e); err != nil {
		return nil, err
	}
	if limit, ok := e.Capacity(); ok && len(e.Attendees) > limit {
		return nil, fmt.Errorf("%w: %d attendees, limit %d", ErrCapacityExceeded, len(e.Attendees), limit)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, exists := r.index[e.ID]
	if !exists {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = r.clock.Now()
		}
		e.Revision = 1

		r.events = append(r.events, e)
		r.index[e.ID] = len(r.events) - 1
		if err := r.flush(ctx); err != nil {
			r.events = r.events[:len(r.events)-1]
			delete(r.index, e.ID)
			return nil, err
		}
		r.publish(ctx, notify.EventCreated, &e, "")
		out := e.Clone()
		return &out, nil
	}

	prev := r.events[i]
	if e.Revision != 0 && e.Revision != prev.Revision {
		return nil, fmt.Errorf("%w: have revision %d, stored %d", ErrStaleRevision, e.Revision, prev.Revision)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = prev.CreatedAt
	}
	e.Revision = prev.Revision + 1

	r.events[i] = e
	if err := r.flush(ctx); err != nil {
		r.events[i] = prev
		return nil, err
	}
	r.publish(ctx, notify.EventUpdated, &e, "")
	out := e.Clone()
	return &out, nil
}

// Delete removes the event together with its attendees and expenses.
func (r *Repository) Delete(ctx context.Context, id string) (err error) {
	defer func() { r.metrics.ObserveRepository("delete", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	prev := r.events
	removed := r.events[i]
	next := make([]models.Event, 0, len(r.events)-1)
	next = append(next, r.events[:i]...)
	next = append(next, r.events[i+1:]...)

	r.events = next
	r.reindex()
	if err := r.flush(ctx); err != nil {
		r.events = prev
		r.reindex()
		return err
	}

	removed.Revision++
	r.publish(ctx, notify.EventDeleted, &removed, "")
	return nil
}

// EventDetails are the fields an organizer edits directly. Attendees,
// expenses and bookkeeping fields are not part of it.
type EventDetails struct {
	Title        string
	Description  string
	Date         string
	Time         string
	Location     string
	Cost         float64
	MaxAttendees *int
}

// UpdateDetails replaces the details of an event under the repository lock,
// so registrations and expenses recorded concurrently are kept. A non-zero
// revision must match the stored one.
func (r *Repository) UpdateDetails(ctx context.Context, id string, revision int64, d EventDetails) (*models.Event, error) {
	return r.mutate(ctx, "update_details", id, func(e *models.Event) (edit, error) {
		if revision != 0 && revision != e.Revision {
			return edit{}, fmt.Errorf("%w: have revision %d, stored %d", ErrStaleRevision, revision, e.Revision)
		}

		e.Title = d.Title
		e.Description = d.Description
		e.Date = d.Date
		e.Time = d.Time
		e.Location = d.Location
		e.Cost = d.Cost
		e.MaxAttendees = d.MaxAttendees

		if err := validator.Validate(ctx, e); err != nil {
			return edit{}, err
		}
		if limit, ok := e.Capacity(); ok && len(e.Attendees) > limit {
			return edit{}, fmt.Errorf("%w: %d attendees, limit %d", ErrCapacityExceeded, len(e.Attendees), limit)
		}
		return edit{kind: notify.EventUpdated}, nil
	})
}
