package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/onbeventi/internal/models"
	"github.com/mmynk/onbeventi/internal/notify"
	"github.com/mmynk/onbeventi/pkg/validator"
)

// AddAttendee registers a participant. Missing id, status and registration
// date are filled in (new id, PENDING, now).
func (r *Repository) AddAttendee(ctx context.Context, eventID string, attendee models.Attendee) (*models.Event, error) {
	a := attendee
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Status == "" {
		a.Status = models.PaymentPending
	}
	if a.RegistrationDate.IsZero() {
		a.RegistrationDate = r.clock.Now()
	}

	return r.mutate(ctx, "add_attendee", eventID, func(e *models.Event) (edit, error) {
		if e.IsFull() {
			r.metrics.CapacityRejected()
			limit, _ := e.Capacity()
			return edit{}, fmt.Errorf("%w: %d of %d seats taken", ErrCapacityReached, len(e.Attendees), limit)
		}
		if e.AttendeeIndex(a.ID) >= 0 {
			return edit{}, fmt.Errorf("%w: attendee %s", ErrDuplicateID, a.ID)
		}
		if err := validator.Validate(ctx, a); err != nil {
			return edit{}, err
		}
		e.Attendees = append(e.Attendees, a)
		return edit{kind: notify.AttendeeAdded, subject: a.ID}, nil
	})
}

// UpdateAttendee replaces the attendee with the same id, keeping its
// position. An empty status or zero registration date keeps the stored value.
func (r *Repository) UpdateAttendee(ctx context.Context, eventID string, attendee models.Attendee) (*models.Event, error) {
	return r.mutate(ctx, "update_attendee", eventID, func(e *models.Event) (edit, error) {
		i := e.AttendeeIndex(attendee.ID)
		if i < 0 {
			return edit{}, fmt.Errorf("%w: %s", ErrAttendeeNotFound, attendee.ID)
		}
		a := attendee
		if a.Status == "" {
			a.Status = e.Attendees[i].Status
		}
		if a.RegistrationDate.IsZero() {
			a.RegistrationDate = e.Attendees[i].RegistrationDate
		}
		if err := validator.Validate(ctx, a); err != nil {
			return edit{}, err
		}
		e.Attendees[i] = a
		return edit{kind: notify.AttendeeUpdated, subject: a.ID}, nil
	})
}

// TogglePaymentStatus flips the attendee between PENDING and PAID.
func (r *Repository) TogglePaymentStatus(ctx context.Context, eventID, attendeeID string) (*models.Event, error) {
	return r.mutate(ctx, "toggle_payment", eventID, func(e *models.Event) (edit, error) {
		i := e.AttendeeIndex(attendeeID)
		if i < 0 {
			return edit{}, fmt.Errorf("%w: %s", ErrAttendeeNotFound, attendeeID)
		}
		e.Attendees[i].Status = e.Attendees[i].Status.Toggled()
		return edit{kind: notify.PaymentToggled, subject: attendeeID}, nil
	})
}

// DeleteAttendee removes the attendee. An unknown attendee id is logged and
// the unchanged event is saved and returned.
func (r *Repository) DeleteAttendee(ctx context.Context, eventID, attendeeID string) (*models.Event, error) {
	return r.mutate(ctx, "delete_attendee", eventID, func(e *models.Event) (edit, error) {
		i := e.AttendeeIndex(attendeeID)
		if i < 0 {
			slog.WarnContext(ctx, "Attendee to delete not found",
				"event_id", eventID,
				"attendee_id", attendeeID,
			)
			return edit{}, nil
		}
		e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
		return edit{kind: notify.AttendeeDeleted, subject: attendeeID}, nil
	})
}
