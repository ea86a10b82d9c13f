// Package notify announces changes to the event collection to interested
// consumers (calendar sync, mailers, dashboards in other processes).
package notify

import (
	"context"
	"encoding/json"
	"time"
)

// ChangeType identifies what happened. It doubles as the AMQP routing key.
type ChangeType string

const (
	EventCreated    ChangeType = "event.created"
	EventUpdated    ChangeType = "event.updated"
	EventDeleted    ChangeType = "event.deleted"
	AttendeeAdded   ChangeType = "attendee.added"
	AttendeeUpdated ChangeType = "attendee.updated"
	PaymentToggled  ChangeType = "attendee.payment_toggled"
	AttendeeDeleted ChangeType = "attendee.deleted"
	ExpenseAdded    ChangeType = "expense.added"
	ExpenseDeleted  ChangeType = "expense.deleted"
)

// Change describes one persisted mutation.
type Change struct {
	Type    ChangeType `json:"type"`
	EventID string     `json:"eventId"`
	// SubjectID is the attendee or expense touched, if any.
	SubjectID string    `json:"subjectId,omitempty"`
	Revision  int64     `json:"revision"`
	At        time.Time `json:"at"`
}

func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

func ChangeFromJSON(data []byte) (Change, error) {
	var c Change
	err := json.Unmarshal(data, &c)
	return c, err
}

// Publisher delivers change notifications. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Nop discards every change.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }
