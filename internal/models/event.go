package models

import "time"

// Event is a schedulable occasion with a ticket price, a guest list and the
// costs spent to run it. Attendees and expenses are embedded: they are owned by
// the event and disappear with it.
type Event struct {
	// ID is the unique identifier for the event (UUIDv7 for new events; older
	// browser exports carry base36 identifiers which are kept as-is).
	ID string `json:"id"`

	// Title is the display name of the event.
	Title string `json:"title" validate:"required,max=200"`

	// Description is free text, optionally generated by the description service.
	Description string `json:"description" validate:"max=5000"`

	// Date is the calendar day of the event in YYYY-MM-DD form.
	Date string `json:"date" validate:"required,isodate"`

	// Time is the start time in HH:MM form. Empty means all-day.
	Time string `json:"time" validate:"omitempty,clock"`

	Location string `json:"location" validate:"max=300"`

	// Cost is the ticket price per person.
	Cost float64 `json:"cost" validate:"gte=0"`

	// MaxAttendees is the optional capacity. Nil or zero means no limit.
	MaxAttendees *int `json:"maxAttendees,omitempty" validate:"omitempty,gte=0"`

	// Expenses are the operational costs, in insertion order.
	Expenses []Expense `json:"expenses"`

	// Attendees are the registered participants, in registration order.
	Attendees []Attendee `json:"attendees"`

	CreatedAt time.Time `json:"createdAt"`

	// Revision is incremented on every persisted change and used to reject
	// writes based on a stale copy. Zero means "unknown" (old data or a caller
	// that opts out of the check).
	Revision int64 `json:"revision,omitempty"`
}

// Capacity returns the attendee limit and whether one is set.
func (e *Event) Capacity() (int, bool) {
	if e.MaxAttendees == nil || *e.MaxAttendees <= 0 {
		return 0, false
	}
	return *e.MaxAttendees, true
}

// IsFull reports whether no more attendees can be registered.
func (e *Event) IsFull() bool {
	limit, ok := e.Capacity()
	return ok && len(e.Attendees) >= limit
}

// AttendeeIndex returns the position of the attendee with the given id, or -1.
func (e *Event) AttendeeIndex(id string) int {
	for i := range e.Attendees {
		if e.Attendees[i].ID == id {
			return i
		}
	}
	return -1
}

// ExpenseIndex returns the position of the expense with the given id, or -1.
func (e *Event) ExpenseIndex(id string) int {
	for i := range e.Expenses {
		if e.Expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the event so that the copy can be mutated
// without touching the original's slices or capacity pointer.
func (e Event) Clone() Event {
	out := e
	if e.MaxAttendees != nil {
		limit := *e.MaxAttendees
		out.MaxAttendees = &limit
	}
	if e.Attendees != nil {
		out.Attendees = append(make([]Attendee, 0, len(e.Attendees)), e.Attendees...)
	}
	if e.Expenses != nil {
		out.Expenses = append(make([]Expense, 0, len(e.Expenses)), e.Expenses...)
	}
	return out
}

// IntPtr is a small helper for building optional capacities.
func IntPtr(v int) *int {
	return &v
}
