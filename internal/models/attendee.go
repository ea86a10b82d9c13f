package models

import "time"

// PaymentStatus tracks whether an attendee has paid for the ticket.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// Toggled returns the opposite status. Anything that is not PAID toggles to PAID.
func (s PaymentStatus) Toggled() PaymentStatus {
	if s == PaymentPaid {
		return PaymentPending
	}
	return PaymentPaid
}

// Attendee is a participant registered to one event.
type Attendee struct {
	// ID is unique within the owning event.
	ID string `json:"id"`

	Name string `json:"name" validate:"required,max=200"`

	// Email and Phone are optional contact details.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"max=40"`

	Status PaymentStatus `json:"status" validate:"required,oneof=PENDING PAID"`

	RegistrationDate time.Time `json:"registrationDate"`
}

// IsPaid reports whether the attendee has paid.
func (a Attendee) IsPaid() bool {
	return a.Status == PaymentPaid
}
