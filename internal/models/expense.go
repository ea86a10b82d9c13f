package models

// Expense is an operational cost attributed to an event.
type Expense struct {
	// ID is unique within the owning event.
	ID string `json:"id"`

	Description string `json:"description" validate:"required,max=200"`

	// Amount is conventionally non-negative; refunds may be recorded as
	// negative amounts.
	Amount float64 `json:"amount"`
}
