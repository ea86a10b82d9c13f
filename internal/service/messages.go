package service

import (
	"time"

	"github.com/mmynk/onbeventi/internal/calculator"
	"github.com/mmynk/onbeventi/internal/models"
)

// EventView is an event together with its computed figures.
type EventView struct {
	models.Event
	Summary calculator.EventSummary `json:"summary"`
}

func newEventView(e *models.Event) *EventView {
	return &EventView{Event: *e, Summary: calculator.Summarize(*e)}
}

type CreateEventRequest struct {
	Event models.Event `json:"event"`
}

// UpdateEventRequest changes the details of an event and leaves its attendees
// and expenses alone. Revision is the one the caller last saw; zero skips the
// check.
type UpdateEventRequest struct {
	EventID      string  `json:"eventId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Location     string  `json:"location"`
	Cost         float64 `json:"cost"`
	MaxAttendees *int    `json:"maxAttendees,omitempty"`
	Revision     int64   `json:"revision,omitempty"`
}

type EventRequest struct {
	EventID string `json:"eventId"`
}

type EventResponse struct {
	Event *EventView `json:"event"`
}

type ListEventsResponse struct {
	Events []*EventView `json:"events"`
}

type DeleteEventResponse struct{}

type AttendeeRequest struct {
	EventID  string          `json:"eventId"`
	Attendee models.Attendee `json:"attendee"`
}

// AttendeeRef addresses one attendee of one event.
type AttendeeRef struct {
	EventID    string `json:"eventId"`
	AttendeeID string `json:"attendeeId"`
}

type AddExpenseRequest struct {
	EventID string         `json:"eventId"`
	Expense models.Expense `json:"expense"`
}

type ExpenseRef struct {
	EventID   string `json:"eventId"`
	ExpenseID string `json:"expenseId"`
}

type DashboardResponse struct {
	Dashboard calculator.Dashboard `json:"dashboard"`
}

type GenerateDescriptionRequest struct {
	Title string `json:"title"`
	Mood  string `json:"mood,omitempty"`
}

// GenerateDescriptionResponse always carries text: either the generated
// description or a message explaining why there is none.
type GenerateDescriptionResponse struct {
	Description string `json:"description"`
}

type SettingsResponse struct {
	APIKey string `json:"apiKey"`
	Source string `json:"source"`
}

type SetAPIKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
