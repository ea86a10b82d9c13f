// Package calculator derives financial and occupancy figures from events.
// Every function is pure: nothing is stored, results are recomputed on demand.
package calculator

import (
	"math"

	"github.com/mmynk/onbeventi/internal/models"
)

// EventSummary bundles the derived figures for one event.
type EventSummary struct {
	AttendeeCount  int     `json:"attendeeCount"`
	PaidCount      int     `json:"paidCount"`
	TotalRevenue   float64 `json:"totalRevenue"`
	PendingRevenue float64 `json:"pendingRevenue"`
	TotalExpenses  float64 `json:"totalExpenses"`
	NetProfit      float64 `json:"netProfit"`
	Occupancy      float64 `json:"occupancyPercentage"`
	// RemainingSeats is nil when the event has no capacity limit.
	RemainingSeats *int `json:"remainingSeats,omitempty"`
}

// PaidCount returns the number of attendees with status PAID.
func PaidCount(e models.Event) int {
	n := 0
	for _, a := range e.Attendees {
		if a.IsPaid() {
			n++
		}
	}
	return n
}

// TotalRevenue is the ticket price times the number of paid attendees.
func TotalRevenue(e models.Event) float64 {
	return float64(PaidCount(e)) * e.Cost
}

// PendingRevenue is the amount still to be collected from unpaid attendees.
func PendingRevenue(e models.Event) float64 {
	return float64(len(e.Attendees)-PaidCount(e)) * e.Cost
}

// TotalExpenses sums the expense amounts. An event without expenses costs 0.
func TotalExpenses(e models.Event) float64 {
	total := 0.0
	for _, x := range e.Expenses {
		total += x.Amount
	}
	return total
}

// NetProfit is revenue minus expenses; it may be negative.
func NetProfit(e models.Event) float64 {
	return TotalRevenue(e) - TotalExpenses(e)
}

// OccupancyPercentage returns attendees over capacity as a percentage clamped
// to [0, 100]. Events without a limit report 0.
func OccupancyPercentage(e models.Event) float64 {
	limit, ok := e.Capacity()
	if !ok {
		return 0
	}
	return math.Min(float64(len(e.Attendees))/float64(limit)*100, 100)
}

// Summarize computes every per-event figure at once.
func Summarize(e models.Event) EventSummary {
	s := EventSummary{
		AttendeeCount:  len(e.Attendees),
		PaidCount:      PaidCount(e),
		TotalRevenue:   TotalRevenue(e),
		PendingRevenue: PendingRevenue(e),
		TotalExpenses:  TotalExpenses(e),
		NetProfit:      NetProfit(e),
		Occupancy:      OccupancyPercentage(e),
	}
	if limit, ok := e.Capacity(); ok {
		remaining := max(limit-len(e.Attendees), 0)
		s.RemainingSeats = &remaining
	}
	return s
}
