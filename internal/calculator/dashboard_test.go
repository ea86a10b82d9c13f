package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/onbeventi/internal/models"
)

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)

	events := []models.Event{
		{ID: "past", Date: "2026-10-18", Cost: 10, Attendees: attendees(models.PaymentPaid)},
		{ID: "later", Date: "2026-12-01", Cost: 5, Attendees: attendees(models.PaymentPaid, models.PaymentPending)},
		{ID: "today", Date: "2026-10-19", Cost: 20},
		{ID: "broken", Date: "someday", Cost: 1, Attendees: attendees(models.PaymentPaid)},
		{ID: "later-tie", Date: "2026-12-01"},
		{ID: "soon", Date: "2026-11-02"},
	}

	d := BuildDashboard(events, now)

	if d.TotalEvents != 6 {
		t.Errorf("TotalEvents = %d, want 6", d.TotalEvents)
	}
	if d.TotalAttendees != 4 {
		t.Errorf("TotalAttendees = %d, want 4", d.TotalAttendees)
	}
	// 10 (past) + 5 (later) + 1 (broken)
	if math.Abs(d.TotalRevenue-16) > 0.001 {
		t.Errorf("TotalRevenue = %v, want 16", d.TotalRevenue)
	}

	wantOrder := []string{"today", "soon", "later", "later-tie"}
	if len(d.Upcoming) != len(wantOrder) {
		t.Fatalf("Upcoming len = %d, want %d", len(d.Upcoming), len(wantOrder))
	}
	for i, id := range wantOrder {
		if d.Upcoming[i].ID != id {
			t.Errorf("Upcoming[%d] = %s, want %s", i, d.Upcoming[i].ID, id)
		}
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(nil, time.Now())
	if d.TotalEvents != 0 || d.TotalAttendees != 0 || d.TotalRevenue != 0 {
		t.Errorf("BuildDashboard(nil) = %+v, want zero totals", d)
	}
	if d.Upcoming == nil {
		t.Error("Upcoming should be an empty slice, not nil")
	}
}

func TestBuildDashboard_UsesNowLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 23:30 UTC on the 18th is already the 19th in Rome.
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC).In(rome)

	d := BuildDashboard([]models.Event{{ID: "e", Date: "2026-10-18"}}, now)
	if len(d.Upcoming) != 0 {
		t.Errorf("event dated yesterday in Rome reported as upcoming")
	}
}
