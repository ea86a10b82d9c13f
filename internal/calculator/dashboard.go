package calculator

import (
	"sort"
	"time"

	"github.com/mmynk/onbeventi/internal/models"
)

const dateLayout = "2006-01-02"

// Dashboard is the cross-event overview.
type Dashboard struct {
	TotalEvents    int     `json:"totalEvents"`
	TotalAttendees int     `json:"totalAttendees"`
	TotalRevenue   float64 `json:"totalRevenue"`
	// Upcoming holds events dated today or later, earliest first.
	Upcoming []models.Event `json:"upcoming"`
}

// BuildDashboard aggregates all events as seen at now.
//
// An event is upcoming when its date is on or after the start of now's day in
// now's location. Ties keep their input order. Events whose date cannot be
// parsed still count toward the totals but are never upcoming.
func BuildDashboard(events []models.Event, now time.Time) Dashboard {
	d := Dashboard{
		TotalEvents: len(events),
		Upcoming:    []models.Event{},
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	type dated struct {
		day   time.Time
		event models.Event
	}
	var upcoming []dated

	for _, e := range events {
		d.TotalAttendees += len(e.Attendees)
		d.TotalRevenue += TotalRevenue(e)

		day, err := time.ParseInLocation(dateLayout, e.Date, loc)
		if err != nil || day.Before(today) {
			continue
		}
		upcoming = append(upcoming, dated{day: day, event: e.Clone()})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].day.Before(upcoming[j].day)
	})
	for _, u := range upcoming {
		d.Upcoming = append(d.Upcoming, u.event)
	}
	return d
}
