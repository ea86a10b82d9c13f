// Package ics exports events as an iCalendar feed that calendar apps can
// subscribe to.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/mmynk/onbeventi/internal/models"
)

const (
	productID       = "-//onbeventi//events//EN"
	uidDomain       = "@onbeventi"
	DefaultDuration = 2 * time.Hour
)

// Export builds a PUBLISH calendar with one VEVENT per event.
//
// Dates and times are interpreted in loc. Events with a time last
// DefaultDuration; events without one are all-day. Events whose date or time
// cannot be parsed are skipped.
func Export(events []models.Event, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendarFor("onbeventi")
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		day, err := time.ParseInLocation("2006-01-02", e.Date, loc)
		if err != nil {
			continue
		}

		var start time.Time
		allDay := e.Time == ""
		if !allDay {
			start, err = time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
			if err != nil {
				continue
			}
		}

		ev := cal.AddEvent(e.ID + uidDomain)
		ev.SetDtStampTime(stamp)
		if !e.CreatedAt.IsZero() {
			ev.SetCreatedTime(e.CreatedAt)
		}
		ev.SetSequence(int(e.Revision))
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}

		if allDay {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(DefaultDuration))
		}
	}

	return cal.Serialize()
}
