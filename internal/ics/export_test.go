package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/mmynk/onbeventi/internal/models"
)

func TestExport(t *testing.T) {
	stamp := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	events := []models.Event{
		{ID: "e1", Title: "Summer Gala", Description: "Dinner and dancing", Location: "Villa Rosa", Date: "2026-11-02", Time: "20:30", Revision: 3},
		{ID: "e2", Title: "Open Day", Date: "2026-11-05"},
		{ID: "e3", Title: "Broken", Date: "soon"},
	}

	out := Export(events, time.UTC, stamp)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar failed: %v\n%s", err, out)
	}
	got := cal.Events()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2 (unparseable date skipped)", len(got))
	}

	timed := got[0]
	if p := timed.GetProperty(ical.ComponentPropertyUniqueId); p == nil || p.Value != "e1@onbeventi" {
		t.Errorf("UID = %v", p)
	}
	if p := timed.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Summer Gala" {
		t.Errorf("SUMMARY = %v", p)
	}
	if p := timed.GetProperty(ical.ComponentPropertyLocation); p == nil || p.Value != "Villa Rosa" {
		t.Errorf("LOCATION = %v", p)
	}
	if p := timed.GetProperty(ical.ComponentPropertyDtStart); p == nil || p.Value != "20261102T203000Z" {
		t.Errorf("DTSTART = %v, want 20261102T203000Z", p)
	}
	if p := timed.GetProperty(ical.ComponentPropertyDtEnd); p == nil || p.Value != "20261102T223000Z" {
		t.Errorf("DTEND = %v, want two hours later", p)
	}

	allDay := got[1]
	if p := allDay.GetProperty(ical.ComponentPropertyDtStart); p == nil || p.Value != "20261105" {
		t.Errorf("all-day DTSTART = %v, want 20261105", p)
	}
	if p := allDay.GetProperty(ical.ComponentPropertyDtEnd); p == nil || p.Value != "20261106" {
		t.Errorf("all-day DTEND = %v, want 20261106", p)
	}

	if !strings.Contains(out, "METHOD:PUBLISH") {
		t.Error("calendar is missing METHOD:PUBLISH")
	}
}

func TestExport_Empty(t *testing.T) {
	out := Export(nil, nil, time.Now())
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Errorf("unexpected empty calendar:\n%s", out)
	}
}
