// Package schedule decides whether a topic's session has started, which is
// the only thing a stored schedule is used for.
package schedule

import (
	"errors"
	"strings"
	"time"
)

// Layouts accepted for a scheduled timestamp, tried in order.
var Layouts = []string{
	"2006-01-02T15:04", // <input type="datetime-local">
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DisplayLayout renders as "Jan 10, 2025 at 09:00 AM".
const DisplayLayout = "Jan 02, 2006 at 03:04 PM"

// CreatedLayout renders posting times as "Jan 10 at 09:00 AM".
const CreatedLayout = "Jan 02 at 03:04 PM"

var ErrUnparsable = errors.New("scheduled time matches no accepted format")

// Gate compares raw scheduled timestamps against the current time.
type Gate struct {
	loc      *time.Location
	failOpen bool
}

// NewGate returns a gate reading naive timestamps in loc. failOpen controls
// what CanGiveFeedback answers for a stored value no layout accepts.
func NewGate(loc *time.Location, failOpen bool) *Gate {
	if loc == nil {
		loc = time.Local
	}
	return &Gate{loc: loc, failOpen: failOpen}
}

// Location returns the zone naive timestamps are read in.
func (g *Gate) Location() *time.Location {
	return g.loc
}

// FailOpen reports whether unparsable schedules allow feedback.
func (g *Gate) FailOpen() bool {
	return g.failOpen
}

// Parse tries each layout in order and returns the first match.
func (g *Gate) Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range Layouts {
		if t, err := time.ParseInLocation(layout, raw, g.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparsable
}

// CanGiveFeedback reports whether a topic scheduled at scheduledAt accepts
// ratings at now. An unscheduled topic always does.
func (g *Gate) CanGiveFeedback(scheduledAt *string, now time.Time) bool {
	if scheduledAt == nil || strings.TrimSpace(*scheduledAt) == "" {
		return true
	}
	start, err := g.Parse(*scheduledAt)
	if err != nil {
		return g.failOpen
	}
	return !now.Before(start)
}

// Display formats a stored schedule for humans. Values no layout accepts are
// returned as stored.
func (g *Gate) Display(scheduledAt *string) string {
	if scheduledAt == nil {
		return ""
	}
	t, err := g.Parse(*scheduledAt)
	if err != nil {
		return *scheduledAt
	}
	return FormatDisplay(t)
}

// FormatDisplay renders t with DisplayLayout.
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// FormatCreated renders t with CreatedLayout.
func FormatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CreatedLayout)
}
