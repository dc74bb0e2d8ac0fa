// Package calendar produces the ordered day sequence for a solve
// window and classifies each day as weekend or not.
package calendar

import (
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Calendar is a restartable, length-known sequence of days over a
// window, with weekend classification bound in at construction time.
type Calendar struct {
	window  roster.Window
	weekend roster.WeekendSet
	days    []roster.Day
}

// New builds a Calendar for window. The only failure mode is
// end < start.
func New(window roster.Window, weekend roster.WeekendSet) (*Calendar, error) {
	if window.End.Before(window.Start) {
		return nil, &roster.InvalidWindowError{
			Field: "window.end",
			Rule:  "end >= start",
			Value: window.End.String() + " < " + window.Start.String(),
		}
	}
	if len(weekend) == 0 {
		weekend = roster.DefaultWeekendSet()
	}

	n := window.Length()
	days := make([]roster.Day, n)
	d := window.Start
	for i := 0; i < n; i++ {
		days[i] = d
		d = d.AddDays(1)
	}

	return &Calendar{window: window, weekend: weekend, days: days}, nil
}

// Days returns the ordered, contiguous, strictly increasing day
// sequence for the window.
func (c *Calendar) Days() []roster.Day {
	out := make([]roster.Day, len(c.days))
	copy(out, c.days)
	return out
}

// Len returns the window length in days.
func (c *Calendar) Len() int {
	return len(c.days)
}

// IsWeekend reports whether d is a weekend day under this calendar's
// weekend classification.
func (c *Calendar) IsWeekend(d roster.Day) bool {
	return c.weekend.IsWeekend(d)
}

// Window returns the underlying window.
func (c *Calendar) Window() roster.Window {
	return c.window
}
