// Package roster defines the pure data model for a duty-roster solve:
// days, windows, people, policy, and the solved schedule. Nothing in
// this package touches a database, an HTTP request, or a solver
// backend — it is consumed by internal/engine and produced fresh on
// every call.
package roster

import (
	"fmt"
	"time"
)

const isoLayout = "2006-01-02"

// Day is a single calendar day, stored as a UTC midnight instant so
// that equality and ordering are exact regardless of the caller's
// local timezone.
type Day struct {
	t time.Time
}

// ParseDay parses an ISO "YYYY-MM-DD" date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid ISO date %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParseDay is ParseDay but panics on error; useful for literal
// dates in tests and seed data.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDay builds a Day from a y/m/d triple.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String renders the day as "YYYY-MM-DD".
func (d Day) String() string {
	return d.t.Format(isoLayout)
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other name the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Sub returns the number of days between d and other (d - other).
func (d Day) Sub(other Day) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

// IsZero reports whether d is the zero Day value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// MarshalJSON renders Day as an ISO "YYYY-MM-DD" JSON string, the
// wire format used throughout the input and output contracts.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses an ISO "YYYY-MM-DD" JSON string into Day.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekendSet is the configurable classification of which weekdays
// count as weekend days. The default is {Friday, Saturday}.
type WeekendSet map[time.Weekday]bool

// DefaultWeekendSet returns the {Friday, Saturday} default.
func DefaultWeekendSet() WeekendSet {
	return WeekendSet{
		time.Friday:   true,
		time.Saturday: true,
	}
}

// IsWeekend reports whether d falls on a weekend day per ws. A nil or
// empty WeekendSet falls back to the default.
func (ws WeekendSet) IsWeekend(d Day) bool {
	if len(ws) == 0 {
		ws = DefaultWeekendSet()
	}
	return ws[d.Weekday()]
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

var namesToWeekday = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, len(weekdayNames))
	for wd, name := range weekdayNames {
		m[name] = wd
	}
	return m
}()

// Names renders ws as lowercase weekday names, used at the JSON/CLI
// boundary in place of Go's integer Weekday encoding.
func (ws WeekendSet) Names() []string {
	names := make([]string, 0, len(ws))
	for wd := range ws {
		names = append(names, weekdayNames[wd])
	}
	return names
}

// ParseWeekendNames builds a WeekendSet from lowercase weekday names
// ("friday", "saturday", ...).
func ParseWeekendNames(names []string) (WeekendSet, error) {
	ws := make(WeekendSet, len(names))
	for _, name := range names {
		wd, ok := namesToWeekday[name]
		if !ok {
			return nil, fmt.Errorf("invalid weekday name %q", name)
		}
		ws[wd] = true
	}
	return ws, nil
}
