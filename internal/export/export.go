// Package export builds the per-day {on_base, at_home} calendar view
// consumed by downstream UIs, with names ordered per the caller's
// original person order.
package export

import "github.com/bruno.lopes/dutyroster/backend/internal/roster"

// NameRef is the {id, name} pair calendar_export lists people by.
type NameRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DayExport is one date's entry in the calendar_export output.
type DayExport struct {
	OnBase []NameRef `json:"on_base"`
	AtHome []NameRef `json:"at_home"`
}

// Export builds the calendar_export view from a solved roster.Solution,
// preserving the order of people in the solve. The returned map is
// keyed by ISO date string.
func Export(people []roster.Person, solution *roster.Solution) map[string]DayExport {
	out := make(map[string]DayExport)

	for _, p := range people {
		ps, ok := solution.People[p.ID]
		if !ok {
			continue
		}
		ref := NameRef{ID: p.ID, Name: p.Name}
		for _, entry := range ps.Schedule {
			date := entry.Date.String()
			day := out[date]
			if entry.Status == roster.Base {
				day.OnBase = append(day.OnBase, ref)
			} else {
				day.AtHome = append(day.AtHome, ref)
			}
			out[date] = day
		}
	}

	return out
}
