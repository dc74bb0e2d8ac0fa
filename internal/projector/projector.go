// Package projector turns a raw Assignment into per-person schedules
// with running totals and a per-day headcount, re-verifying that no
// unavailability was violated.
package projector

import (
	"fmt"

	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Project builds the roster.Solution view of assignment under model.
// It returns an error if any person is Base on a day they were marked
// unavailable — that should never happen if the backend behaved
// correctly, so this is a round-trip check, not a normal code path.
func Project(m modelbuilder.CSPModel, assignment modelbuilder.Assignment) (*roster.Solution, error) {
	people := make(map[string]roster.PersonSchedule, len(m.Persons))

	for p, spec := range m.Persons {
		entries := make([]roster.ScheduleEntry, len(m.Days))
		totalBase, totalHome, totalWeekendBase := 0, 0, 0

		for d, day := range m.Days {
			isBase := assignment[p][d]
			if spec.Unavailable[d] && isBase {
				return nil, fmt.Errorf("projector: person %s assigned Base on unavailable day %s", spec.ID, day)
			}

			status := roster.Home
			if isBase {
				status = roster.Base
				totalBase++
				if m.Weekend[d] {
					totalWeekendBase++
				}
			} else {
				totalHome++
			}

			entries[d] = roster.ScheduleEntry{
				Date:    day,
				Status:  status,
				Weekend: m.Weekend[d],
			}
		}

		people[spec.ID] = roster.PersonSchedule{
			PersonID:         spec.ID,
			Schedule:         entries,
			TotalBase:        totalBase,
			TotalHome:        totalHome,
			TotalWeekendBase: totalWeekendBase,
		}
	}

	daily := make(map[string]int, len(m.Days))
	for d, count := range assignment.DailyBaseCount() {
		daily[m.Days[d].String()] = count
	}

	return &roster.Solution{People: people, DailyBaseCount: daily}, nil
}
