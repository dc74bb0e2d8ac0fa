package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// SaveRun persists a solved (or failed) roster run and returns its
// generated run id.
func SaveRun(db *sql.DB, in roster.Input, result roster.Result) (int64, error) {
	inputJSON, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("marshal input: %w", err)
	}

	res, err := db.Exec(
		`INSERT INTO roster_runs (window_start, window_end, status, difficulty, availability_ratio, heavy_count, wall_time_seconds, objective, input_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Window.Start.String(), in.Window.End.String(),
		string(result.Status), string(result.Diagnostics.Difficulty),
		result.Diagnostics.AvailabilityRatio, result.Diagnostics.HeavyCount,
		result.Diagnostics.WallTimeSeconds, result.Diagnostics.Objective,
		string(inputJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert roster_runs: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if result.Schedule == nil {
		return runID, nil
	}

	names := make(map[string]string, len(in.People))
	for _, p := range in.People {
		names[p.ID] = p.Name
	}

	for personID, ps := range result.Schedule.People {
		scheduleJSON, err := json.Marshal(ps.Schedule)
		if err != nil {
			return runID, fmt.Errorf("marshal schedule for %s: %w", personID, err)
		}
		if _, err := db.Exec(
			`INSERT INTO person_schedules (run_id, person_id, person_name, total_base, total_home, total_weekend_base, schedule_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, personID, names[personID], ps.TotalBase, ps.TotalHome, ps.TotalWeekendBase, string(scheduleJSON),
		); err != nil {
			return runID, fmt.Errorf("insert person_schedules for %s: %w", personID, err)
		}
	}

	for date, count := range result.Schedule.DailyBaseCount {
		if _, err := db.Exec(
			`INSERT INTO daily_counts (run_id, date, base_count) VALUES (?, ?, ?)`,
			runID, date, count,
		); err != nil {
			return runID, fmt.Errorf("insert daily_counts for %s: %w", date, err)
		}
	}

	return runID, nil
}

// GetRun reconstructs a previously solved run's roster.Result.
func GetRun(db *sql.DB, runID int64) (roster.Result, error) {
	var result roster.Result
	var objective sql.NullFloat64

	row := db.QueryRow(
		`SELECT status, difficulty, availability_ratio, heavy_count, wall_time_seconds, objective
		 FROM roster_runs WHERE id = ?`, runID)
	if err := row.Scan(
		&result.Status, &result.Diagnostics.Difficulty, &result.Diagnostics.AvailabilityRatio,
		&result.Diagnostics.HeavyCount, &result.Diagnostics.WallTimeSeconds, &objective,
	); err != nil {
		return result, fmt.Errorf("select roster_runs: %w", err)
	}
	if objective.Valid {
		v := objective.Float64
		result.Diagnostics.Objective = &v
	}

	if result.Status != roster.StatusOptimal && result.Status != roster.StatusFeasible {
		return result, nil
	}

	solution := &roster.Solution{
		People:         make(map[string]roster.PersonSchedule),
		DailyBaseCount: make(map[string]int),
	}

	rows, err := db.Query(
		`SELECT person_id, total_base, total_home, total_weekend_base, schedule_json
		 FROM person_schedules WHERE run_id = ?`, runID)
	if err != nil {
		return result, fmt.Errorf("select person_schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID, scheduleJSON string
		var ps roster.PersonSchedule
		if err := rows.Scan(&personID, &ps.TotalBase, &ps.TotalHome, &ps.TotalWeekendBase, &scheduleJSON); err != nil {
			return result, fmt.Errorf("scan person_schedules: %w", err)
		}
		if err := json.Unmarshal([]byte(scheduleJSON), &ps.Schedule); err != nil {
			return result, fmt.Errorf("unmarshal schedule for %s: %w", personID, err)
		}
		ps.PersonID = personID
		solution.People[personID] = ps
	}

	countRows, err := db.Query(`SELECT date, base_count FROM daily_counts WHERE run_id = ?`, runID)
	if err != nil {
		return result, fmt.Errorf("select daily_counts: %w", err)
	}
	defer countRows.Close()

	for countRows.Next() {
		var date string
		var count int
		if err := countRows.Scan(&date, &count); err != nil {
			return result, fmt.Errorf("scan daily_counts: %w", err)
		}
		solution.DailyBaseCount[date] = count
	}

	result.Schedule = solution
	return result, nil
}
