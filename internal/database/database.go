// Package database stores submitted roster runs and their solved
// schedules so the HTTP layer can serve a previous result without
// re-solving. SQLite with an embedded CREATE TABLE IF NOT EXISTS
// schema, plus a best-effort ALTER TABLE migration loop for older
// databases.
package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize opens (creating if necessary) the SQLite database at
// dbPath and ensures its schema is current.
func Initialize(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- One row per submitted roster_runs solve.
	CREATE TABLE IF NOT EXISTS roster_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL,
		status TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		availability_ratio REAL NOT NULL,
		heavy_count INTEGER NOT NULL,
		wall_time_seconds REAL NOT NULL,
		objective REAL,
		input_json TEXT NOT NULL
	);

	-- Per-person solved schedule, one row per person per run.
	CREATE TABLE IF NOT EXISTS person_schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES roster_runs(id),
		person_id TEXT NOT NULL,
		person_name TEXT NOT NULL,
		total_base INTEGER NOT NULL,
		total_home INTEGER NOT NULL,
		total_weekend_base INTEGER NOT NULL,
		schedule_json TEXT NOT NULL,
		UNIQUE(run_id, person_id)
	);

	-- Per-day headcount, one row per day per run.
	CREATE TABLE IF NOT EXISTS daily_counts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES roster_runs(id),
		date TEXT NOT NULL,
		base_count INTEGER NOT NULL,
		UNIQUE(run_id, date)
	);

	-- Chat history for the schedule-explainer assistant.
	CREATE TABLE IF NOT EXISTS roster_chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES roster_runs(id),
		person_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Application-wide and per-deployment settings (API keys, etc).
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		value TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('openai_api_key', ''),
		('ai_model', 'gpt-4o-mini');
	`

	_, err := db.Exec(schema)
	if err != nil {
		return err
	}

	// Best-effort migrations for databases created before a column
	// existed; errors are ignored because the column may already be
	// there.
	migrations := []string{
		`ALTER TABLE roster_runs ADD COLUMN objective REAL;`,
	}
	for _, migration := range migrations {
		db.Exec(migration)
	}

	return nil
}
