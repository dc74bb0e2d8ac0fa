package roster

// Status is the solver status reported on every Solve call.
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusFeasible   Status = "Feasible"
	StatusInfeasible Status = "Infeasible"
	StatusUnknown    Status = "Unknown"
	StatusError      Status = "Error"
)

// Difficulty is the problem analyzer's verdict, used to pick the
// penalty schedule.
type Difficulty string

const (
	DifficultyMedium      Difficulty = "MEDIUM"
	DifficultyHard        Difficulty = "HARD"
	DifficultyExtreme     Difficulty = "EXTREME"
	DifficultyApocalyptic Difficulty = "APOCALYPTIC"
)

// DayStatus is one person's state on one day.
type DayStatus string

const (
	Base DayStatus = "Base"
	Home DayStatus = "Home"
)

// ScheduleEntry is one (day, status) pair in a person's schedule,
// annotated with its weekend-ness for display.
type ScheduleEntry struct {
	Date    Day       `json:"date"`
	Status  DayStatus `json:"status"`
	Weekend bool      `json:"weekend"`
}

// PersonSchedule is the per-person view produced by the solution
// projector.
type PersonSchedule struct {
	PersonID         string          `json:"-"`
	Schedule         []ScheduleEntry `json:"schedule"`
	TotalBase        int             `json:"total_base"`
	TotalHome        int             `json:"total_home"`
	TotalWeekendBase int             `json:"total_weekend_base"`
}

// Diagnostics accompanies every Solve result, successful or not.
type Diagnostics struct {
	Difficulty        Difficulty `json:"difficulty"`
	AvailabilityRatio float64    `json:"availability_ratio"`
	HeavyCount        int        `json:"heavy_count"`
	WallTimeSeconds   float64    `json:"wall_time_seconds"`
	Objective         *float64   `json:"objective,omitempty"`
}

// Solution is the full result of a solve: per-person schedules plus
// per-day headcounts. Present only when Status is Optimal or
// Feasible.
type Solution struct {
	People         map[string]PersonSchedule `json:"people"`
	DailyBaseCount map[string]int            `json:"daily_base_count"` // keyed by Day.String()
}

// Result is the top-level return value of engine.Solve.
type Result struct {
	Status      Status      `json:"status"`
	Diagnostics Diagnostics `json:"diagnostics"`
	Schedule    *Solution   `json:"schedule,omitempty"`
}
