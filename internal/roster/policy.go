package roster

// Policy is the caller-supplied configuration governing how the
// engine trades off coverage, fairness, and consecutive-run limits.
// Zero-value Policy is not valid; use NewDefaultPolicy
// and override individual fields.
type Policy struct {
	DefaultBaseTarget int `json:"default_base_target"`
	DefaultHomeTarget int `json:"default_home_target"`

	MaxConsecutiveBase int `json:"max_consecutive_base"`
	MaxConsecutiveHome int `json:"max_consecutive_home"`

	MinBaseBlock      int `json:"min_base_block"`
	MinRequiredPerDay int `json:"min_required_per_day"`

	MaxTotalHome   *int `json:"max_total_home,omitempty"`
	MaxWeekendBase *int `json:"max_weekend_base,omitempty"`

	ExceptionalThreshold      int `json:"exceptional_threshold"`
	ConstraintSafetyMarginPct int `json:"constraint_safety_margin_pct"`
	WeekendOnlyMaxBase        int `json:"weekend_only_max_base"`

	AllowSingleDayBlocks     bool `json:"allow_single_day_blocks"`
	AllowEdgeShortBlocks     bool `json:"allow_edge_short_blocks"`
	StrictConsecutiveLimits  bool `json:"strict_consecutive_limits"`
	AutoAdjustForConstraints bool `json:"auto_adjust_for_constraints"`
	EnableHomeBalancePenalty bool `json:"enable_home_balance_penalty"`
	EnableWeekendFairness    bool `json:"enable_weekend_fairness"`

	HomeBalanceWeight     float64 `json:"home_balance_weight"`
	WeekendFairnessWeight float64 `json:"weekend_fairness_weight"`

	TimeBudgetSeconds int `json:"time_budget_seconds"`

	// Weekend is the configurable weekend-day classification. Zero
	// value falls back to {Fri, Sat}.
	// Programmatic callers set it directly; JSON callers use
	// WeekendDays instead.
	Weekend WeekendSet `json:"-"`

	// WeekendDays is the wire form of Weekend: lowercase weekday names
	// ("friday", "saturday", ...). Validated at Solve entry and only
	// consulted when Weekend itself is unset.
	WeekendDays []string `json:"weekend_days,omitempty"`
}

// NewDefaultPolicy returns a Policy with conservative defaults:
// single-person-day coverage, single-day blocks allowed, a generous
// consecutive cap, and a 10 second solve budget.
func NewDefaultPolicy() Policy {
	return Policy{
		DefaultBaseTarget:         0,
		DefaultHomeTarget:         0,
		MaxConsecutiveBase:        6,
		MaxConsecutiveHome:        6,
		MinBaseBlock:              1,
		MinRequiredPerDay:         1,
		ExceptionalThreshold:      3,
		ConstraintSafetyMarginPct: 20,
		WeekendOnlyMaxBase:        2,
		AllowSingleDayBlocks:      true,
		AllowEdgeShortBlocks:      false,
		StrictConsecutiveLimits:   true,
		AutoAdjustForConstraints:  true,
		EnableHomeBalancePenalty:  false,
		EnableWeekendFairness:     false,
		HomeBalanceWeight:         1,
		WeekendFairnessWeight:     1,
		TimeBudgetSeconds:         10,
		Weekend:                   DefaultWeekendSet(),
	}
}

// WeekendSetOrDefault resolves the effective weekend classification:
// an explicit Weekend set wins, then the WeekendDays wire form, then
// the {Fri, Sat} default. Unparseable WeekendDays fall through to the
// default here; validation rejects them before a solve ever gets this
// far.
func (p Policy) WeekendSetOrDefault() WeekendSet {
	if len(p.Weekend) > 0 {
		return p.Weekend
	}
	if len(p.WeekendDays) > 0 {
		if ws, err := ParseWeekendNames(p.WeekendDays); err == nil {
			return ws
		}
	}
	return DefaultWeekendSet()
}
