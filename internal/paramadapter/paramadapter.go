// Package paramadapter maps a difficulty classification plus policy
// to a penalty schedule, as a deterministic function. The model
// builder reads one Penalties struct and never hard-codes a magic
// number, so all penalty tuning lives in one table here.
package paramadapter

import (
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Penalties is the concrete set of penalty weights and hard/soft
// toggles the model builder uses for one solve. Only the ordering
// and cross-class monotonicity of the magnitudes are load-bearing.
type Penalties struct {
	OneDayBlock          float64
	DailyShortage        float64
	ZeroWork             float64
	LongBlockSoftOverCap float64
	CriticalLongBlock    float64

	HomeBalanceWeight     float64
	WeekendFairnessWeight float64

	StrictConsecutiveLimits bool
	AllowSingleDayBlocks    bool
	EnableHomeBalance       bool
	EnableWeekendFairness   bool
}

type table struct {
	oneDayBlock, shortage, zeroWork, longBlockSoft, criticalLongBlock float64
}

// referenceTable holds the penalty reference values, indexed by
// difficulty class. Values are strictly increasing across classes for
// every penalty kind, and within a class satisfy:
// one-day block > zero-work > critical-long-block > shortage > long-block.
var referenceTable = map[roster.Difficulty]table{
	roster.DifficultyMedium:      {oneDayBlock: 10e6, shortage: 1e6, zeroWork: 5e6, longBlockSoft: 5e4, criticalLongBlock: 2e6},
	roster.DifficultyHard:        {oneDayBlock: 20e6, shortage: 2e6, zeroWork: 10e6, longBlockSoft: 1e5, criticalLongBlock: 5e6},
	roster.DifficultyExtreme:     {oneDayBlock: 30e6, shortage: 3e6, zeroWork: 15e6, longBlockSoft: 1.5e5, criticalLongBlock: 7e6},
	roster.DifficultyApocalyptic: {oneDayBlock: 50e6, shortage: 5e6, zeroWork: 20e6, longBlockSoft: 2e5, criticalLongBlock: 10e6},
}

// Adapt maps a difficulty classification plus policy to the concrete
// Penalties the model builder will build constraints and objective
// terms from.
func Adapt(difficulty roster.Difficulty, policy roster.Policy) Penalties {
	t, ok := referenceTable[difficulty]
	if !ok {
		t = referenceTable[roster.DifficultyMedium]
	}

	return Penalties{
		OneDayBlock:          t.oneDayBlock,
		DailyShortage:        t.shortage,
		ZeroWork:             t.zeroWork,
		LongBlockSoftOverCap: t.longBlockSoft,
		CriticalLongBlock:    t.criticalLongBlock,

		HomeBalanceWeight:     policy.HomeBalanceWeight,
		WeekendFairnessWeight: policy.WeekendFairnessWeight,

		StrictConsecutiveLimits: policy.StrictConsecutiveLimits,
		AllowSingleDayBlocks:    policy.AllowSingleDayBlocks,
		EnableHomeBalance:       policy.EnableHomeBalancePenalty,
		EnableWeekendFairness:   policy.EnableWeekendFairness,
	}
}
