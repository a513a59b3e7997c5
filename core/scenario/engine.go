// Package scenario applies parametrized what-if changes to a copy of a base
// plan, recomputes the grid, and reports the impact against baseline.
package scenario

import (
	"time"

	"github.com/taktflow/taktd/core/conflict"
	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/takt"
)

// Cost and risk coefficients. The exact values are a reporting policy, not a
// correctness invariant; both metrics stay monotonic in the schedule delta and
// in newly introduced stacking conflicts.
const (
	// DefaultDailyCost prices one schedule day when the plan carries no
	// crew cost data.
	DefaultDailyCost = 1000.0
	// StackingPenaltyCost is added per newly introduced stacking conflict.
	StackingPenaltyCost = 2500.0
)

// Result is the outcome of a what-if run.
type Result struct {
	OriginalEndDate       time.Time        `json:"original_end_date"`
	SimulatedEndDate      time.Time        `json:"simulated_end_date"`
	OriginalTotalPeriods  int              `json:"original_total_periods"`
	SimulatedTotalPeriods int              `json:"simulated_total_periods"`
	DeltaDays             int              `json:"delta_days"`
	StackingConflicts     []model.Warning  `json:"stacking_conflicts"`
	NewConflicts          int              `json:"new_conflicts"`
	Warnings              []string         `json:"warnings"`
	ResourceImpacts       []ResourceImpact `json:"resource_impacts"`
	CostImpact            float64          `json:"cost_impact"`
	RiskScoreChange       float64          `json:"risk_score_change"`
}

// RunWhatIf clones the base plan, applies the changes in list order, re-runs
// the grid generator and conflict detector, and diffs against a baseline run
// of the unmutated plan. The base plan is never modified.
func RunWhatIf(base model.Plan, changes []Change) (Result, error) {
	baseAssignments, baseTotal, err := takt.Generate(base)
	if err != nil {
		return Result{}, err
	}
	baseStacking := conflict.Stacking(conflict.Detect(base, baseAssignments))

	sim := base.Clone()
	rec := &recorder{}
	for _, c := range changes {
		c.apply(&sim, rec)
	}
	sortWagons(&sim)

	simAssignments, simTotal, err := takt.Generate(sim)
	if err != nil {
		return Result{}, err
	}
	simStacking := conflict.Stacking(conflict.Detect(sim, simAssignments))

	deltaDays := simTotal - baseTotal
	newConflicts := len(simStacking) - len(baseStacking)
	if newConflicts < 0 {
		newConflicts = 0
	}

	res := Result{
		OriginalEndDate:       takt.EndDate(base, baseTotal),
		SimulatedEndDate:      takt.EndDate(sim, simTotal),
		OriginalTotalPeriods:  baseTotal,
		SimulatedTotalPeriods: simTotal,
		DeltaDays:             deltaDays,
		StackingConflicts:     simStacking,
		NewConflicts:          newConflicts,
		Warnings:              rec.warnings,
		ResourceImpacts:       rec.impacts,
		CostImpact:            costImpact(sim, deltaDays, newConflicts),
		RiskScoreChange:       riskScoreChange(sim, deltaDays, newConflicts),
	}
	return res, nil
}

// costImpact = deltaDays x daily crew cost + a fixed penalty per new stacking
// conflict. Daily crew cost sums crewSize x costPerDay over the simulated
// wagons, falling back to DefaultDailyCost for unpriced plans.
func costImpact(plan model.Plan, deltaDays, newConflicts int) float64 {
	daily := 0.0
	for _, w := range plan.Wagons {
		crew := w.CrewSize
		if crew <= 0 {
			crew = 1
		}
		daily += float64(crew) * w.CostPerDay
	}
	if daily == 0 {
		daily = DefaultDailyCost
	}
	return float64(deltaDays)*daily + float64(newConflicts)*StackingPenaltyCost
}

// riskScoreChange blends the normalised schedule delta (weight 0.6) with the
// stacking density (weight 0.4), clamped to [-1, 1].
func riskScoreChange(plan model.Plan, deltaDays, newConflicts int) float64 {
	cells := len(plan.Zones) * len(plan.Wagons)
	if cells < 1 {
		cells = 1
	}
	norm := cells
	if norm < 20 {
		norm = 20
	}
	schedule := clamp(float64(deltaDays)/float64(norm), -1, 1)
	stacking := clamp(float64(newConflicts)/float64(cells), 0, 1)
	return clamp(0.6*schedule+0.4*stacking, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
