package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/taktflow/taktd/core/model"
)

// Comparison holds the results of evaluating several candidate change lists
// against the same base plan, with the lowest-scoring scenario recommended.
type Comparison struct {
	Scenarios            []Result `json:"scenarios"`
	RecommendationIndex  int      `json:"recommendation_index"`
	RecommendationReason string   `json:"recommendation_reason"`
}

// Compare runs each scenario independently against the base plan and scores
// them: schedule delta plus a five-day penalty per stacking conflict, a cost
// term normalised to thousands, and the risk change scaled by ten. Lower is
// better; ties keep the earlier scenario.
func Compare(base model.Plan, scenarios [][]Change) (Comparison, error) {
	if len(scenarios) == 0 {
		return Comparison{}, model.Invalidf("compare requires at least one scenario")
	}
	results := make([]Result, len(scenarios))
	for i, changes := range scenarios {
		res, err := RunWhatIf(base, changes)
		if err != nil {
			return Comparison{}, err
		}
		results[i] = res
	}

	bestIdx := 0
	bestScore := math.Inf(1)
	for i, res := range results {
		score := float64(res.DeltaDays) +
			float64(len(res.StackingConflicts))*5 +
			math.Max(res.CostImpact, 0)/1000 +
			res.RiskScoreChange*10
		if score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	return Comparison{
		Scenarios:            results,
		RecommendationIndex:  bestIdx,
		RecommendationReason: recommendationReason(bestIdx, results[bestIdx]),
	}, nil
}

func recommendationReason(idx int, best Result) string {
	var parts []string
	switch {
	case best.DeltaDays < 0:
		parts = append(parts, fmt.Sprintf("saves %d day(s)", -best.DeltaDays))
	case best.DeltaDays == 0:
		parts = append(parts, "maintains the original schedule")
	default:
		parts = append(parts, fmt.Sprintf("adds only %d day(s)", best.DeltaDays))
	}
	if best.CostImpact < 0 {
		parts = append(parts, fmt.Sprintf("reduces cost by %.0f", -best.CostImpact))
	} else if best.CostImpact > 0 {
		parts = append(parts, fmt.Sprintf("costs an extra %.0f", best.CostImpact))
	}
	if n := len(best.StackingConflicts); n == 0 {
		parts = append(parts, "introduces no trade-stacking conflicts")
	} else {
		parts = append(parts, fmt.Sprintf("introduces %d stacking conflict(s)", n))
	}
	return fmt.Sprintf("Scenario %d is recommended because it %s.", idx+1, strings.Join(parts, ", "))
}
