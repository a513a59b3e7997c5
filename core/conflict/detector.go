// Package conflict scans a computed takt grid for trade-stacking, buffer and
// precedence violations. Findings are warnings, never errors: a plan with
// conflicts still computes so the caller can see what to fix.
package conflict

import (
	"fmt"
	"sort"

	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/relation"
)

// Detect runs all checks over a computed grid and returns the deduplicated
// warning list. Output ordering is not significant.
func Detect(plan model.Plan, assignments []model.Assignment) []model.Warning {
	var warnings []model.Warning
	warnings = append(warnings, detectStacking(plan, assignments)...)
	warnings = append(warnings, detectZeroBuffers(plan)...)
	warnings = append(warnings, relation.NewGraph(plan.Relationships).ValidateSequence(plan.Wagons)...)
	return model.DedupWarnings(warnings)
}

// detectStacking flags every unordered pair of wagons whose day ranges in the
// same zone intersect. Two crews in one physical space at the same time is a
// hard defect, so the severity is always critical.
func detectStacking(plan model.Plan, assignments []model.Assignment) []model.Warning {
	name := make(map[string]string, len(plan.Wagons))
	for _, w := range plan.Wagons {
		name[w.ID] = w.Name
	}
	zoneName := make(map[string]string, len(plan.Zones))
	for _, z := range plan.Zones {
		zoneName[z.ID] = z.Name
	}

	byZone := make(map[string][]model.Assignment)
	for _, a := range assignments {
		byZone[a.ZoneID] = append(byZone[a.ZoneID], a)
	}

	var warnings []model.Warning
	for zoneID, zs := range byZone {
		sort.Slice(zs, func(i, j int) bool { return zs[i].PeriodNumber < zs[j].PeriodNumber })
		for i := 0; i < len(zs); i++ {
			for j := i + 1; j < len(zs); j++ {
				a, b := zs[i], zs[j]
				if !a.Overlaps(b) {
					continue
				}
				overlapStart := max(a.PeriodNumber, b.PeriodNumber)
				overlapEnd := min(a.LastPeriod(), b.LastPeriod())
				warnings = append(warnings, model.Warning{
					Type:     model.WarningStacking,
					Severity: model.SeverityCritical,
					Message: fmt.Sprintf("%s and %s stacked in %s during periods %d-%d",
						name[a.WagonID], name[b.WagonID], zoneName[zoneID], overlapStart, overlapEnd),
					WagonIDs: []string{a.WagonID, b.WagonID},
					ZoneID:   zoneID,
					Details:  map[string]any{"overlap_start": overlapStart, "overlap_end": overlapEnd},
				})
			}
		}
	}
	return warnings
}

// detectZeroBuffers warns for each consecutive wagon pair where the earlier
// wagon carries no trailing slack: any delay then stacks the crews. The last
// wagon has nothing following it and is never flagged.
func detectZeroBuffers(plan model.Plan) []model.Warning {
	wagons := append([]model.Wagon(nil), plan.Wagons...)
	sort.Slice(wagons, func(i, j int) bool { return wagons[i].Sequence < wagons[j].Sequence })

	var warnings []model.Warning
	for i := 0; i+1 < len(wagons); i++ {
		if wagons[i].BufferAfterDays > 0 {
			continue
		}
		warnings = append(warnings, model.Warning{
			Type:     model.WarningBuffer,
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("no buffer between %s and %s: any delay will stack the crews",
				wagons[i].Name, wagons[i+1].Name),
			WagonIDs: []string{wagons[i].ID, wagons[i+1].ID},
		})
	}
	return warnings
}

// CountBySeverity tallies warnings per severity for quick reporting.
func CountBySeverity(ws []model.Warning) map[model.Severity]int {
	out := make(map[model.Severity]int, 3)
	for _, w := range ws {
		out[w.Severity]++
	}
	return out
}

// Stacking filters the critical stacking warnings out of a result set.
func Stacking(ws []model.Warning) []model.Warning {
	var out []model.Warning
	for _, w := range ws {
		if w.Type == model.WarningStacking {
			out = append(out, w)
		}
	}
	return out
}
