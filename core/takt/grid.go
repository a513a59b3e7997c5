package takt

import (
	"sort"
	"time"

	"github.com/taktflow/taktd/core/model"
)

// Generate computes the takt grid for the plan: one assignment per
// (wagon, zone) pair, wagons flowing through zones in strict sequence order.
// Wagon w enters zone 1 once every preceding wagon's occupancy (duration plus
// trailing buffer) has elapsed, then advances zone by zone as its own duration
// elapses. Inputs are validated first; an invalid plan is rejected before any
// computation. Zero wagons or zero zones is a valid empty plan, not an error.
func Generate(plan model.Plan) ([]model.Assignment, int, error) {
	if err := ValidatePlan(plan); err != nil {
		return nil, 0, err
	}

	zones := append([]model.Zone(nil), plan.Zones...)
	wagons := append([]model.Wagon(nil), plan.Wagons...)
	sort.Slice(zones, func(i, j int) bool { return zones[i].Sequence < zones[j].Sequence })
	sort.Slice(wagons, func(i, j int) bool { return wagons[i].Sequence < wagons[j].Sequence })

	if len(zones) == 0 || len(wagons) == 0 {
		return nil, 0, nil
	}

	start := NextWorkingDay(plan.StartDate)
	assignments := make([]model.Assignment, 0, len(zones)*len(wagons))
	totalPeriods := 0
	offset := 0

	for _, w := range wagons {
		entry := offset + 1
		for _, z := range zones {
			entry += plan.ZoneDelays[z.ID]
			ps, pe := PeriodDates(start, entry, w.DurationDays)
			a := model.Assignment{
				WagonID:      w.ID,
				ZoneID:       z.ID,
				PeriodNumber: entry,
				DurationDays: w.DurationDays,
				PlannedStart: ps,
				PlannedEnd:   pe,
			}
			assignments = append(assignments, a)
			if lp := a.LastPeriod(); lp > totalPeriods {
				totalPeriods = lp
			}
			entry += w.DurationDays
		}
		offset += w.DurationDays + w.BufferAfterDays
	}
	return assignments, totalPeriods, nil
}

// ValidatePlan enforces the input contract: zones and wagons contiguously
// sequenced from 1, positive takt time and durations, non-negative buffers and
// delays, and relationships referencing known wagons.
func ValidatePlan(plan model.Plan) error {
	if plan.TaktTime <= 0 {
		return model.Invalidf("takt time must be positive, got %d", plan.TaktTime)
	}
	if err := checkZoneSequence(plan.Zones); err != nil {
		return err
	}
	if err := checkWagonSequence(plan.Wagons); err != nil {
		return err
	}
	known := make(map[string]struct{}, len(plan.Wagons))
	for _, w := range plan.Wagons {
		if _, dup := known[w.ID]; dup {
			return model.Invalidf("duplicate wagon id %q", w.ID)
		}
		known[w.ID] = struct{}{}
		if w.DurationDays <= 0 {
			return model.Invalidf("wagon %q duration must be positive, got %d", w.ID, w.DurationDays)
		}
		if w.BufferAfterDays < 0 {
			return model.Invalidf("wagon %q buffer must not be negative, got %d", w.ID, w.BufferAfterDays)
		}
	}
	zoneIDs := make(map[string]struct{}, len(plan.Zones))
	for _, z := range plan.Zones {
		if _, dup := zoneIDs[z.ID]; dup {
			return model.Invalidf("duplicate zone id %q", z.ID)
		}
		zoneIDs[z.ID] = struct{}{}
	}
	for _, r := range plan.Relationships {
		if !r.Type.Valid() {
			return model.Invalidf("relationship %s->%s has unknown type %q", r.PredecessorID, r.SuccessorID, r.Type)
		}
		if _, ok := known[r.PredecessorID]; !ok {
			return model.Invalidf("relationship references unknown wagon %q", r.PredecessorID)
		}
		if _, ok := known[r.SuccessorID]; !ok {
			return model.Invalidf("relationship references unknown wagon %q", r.SuccessorID)
		}
	}
	for id, d := range plan.ZoneDelays {
		if d < 0 {
			return model.Invalidf("zone delay for %q must not be negative, got %d", id, d)
		}
		if _, ok := zoneIDs[id]; !ok {
			return model.Invalidf("zone delay references unknown zone %q", id)
		}
	}
	return nil
}

func checkZoneSequence(zones []model.Zone) error {
	seqs := make([]int, len(zones))
	for i, z := range zones {
		seqs[i] = z.Sequence
	}
	sort.Ints(seqs)
	for i, s := range seqs {
		if s != i+1 {
			return model.Invalidf("zone sequences must be contiguous from 1, got %v", seqs)
		}
	}
	return nil
}

func checkWagonSequence(wagons []model.Wagon) error {
	seqs := make([]int, len(wagons))
	for i, w := range wagons {
		seqs[i] = w.Sequence
	}
	sort.Ints(seqs)
	for i, s := range seqs {
		if s != i+1 {
			return model.Invalidf("wagon sequences must be contiguous from 1, got %v", seqs)
		}
	}
	return nil
}

// EndDate converts totalPeriods into the calendar completion date. An empty
// grid completes on the (working-day snapped) start date.
func EndDate(plan model.Plan, totalPeriods int) time.Time {
	start := NextWorkingDay(plan.StartDate)
	if totalPeriods <= 0 {
		return start
	}
	return AddWorkingDays(start, totalPeriods-1)
}
