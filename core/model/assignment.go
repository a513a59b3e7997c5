package model

import "time"

// Assignment is the computed fact that a wagon occupies a zone starting at a
// period for a number of working days. Produced exactly once per (wagon, zone)
// pair by the grid generator and never hand-edited.
type Assignment struct {
	WagonID      string    `json:"wagon_id"`
	ZoneID       string    `json:"zone_id"`
	PeriodNumber int       `json:"period_number"`
	DurationDays int       `json:"duration_days"`
	PlannedStart time.Time `json:"planned_start"`
	PlannedEnd   time.Time `json:"planned_end"`
}

// LastPeriod returns the final working day of the occupancy.
func (a Assignment) LastPeriod() int {
	return a.PeriodNumber + a.DurationDays - 1
}

// Overlaps reports whether two assignments occupy intersecting day ranges.
func (a Assignment) Overlaps(b Assignment) bool {
	return a.PeriodNumber <= b.LastPeriod() && b.PeriodNumber <= a.LastPeriod()
}
