package model

import "time"

// Zone is a physical work area wagons flow through. Sequence is the strict
// 1-based position of the zone in the train path.
type Zone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	Group    string `json:"group,omitempty"`
}

// Wagon is a trade crew treated as a unit flowing through every zone in
// sequence order. DurationDays normally equals the plan takt time but may be
// overridden per wagon. BufferAfterDays is slack inserted after the wagon
// vacates a zone before the next wagon may enter.
type Wagon struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Sequence        int     `json:"sequence"`
	DurationDays    int     `json:"duration_days"`
	BufferAfterDays int     `json:"buffer_after_days"`
	CrewSize        int     `json:"crew_size"`
	CostPerDay      float64 `json:"cost_per_day,omitempty"`
	Group           string  `json:"group,omitempty"`
}

// Plan is the immutable input snapshot for a single grid computation. The
// engine never mutates a Plan; scenario changes operate on a Clone.
type Plan struct {
	Zones         []Zone         `json:"zones"`
	Wagons        []Wagon        `json:"wagons"`
	Relationships []Relationship `json:"relationships,omitempty"`
	TaktTime      int            `json:"takt_time"`
	BufferDays    int            `json:"buffer_days,omitempty"`
	StartDate     time.Time      `json:"start_date"`
	Group         string         `json:"group,omitempty"`

	// ZoneDelays maps zone IDs to a fixed number of working days inserted
	// before any wagon may enter that zone. Populated by scenario changes.
	ZoneDelays map[string]int `json:"zone_delays,omitempty"`
}

// Clone returns a deep copy of the plan. Scenario changes are applied to
// clones so the base plan stays untouched.
func (p Plan) Clone() Plan {
	cp := p
	cp.Zones = append([]Zone(nil), p.Zones...)
	cp.Wagons = append([]Wagon(nil), p.Wagons...)
	cp.Relationships = append([]Relationship(nil), p.Relationships...)
	if p.ZoneDelays != nil {
		cp.ZoneDelays = make(map[string]int, len(p.ZoneDelays))
		for k, v := range p.ZoneDelays {
			cp.ZoneDelays[k] = v
		}
	}
	return cp
}

// WagonByID returns the wagon with the given ID, or nil.
func (p Plan) WagonByID(id string) *Wagon {
	for i := range p.Wagons {
		if p.Wagons[i].ID == id {
			return &p.Wagons[i]
		}
	}
	return nil
}

// ZoneByID returns the zone with the given ID, or nil.
func (p Plan) ZoneByID(id string) *Zone {
	for i := range p.Zones {
		if p.Zones[i].ID == id {
			return &p.Zones[i]
		}
	}
	return nil
}

// PartitionByGroup splits a plan into independent sub-plans, one per zone/wagon
// group label. Zones and wagons without a group land in the "" partition.
// Each sub-plan forms its own takt train; partitioning is a caller concern and
// the grid generator itself has no notion of groups.
func PartitionByGroup(p Plan) map[string]Plan {
	parts := make(map[string]Plan)
	for _, z := range p.Zones {
		sub := parts[z.Group]
		sub.Zones = append(sub.Zones, z)
		parts[z.Group] = sub
	}
	for _, w := range p.Wagons {
		sub := parts[w.Group]
		sub.Wagons = append(sub.Wagons, w)
		parts[w.Group] = sub
	}
	for g, sub := range parts {
		sub.TaktTime = p.TaktTime
		sub.BufferDays = p.BufferDays
		sub.StartDate = p.StartDate
		sub.Group = g
		sub.Relationships = p.Relationships
		parts[g] = sub
	}
	return parts
}
