package takt

import (
	"sort"
	"time"

	"github.com/taktflow/taktd/core/model"
)

// FlowlineSegment is one zone occupancy on a trade's flowline.
type FlowlineSegment struct {
	ZoneID       string    `json:"zone_id"`
	ZoneName     string    `json:"zone"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
}

// FlowlineData is chart-ready line-of-balance data: zone axis labels plus one
// segment series per trade, keyed by wagon name.
type FlowlineData struct {
	Zones  []string                     `json:"zones"`
	Trades map[string][]FlowlineSegment `json:"trades"`
}

// Flowline projects a computed grid into flowline chart data.
func Flowline(plan model.Plan, assignments []model.Assignment) FlowlineData {
	zones := append([]model.Zone(nil), plan.Zones...)
	sort.Slice(zones, func(i, j int) bool { return zones[i].Sequence < zones[j].Sequence })

	names := make([]string, len(zones))
	zoneName := make(map[string]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
		zoneName[z.ID] = z.Name
	}
	wagonName := make(map[string]string, len(plan.Wagons))
	for _, w := range plan.Wagons {
		wagonName[w.ID] = w.Name
	}

	trades := make(map[string][]FlowlineSegment)
	for _, a := range assignments {
		name := wagonName[a.WagonID]
		trades[name] = append(trades[name], FlowlineSegment{
			ZoneID:       a.ZoneID,
			ZoneName:     zoneName[a.ZoneID],
			Start:        a.PlannedStart,
			End:          a.PlannedEnd,
			DurationDays: a.DurationDays,
		})
	}
	return FlowlineData{Zones: names, Trades: trades}
}

// Summary aggregates grid totals for reporting.
type Summary struct {
	TotalPeriods int       `json:"total_periods"`
	NumZones     int       `json:"num_zones"`
	NumTrades    int       `json:"num_trades"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// Summarize derives plan totals from a computed grid.
func Summarize(plan model.Plan, totalPeriods int) Summary {
	return Summary{
		TotalPeriods: totalPeriods,
		NumZones:     len(plan.Zones),
		NumTrades:    len(plan.Wagons),
		StartDate:    NextWorkingDay(plan.StartDate),
		EndDate:      EndDate(plan, totalPeriods),
	}
}
