package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/taktflow/taktd/core/model"
)

// ChangeKind enumerates the supported what-if change types.
type ChangeKind string

const (
	KindChangeTaktTime ChangeKind = "change_takt_time"
	KindAddBuffer      ChangeKind = "add_buffer"
	KindAddCrew        ChangeKind = "add_crew"
	KindMoveTrade      ChangeKind = "move_trade"
	KindRemoveTrade    ChangeKind = "remove_trade"
	KindDelayZone      ChangeKind = "delay_zone"
)

// Change is a closed union of plan mutations. Each variant carries a typed
// payload; the unexported apply method keeps the set closed so the engine
// handles every variant.
type Change interface {
	Kind() ChangeKind
	apply(plan *model.Plan, rec *recorder)
}

// recorder collects side outputs produced while applying changes.
type recorder struct {
	warnings []string
	impacts  []ResourceImpact
}

func (r *recorder) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// ResourceImpact reports a crew size adjustment caused by an add_crew change.
type ResourceImpact struct {
	TradeID       string `json:"trade_id"`
	TradeName     string `json:"trade_name"`
	OriginalCrew  int    `json:"original_crew"`
	SimulatedCrew int    `json:"simulated_crew"`
	DeltaCrew     int    `json:"delta_crew"`
}

// ChangeTaktTime overrides the global takt time. Wagons whose duration was
// tracking the old global value follow the new one; explicit overrides stay.
type ChangeTaktTime struct {
	NewTaktTime int `json:"new_takt_time"`
}

func (c ChangeTaktTime) Kind() ChangeKind { return KindChangeTaktTime }

func (c ChangeTaktTime) apply(plan *model.Plan, rec *recorder) {
	newTakt := c.NewTaktTime
	if newTakt < 1 {
		rec.warnf("change_takt_time: value must be >= 1, using 1")
		newTakt = 1
	}
	for i := range plan.Wagons {
		if plan.Wagons[i].DurationDays == plan.TaktTime {
			plan.Wagons[i].DurationDays = newTakt
		}
	}
	plan.TaktTime = newTakt
}

// AddBuffer increases every wagon's trailing buffer by a fixed amount.
type AddBuffer struct {
	BufferPeriods int `json:"buffer_periods"`
}

func (c AddBuffer) Kind() ChangeKind { return KindAddBuffer }

func (c AddBuffer) apply(plan *model.Plan, rec *recorder) {
	if c.BufferPeriods < 0 {
		rec.warnf("add_buffer: negative buffer ignored")
		return
	}
	for i := range plan.Wagons {
		plan.Wagons[i].BufferAfterDays += c.BufferPeriods
	}
}

// AddCrew raises a trade's crew size and shortens its duration by the inverse
// crew ratio (rounded, never below one day): more crew never lengthens work.
type AddCrew struct {
	Trade          string `json:"trade"`
	AdditionalCrew int    `json:"additional_crew"`
}

func (c AddCrew) Kind() ChangeKind { return KindAddCrew }

func (c AddCrew) apply(plan *model.Plan, rec *recorder) {
	w := findWagon(plan, c.Trade)
	if w == nil {
		rec.warnf("add_crew: trade %q not found, skipping", c.Trade)
		return
	}
	if c.AdditionalCrew <= 0 {
		rec.warnf("add_crew: additional crew must be positive, skipping")
		return
	}
	orig := w.CrewSize
	if orig <= 0 {
		orig = 1
	}
	crew := orig + c.AdditionalCrew
	ratio := float64(orig) / float64(crew)
	newDur := int(math.Round(float64(w.DurationDays) * ratio))
	if newDur < 1 {
		newDur = 1
	}
	rec.impacts = append(rec.impacts, ResourceImpact{
		TradeID:       w.ID,
		TradeName:     w.Name,
		OriginalCrew:  orig,
		SimulatedCrew: crew,
		DeltaCrew:     c.AdditionalCrew,
	})
	w.CrewSize = crew
	w.DurationDays = newDur
}

// MoveTrade re-sequences a wagon to the given 1-indexed train position,
// shifting the wagons in between.
type MoveTrade struct {
	Trade       string `json:"trade"`
	NewPosition int    `json:"new_position"`
}

func (c MoveTrade) Kind() ChangeKind { return KindMoveTrade }

func (c MoveTrade) apply(plan *model.Plan, rec *recorder) {
	w := findWagon(plan, c.Trade)
	if w == nil {
		rec.warnf("move_trade: trade %q not found, skipping", c.Trade)
		return
	}
	newPos := c.NewPosition
	if newPos < 1 {
		newPos = 1
	}
	if newPos > len(plan.Wagons) {
		newPos = len(plan.Wagons)
	}
	oldPos := w.Sequence
	if newPos == oldPos {
		return
	}
	for i := range plan.Wagons {
		o := &plan.Wagons[i]
		if o.ID == w.ID {
			continue
		}
		switch {
		case oldPos < newPos && o.Sequence > oldPos && o.Sequence <= newPos:
			o.Sequence--
		case oldPos > newPos && o.Sequence >= newPos && o.Sequence < oldPos:
			o.Sequence++
		}
	}
	w.Sequence = newPos
}

// RemoveTrade deletes a wagon from the train and compacts the remaining
// sequence numbers. Removing the predecessor of a mandatory relationship is
// allowed but surfaces a warning.
type RemoveTrade struct {
	Trade string `json:"trade"`
}

func (c RemoveTrade) Kind() ChangeKind { return KindRemoveTrade }

func (c RemoveTrade) apply(plan *model.Plan, rec *recorder) {
	w := findWagon(plan, c.Trade)
	if w == nil {
		rec.warnf("remove_trade: trade %q not found, skipping", c.Trade)
		return
	}
	for _, r := range plan.Relationships {
		if r.Mandatory && (r.PredecessorID == w.ID || r.SuccessorID == w.ID) {
			rec.warnf("remove_trade: %s participates in a mandatory %s relationship (%s -> %s)",
				w.Name, r.Type, r.PredecessorID, r.SuccessorID)
		}
	}
	removedSeq := w.Sequence
	removedID := w.ID
	kept := plan.Wagons[:0]
	for _, o := range plan.Wagons {
		if o.ID == removedID {
			continue
		}
		if o.Sequence > removedSeq {
			o.Sequence--
		}
		kept = append(kept, o)
	}
	plan.Wagons = kept
}

// DelayZone inserts a fixed working-day delay before any wagon may enter the
// named zone. Delays accumulate when applied repeatedly.
type DelayZone struct {
	Zone      string `json:"zone"`
	DelayDays int    `json:"delay_days"`
}

func (c DelayZone) Kind() ChangeKind { return KindDelayZone }

func (c DelayZone) apply(plan *model.Plan, rec *recorder) {
	z := findZone(plan, c.Zone)
	if z == nil {
		rec.warnf("delay_zone: zone %q not found, skipping", c.Zone)
		return
	}
	if c.DelayDays <= 0 {
		rec.warnf("delay_zone: delay must be positive, skipping")
		return
	}
	if plan.ZoneDelays == nil {
		plan.ZoneDelays = make(map[string]int)
	}
	plan.ZoneDelays[z.ID] += c.DelayDays
}

// findWagon resolves a trade reference by wagon ID first, then by name.
func findWagon(plan *model.Plan, ref string) *model.Wagon {
	if w := plan.WagonByID(ref); w != nil {
		return w
	}
	for i := range plan.Wagons {
		if plan.Wagons[i].Name == ref {
			return &plan.Wagons[i]
		}
	}
	return nil
}

func findZone(plan *model.Plan, ref string) *model.Zone {
	if z := plan.ZoneByID(ref); z != nil {
		return z
	}
	for i := range plan.Zones {
		if plan.Zones[i].Name == ref {
			return &plan.Zones[i]
		}
	}
	return nil
}

// ChangeEnvelope is the wire form of a change: a type tag plus a parameter
// object decoded into the matching variant.
type ChangeEnvelope struct {
	Type       ChangeKind      `json:"type"`
	Parameters json.RawMessage `json:"parameters"`
}

// ParseChange decodes an envelope into its typed variant.
func ParseChange(env ChangeEnvelope) (Change, error) {
	decode := func(out Change) (Change, error) {
		if len(env.Parameters) == 0 {
			return out, nil
		}
		if err := json.Unmarshal(env.Parameters, out); err != nil {
			return nil, model.Invalidf("change %s: %v", env.Type, err)
		}
		return out, nil
	}
	switch env.Type {
	case KindChangeTaktTime:
		c, err := decode(&ChangeTaktTime{})
		return deref(c), err
	case KindAddBuffer:
		c, err := decode(&AddBuffer{})
		return deref(c), err
	case KindAddCrew:
		c, err := decode(&AddCrew{})
		return deref(c), err
	case KindMoveTrade:
		c, err := decode(&MoveTrade{})
		return deref(c), err
	case KindRemoveTrade:
		c, err := decode(&RemoveTrade{})
		return deref(c), err
	case KindDelayZone:
		c, err := decode(&DelayZone{})
		return deref(c), err
	default:
		return nil, model.Invalidf("unknown change type %q", env.Type)
	}
}

// deref unwraps the pointer variants produced during decoding so the engine
// always sees value types.
func deref(c Change) Change {
	switch v := c.(type) {
	case *ChangeTaktTime:
		return *v
	case *AddBuffer:
		return *v
	case *AddCrew:
		return *v
	case *MoveTrade:
		return *v
	case *RemoveTrade:
		return *v
	case *DelayZone:
		return *v
	default:
		return c
	}
}

// ParseChanges decodes a list of envelopes preserving order.
func ParseChanges(envs []ChangeEnvelope) ([]Change, error) {
	out := make([]Change, 0, len(envs))
	for _, e := range envs {
		c, err := ParseChange(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// sortWagons orders a plan's wagons by sequence in place.
func sortWagons(plan *model.Plan) {
	sort.Slice(plan.Wagons, func(i, j int) bool { return plan.Wagons[i].Sequence < plan.Wagons[j].Sequence })
}
