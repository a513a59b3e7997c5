// Package relation models precedence constraints between wagons as a directed
// graph of FS/SS/FF/SF edges. Type and lag are descriptive metadata surfaced
// to callers and the conflict detector; lag never feeds grid offsets.
package relation

import (
	"fmt"
	"sort"

	"github.com/taktflow/taktd/core/model"
)

// Graph stores relationship edges keyed by wagon identifier.
type Graph struct {
	edges []model.Relationship
	pred  map[string][]model.Relationship
	succ  map[string][]model.Relationship
}

// NewGraph builds a Graph from declared relationships. Declarations are
// independent of any specific plan; references are validated when the graph
// is checked against a wagon set.
func NewGraph(rels []model.Relationship) *Graph {
	g := &Graph{
		edges: append([]model.Relationship(nil), rels...),
		pred:  make(map[string][]model.Relationship),
		succ:  make(map[string][]model.Relationship),
	}
	for _, r := range rels {
		g.pred[r.SuccessorID] = append(g.pred[r.SuccessorID], r)
		g.succ[r.PredecessorID] = append(g.succ[r.PredecessorID], r)
	}
	return g
}

// Neighbors holds the incoming and outgoing edges for one wagon.
type Neighbors struct {
	Predecessors []model.Relationship
	Successors   []model.Relationship
}

// RelationshipsFor returns the edges touching the given wagon.
func (g *Graph) RelationshipsFor(wagonID string) Neighbors {
	return Neighbors{
		Predecessors: append([]model.Relationship(nil), g.pred[wagonID]...),
		Successors:   append([]model.Relationship(nil), g.succ[wagonID]...),
	}
}

// ValidateSequence checks every edge against the wagons' train positions and
// returns one warning per violated edge: a successor sequenced at or before
// its predecessor. Advisory (non-mandatory) edges are reported at info
// severity and never critical. Unknown wagon references are reported as
// warnings rather than errors so a partially authored plan stays inspectable.
func (g *Graph) ValidateSequence(wagons []model.Wagon) []model.Warning {
	seq := make(map[string]int, len(wagons))
	name := make(map[string]string, len(wagons))
	for _, w := range wagons {
		seq[w.ID] = w.Sequence
		name[w.ID] = w.Name
	}

	var warnings []model.Warning
	for _, r := range g.edges {
		ps, pok := seq[r.PredecessorID]
		ss, sok := seq[r.SuccessorID]
		if !pok || !sok {
			warnings = append(warnings, model.Warning{
				Type:     model.WarningPredecessor,
				Severity: model.SeverityInfo,
				Message:  fmt.Sprintf("relationship %s->%s references a wagon not in this plan", r.PredecessorID, r.SuccessorID),
				WagonIDs: []string{r.PredecessorID, r.SuccessorID},
			})
			continue
		}
		if ss > ps {
			continue
		}
		sev := model.SeverityWarning
		if !r.Mandatory {
			sev = model.SeverityInfo
		}
		warnings = append(warnings, model.Warning{
			Type:     model.WarningPredecessor,
			Severity: sev,
			Message: fmt.Sprintf("%s (seq %d) must follow %s (seq %d) per %s relationship",
				name[r.SuccessorID], ss, name[r.PredecessorID], ps, r.Type),
			WagonIDs: []string{r.PredecessorID, r.SuccessorID},
			Details:  map[string]any{"lag_days": r.LagDays, "mandatory": r.Mandatory},
		})
	}
	return model.DedupWarnings(warnings)
}

// SequenceValid reports whether every mandatory edge is respected by the
// wagons' current order.
func (g *Graph) SequenceValid(wagons []model.Wagon) bool {
	for _, w := range g.ValidateSequence(wagons) {
		if mand, ok := w.Details["mandatory"].(bool); ok && mand {
			return false
		}
	}
	return true
}

// Resequence renumbers wagons 1..n according to their current relative order.
// The sort is stable so the train composition is untouched; only the sequence
// numbers are compacted. This is the correction action for precedence
// warnings caused by stale numbering.
func Resequence(wagons []model.Wagon) []model.Wagon {
	out := append([]model.Wagon(nil), wagons...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	for i := range out {
		out[i].Sequence = i + 1
	}
	return out
}
