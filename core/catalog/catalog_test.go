package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taktflow/taktd/core/model"
)

const catalogYAML = `trades:
  - code: DEMO
    name: Demolition
    discipline: structure
    default_duration_days: 3
    default_crew_size: 5
  - code: FRAME
    name: Framing
    discipline: structure
    default_crew_size: 6
    predecessors: [DEMO]
  - code: ELEC
    name: Electrical rough-in
    discipline: mep
    default_cost_per_day: 1800
    predecessors: [FRAME]
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Codes(); len(got) != 3 || got[0] != "DEMO" {
		t.Fatalf("bad codes %v", got)
	}
	tpl, ok := c.Template("ELEC")
	if !ok || tpl.Discipline != "mep" || tpl.DefaultCostPerDay != 1800 {
		t.Fatalf("bad template %+v", tpl)
	}
}

func TestLoadRejectsUnknownPredecessor(t *testing.T) {
	bad := "trades:\n  - code: A\n    predecessors: [GHOST]\n"
	if _, err := Load(writeCatalog(t, bad)); !model.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestInstantiateUniqueIDs(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w1, err := c.Instantiate("DEMO", 1)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	w2, err := c.Instantiate("DEMO", 2)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if w1.ID == w2.ID {
		t.Fatal("instances must not share IDs")
	}
	if w1.DurationDays != 3 || w1.CrewSize != 5 || w1.Group != "structure" {
		t.Fatalf("defaults not applied: %+v", w1)
	}
	if _, err := c.Instantiate("GHOST", 1); !model.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestTrainBuildsRelationships(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wagons, rels, err := c.Train([]string{"DEMO", "FRAME", "ELEC"}, 5, 1)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if len(wagons) != 3 {
		t.Fatalf("expected 3 wagons got %d", len(wagons))
	}
	// FRAME has no explicit duration and inherits the takt.
	if wagons[1].DurationDays != 5 {
		t.Fatalf("takt not inherited: %+v", wagons[1])
	}
	// Last wagon carries no trailing buffer.
	if wagons[0].BufferAfterDays != 1 || wagons[2].BufferAfterDays != 0 {
		t.Fatalf("bad buffers %+v", wagons)
	}
	if len(rels) != 2 {
		t.Fatalf("expected 2 relationships got %d", len(rels))
	}
	for _, r := range rels {
		if r.Type != model.FinishToStart || !r.Mandatory {
			t.Fatalf("bad relationship %+v", r)
		}
	}
}

func TestTrainSkipsAbsentPredecessors(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// ELEC depends on FRAME which is not in the train: no relationship.
	_, rels, err := c.Train([]string{"DEMO", "ELEC"}, 5, 0)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if len(rels) != 0 {
		t.Fatalf("expected no relationships, got %v", rels)
	}
}
