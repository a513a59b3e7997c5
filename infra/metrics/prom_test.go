package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/taktflow/taktd/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	ps := sink.(*PromSink)

	ev := coremetrics.ComputeEvent{
		PlanID: "p1", Zones: 6, Wagons: 7, TotalPeriods: 66,
		Critical: 2, Elapsed: 5 * time.Millisecond, Time: time.Now(),
	}
	if err := ps.RecordCompute(ev); err != nil {
		t.Fatalf("record compute: %v", err)
	}
	if got := testutil.ToFloat64(ps.computations.WithLabelValues("p1")); got != 1 {
		t.Fatalf("expected 1 computation, got %f", got)
	}
	if got := testutil.ToFloat64(ps.periods.WithLabelValues("p1")); got != 66 {
		t.Fatalf("expected 66 periods, got %f", got)
	}
	if got := testutil.ToFloat64(ps.critical.WithLabelValues("p1")); got != 2 {
		t.Fatalf("expected 2 critical, got %f", got)
	}

	if err := ps.RecordSimulation(coremetrics.SimulationEvent{PlanID: "p1", OnTimeProbability: 87.5}); err != nil {
		t.Fatalf("record simulation: %v", err)
	}
	if got := testutil.ToFloat64(ps.onTime.WithLabelValues("p1")); got != 87.5 {
		t.Fatalf("expected 87.5, got %f", got)
	}

	if err := ps.RecordScenario(coremetrics.ScenarioEvent{PlanID: "p1", Changes: 2}); err != nil {
		t.Fatalf("record scenario: %v", err)
	}
	if got := testutil.ToFloat64(ps.scenarios); got != 1 {
		t.Fatalf("expected 1 scenario evaluation, got %f", got)
	}

	if err := ps.RecordValidation(coremetrics.ValidationEvent{PlanID: "p1", Critical: 3}); err != nil {
		t.Fatalf("record validation: %v", err)
	}
	if got := testutil.ToFloat64(ps.critical.WithLabelValues("p1")); got != 3 {
		t.Fatalf("expected 3 critical after validation, got %f", got)
	}
}

// Registering twice against the same registry must reuse collectors.
func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
