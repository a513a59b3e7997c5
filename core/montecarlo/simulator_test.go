package montecarlo

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/taktflow/taktd/core/model"
)

func simPlan() model.Plan {
	p := model.Plan{TaktTime: 5, StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	for i := 0; i < 6; i++ {
		p.Zones = append(p.Zones, model.Zone{ID: fmt.Sprintf("z%d", i+1), Name: fmt.Sprintf("Zone %d", i+1), Sequence: i + 1})
	}
	for i := 0; i < 7; i++ {
		buf := 1
		if i == 6 {
			buf = 0
		}
		p.Wagons = append(p.Wagons, model.Wagon{
			ID: fmt.Sprintf("w%d", i+1), Name: fmt.Sprintf("Trade %d", i+1),
			Sequence: i + 1, DurationDays: 5, BufferAfterDays: buf, CrewSize: 4,
		})
	}
	return p
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := Config{Iterations: 1000, VariancePct: 15, Seed: 42}
	r1, err := Run(simPlan(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r2, err := Run(simPlan(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("same seed produced different results")
	}
}

func TestRunParallelismDoesNotChangeResult(t *testing.T) {
	plan := simPlan()
	serial, err := Run(plan, Config{Iterations: 200, VariancePct: 20, Seed: 7, Workers: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	parallel, err := Run(plan, Config{Iterations: 200, VariancePct: 20, Seed: 7, Workers: 8})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("worker count changed the result")
	}
}

func TestPercentilesOrdered(t *testing.T) {
	r, err := Run(simPlan(), Config{Iterations: 500, VariancePct: 25, Seed: 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !(r.P50Days <= r.P80Days && r.P80Days <= r.P95Days) {
		t.Fatalf("percentiles out of order: %d %d %d", r.P50Days, r.P80Days, r.P95Days)
	}
	if r.P50EndDate.After(r.P80EndDate) || r.P80EndDate.After(r.P95EndDate) {
		t.Fatalf("percentile dates out of order")
	}
	if r.OnTimeProbability < 0 || r.OnTimeProbability > 100 {
		t.Fatalf("on-time probability out of range: %f", r.OnTimeProbability)
	}
}

func TestZeroVarianceMatchesBaseline(t *testing.T) {
	r, err := Run(simPlan(), Config{Iterations: 50, VariancePct: 0, Seed: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.P50Days != r.BaselineDays || r.P95Days != r.BaselineDays {
		t.Fatalf("zero variance should reproduce the baseline: %+v", r)
	}
	if r.OnTimeProbability != 100 {
		t.Fatalf("every trial should be on time, got %f", r.OnTimeProbability)
	}
	if r.StdDevDays != 0 {
		t.Fatalf("expected zero deviation got %f", r.StdDevDays)
	}
	if len(r.Histogram) != 1 || r.Histogram[0].Count != 50 {
		t.Fatalf("degenerate histogram expected, got %+v", r.Histogram)
	}
}

func TestHistogramCoversAllTrials(t *testing.T) {
	r, err := Run(simPlan(), Config{Iterations: 300, VariancePct: 30, Seed: 11, HistogramBins: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(r.Histogram) != 10 && len(r.Histogram) != 1 {
		t.Fatalf("expected 10 bins got %d", len(r.Histogram))
	}
	total := 0
	freq := 0.0
	for _, b := range r.Histogram {
		total += b.Count
		freq += b.Frequency
	}
	if total != 300 {
		t.Fatalf("histogram dropped trials: %d", total)
	}
	if freq < 0.999 || freq > 1.001 {
		t.Fatalf("frequencies should sum to 1, got %f", freq)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []Config{
		{Iterations: 0, VariancePct: 10},
		{Iterations: -5, VariancePct: 10},
		{Iterations: 10, VariancePct: -1},
		{Iterations: 10, VariancePct: 200},
		{Iterations: 10, VariancePct: 10, HistogramBins: -1},
	}
	for _, cfg := range cases {
		if _, err := Run(simPlan(), cfg); !model.IsSimulationConfig(err) {
			t.Fatalf("config %+v: expected SimulationConfigError got %v", cfg, err)
		}
	}
}

func TestInvalidPlanRejectedBeforeTrials(t *testing.T) {
	plan := simPlan()
	plan.TaktTime = 0
	if _, err := Run(plan, Config{Iterations: 10, VariancePct: 10}); !model.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput got %v", err)
	}
}
