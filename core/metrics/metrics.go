package metrics

import "time"

// ComputeEvent captures one takt grid computation.
type ComputeEvent struct {
	PlanID       string
	Zones        int
	Wagons       int
	TotalPeriods int
	Warnings     int
	Critical     int
	Elapsed      time.Duration
	Time         time.Time
}

// MetricsSink records grid computations for observability purposes.
type MetricsSink interface {
	RecordCompute(ev ComputeEvent) error
}

// ScenarioEvent captures a what-if evaluation against a base plan.
type ScenarioEvent struct {
	PlanID       string
	Changes      int
	DeltaDays    int
	NewConflicts int
	CostImpact   float64
	Time         time.Time
}

// ScenarioRecorder records what-if scenario evaluations.
type ScenarioRecorder interface {
	RecordScenario(ev ScenarioEvent) error
}

// SimulationEvent captures a completed Monte Carlo run.
type SimulationEvent struct {
	PlanID            string
	Iterations        int
	VariancePct       float64
	P50Days           int
	P95Days           int
	OnTimeProbability float64
	Elapsed           time.Duration
	Time              time.Time
}

// SimulationRecorder records Monte Carlo simulation runs.
type SimulationRecorder interface {
	RecordSimulation(ev SimulationEvent) error
}

// ValidationEvent is a snapshot of a standalone conflict check.
type ValidationEvent struct {
	PlanID   string
	Warnings int
	Critical int
	Time     time.Time
}

// ValidationRecorder records conflict validation passes.
type ValidationRecorder interface {
	RecordValidation(ev ValidationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCompute(ComputeEvent) error       { return nil }
func (NopSink) RecordScenario(ScenarioEvent) error     { return nil }
func (NopSink) RecordSimulation(SimulationEvent) error { return nil }
func (NopSink) RecordValidation(ValidationEvent) error { return nil }
