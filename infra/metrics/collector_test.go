package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/internal/eventbus"
)

type captureSink struct {
	mu          sync.Mutex
	computes    int
	scenarios   int
	sims        int
	validations int
}

func (c *captureSink) RecordCompute(coremetrics.ComputeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.computes++
	return nil
}

func (c *captureSink) RecordScenario(coremetrics.ScenarioEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenarios++
	return nil
}

func (c *captureSink) RecordSimulation(coremetrics.SimulationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sims++
	return nil
}

func (c *captureSink) RecordValidation(coremetrics.ValidationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validations++
	return nil
}

func (c *captureSink) counts() [4]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [4]int{c.computes, c.scenarios, c.sims, c.validations}
}

func TestEventCollectorForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buses := Buses{
		Computes:    eventbus.NewTyped[coremetrics.ComputeEvent](),
		Scenarios:   eventbus.NewTyped[coremetrics.ScenarioEvent](),
		Simulations: eventbus.NewTyped[coremetrics.SimulationEvent](),
		Validations: eventbus.NewTyped[coremetrics.ValidationEvent](),
	}
	sink := &captureSink{}
	StartEventCollector(ctx, buses, sink)

	// Give the subscribers time to attach before publishing.
	time.Sleep(10 * time.Millisecond)
	buses.Computes.Publish(coremetrics.ComputeEvent{PlanID: "p1"})
	buses.Scenarios.Publish(coremetrics.ScenarioEvent{PlanID: "p1"})
	buses.Simulations.Publish(coremetrics.SimulationEvent{PlanID: "p1"})
	buses.Validations.Publish(coremetrics.ValidationEvent{PlanID: "p1"})

	want := [4]int{1, 1, 1, 1}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sink.counts() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("events not collected: %v", sink.counts())
}

// A sink implementing only MetricsSink must still receive compute events when
// all buses are wired.
func TestEventCollectorComputeOnlySink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buses := Buses{
		Computes:  eventbus.NewTyped[coremetrics.ComputeEvent](),
		Scenarios: eventbus.NewTyped[coremetrics.ScenarioEvent](),
	}
	var mu sync.Mutex
	computes := 0
	sink := computeFunc(func(coremetrics.ComputeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		computes++
		return nil
	})
	StartEventCollector(ctx, buses, sink)

	time.Sleep(10 * time.Millisecond)
	buses.Computes.Publish(coremetrics.ComputeEvent{PlanID: "p1"})
	buses.Scenarios.Publish(coremetrics.ScenarioEvent{PlanID: "p1"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := computes
		mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("compute event not collected")
}

type computeFunc func(coremetrics.ComputeEvent) error

func (f computeFunc) RecordCompute(ev coremetrics.ComputeEvent) error { return f(ev) }
