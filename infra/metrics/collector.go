package metrics

import (
	"context"

	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/internal/eventbus"
)

// Buses groups the scheduling event buses the collector drains. Nil buses are
// skipped.
type Buses struct {
	Computes    *eventbus.TypedBus[coremetrics.ComputeEvent]
	Scenarios   *eventbus.TypedBus[coremetrics.ScenarioEvent]
	Simulations *eventbus.TypedBus[coremetrics.SimulationEvent]
	Validations *eventbus.TypedBus[coremetrics.ValidationEvent]
}

// StartEventCollector subscribes to the scheduling event buses and records
// every event on the sink. Events whose recorder interface the sink does not
// implement are dropped. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, buses Buses, sink coremetrics.MetricsSink) {
	if sink == nil {
		return
	}
	collect(ctx, buses.Computes, func(ev coremetrics.ComputeEvent) {
		_ = sink.RecordCompute(ev)
	})
	collect(ctx, buses.Scenarios, func(ev coremetrics.ScenarioEvent) {
		if r, ok := sink.(coremetrics.ScenarioRecorder); ok {
			_ = r.RecordScenario(ev)
		}
	})
	collect(ctx, buses.Simulations, func(ev coremetrics.SimulationEvent) {
		if r, ok := sink.(coremetrics.SimulationRecorder); ok {
			_ = r.RecordSimulation(ev)
		}
	})
	collect(ctx, buses.Validations, func(ev coremetrics.ValidationEvent) {
		if r, ok := sink.(coremetrics.ValidationRecorder); ok {
			_ = r.RecordValidation(ev)
		}
	})
}

func collect[T any](ctx context.Context, bus *eventbus.TypedBus[T], record func(T)) {
	if bus == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(ev)
			}
		}
	}()
}
