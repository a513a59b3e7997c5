package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/taktflow/taktd/core/metrics"
)

// PromSink records scheduling events in Prometheus metrics.
type PromSink struct {
	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	periods      *prometheus.GaugeVec
	critical     *prometheus.GaugeVec
	simulations  *prometheus.CounterVec
	onTime       *prometheus.GaugeVec
	scenarios    prometheus.Counter
}

// NewPromSink registers scheduling metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "takt_grid_computations_total",
		Help: "Total number of takt grid computations",
	}, []string{"plan_id"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "takt_grid_compute_seconds",
		Help:    "Time spent generating one takt grid",
		Buckets: prometheus.DefBuckets,
	}, []string{"plan_id"})
	periods := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "takt_grid_total_periods",
		Help: "Working days of the last computed schedule",
	}, []string{"plan_id"})
	critical := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "takt_critical_conflicts",
		Help: "Critical trade-stacking conflicts in the last validation",
	}, []string{"plan_id"})
	simulations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "takt_simulations_total",
		Help: "Total number of Monte Carlo runs",
	}, []string{"plan_id"})
	onTime := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "takt_simulation_on_time_probability",
		Help: "On-time probability of the last Monte Carlo run, in percent",
	}, []string{"plan_id"})
	scenarios := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "takt_scenario_evaluations_total",
		Help: "Total number of what-if scenario evaluations",
	})

	collectors := []prometheus.Collector{computations, duration, periods, critical, simulations, onTime, scenarios}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		computations: collectors[0].(*prometheus.CounterVec),
		duration:     collectors[1].(*prometheus.HistogramVec),
		periods:      collectors[2].(*prometheus.GaugeVec),
		critical:     collectors[3].(*prometheus.GaugeVec),
		simulations:  collectors[4].(*prometheus.CounterVec),
		onTime:       collectors[5].(*prometheus.GaugeVec),
		scenarios:    collectors[6].(prometheus.Counter),
	}, nil
}

// RecordCompute increments the computation counter and updates the grid gauges.
func (s *PromSink) RecordCompute(ev coremetrics.ComputeEvent) error {
	s.computations.WithLabelValues(ev.PlanID).Inc()
	s.duration.WithLabelValues(ev.PlanID).Observe(ev.Elapsed.Seconds())
	s.periods.WithLabelValues(ev.PlanID).Set(float64(ev.TotalPeriods))
	s.critical.WithLabelValues(ev.PlanID).Set(float64(ev.Critical))
	return nil
}

// RecordScenario counts what-if evaluations.
func (s *PromSink) RecordScenario(coremetrics.ScenarioEvent) error {
	s.scenarios.Inc()
	return nil
}

// RecordSimulation updates the simulation counter and on-time gauge.
func (s *PromSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	s.simulations.WithLabelValues(ev.PlanID).Inc()
	s.onTime.WithLabelValues(ev.PlanID).Set(ev.OnTimeProbability)
	return nil
}

// RecordValidation refreshes the conflict gauge from a standalone check.
func (s *PromSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	s.critical.WithLabelValues(ev.PlanID).Set(float64(ev.Critical))
	return nil
}
