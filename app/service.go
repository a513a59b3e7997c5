package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apisimulate "github.com/taktflow/taktd/api/simulate"
	apitakt "github.com/taktflow/taktd/api/takt"
	apitrades "github.com/taktflow/taktd/api/trades"
	"github.com/taktflow/taktd/config"
	"github.com/taktflow/taktd/core/catalog"
	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/infra/logger"
	"github.com/taktflow/taktd/infra/metrics"
	"github.com/taktflow/taktd/infra/notify"
	"github.com/taktflow/taktd/internal/eventbus"
)

// Service wires the scheduling engines, the HTTP API, the metrics sinks and
// the MQTT notifier together.
type Service struct {
	mux         *http.ServeMux
	addr        string
	promPort    string
	sink        coremetrics.MetricsSink
	notifier    notify.Notifier
	computes    *eventbus.TypedBus[coremetrics.ComputeEvent]
	scenarios   *eventbus.TypedBus[coremetrics.ScenarioEvent]
	sims        *eventbus.TypedBus[coremetrics.SimulationEvent]
	validations *eventbus.TypedBus[coremetrics.ValidationEvent]
	log         logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	svc := &Service{
		addr:        cfg.API.Addr,
		promPort:    cfg.Metrics.PrometheusPort,
		sink:        sink,
		notifier:    notifier,
		computes:    eventbus.NewTyped[coremetrics.ComputeEvent](),
		scenarios:   eventbus.NewTyped[coremetrics.ScenarioEvent](),
		sims:        eventbus.NewTyped[coremetrics.SimulationEvent](),
		validations: eventbus.NewTyped[coremetrics.ValidationEvent](),
		log:         logg,
	}

	token := cfg.API.Token
	mux := http.NewServeMux()
	mux.Handle("/api/takt/grid", apitakt.NewGridHandler(svc, token))
	mux.Handle("/api/takt/validate", apitakt.NewValidateHandler(svc, token))
	mux.Handle("/api/takt/flowline", apitakt.NewFlowlineHandler(token))
	mux.Handle("/api/simulate/what-if", apisimulate.NewWhatIfHandler(svc, token))
	mux.Handle("/api/simulate/monte-carlo", apisimulate.NewMonteCarloHandler(svc, token))
	mux.Handle("/api/simulate/compare", apisimulate.NewCompareHandler(token))
	if cfg.Catalog.Path != "" {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		mux.Handle("/api/trades", apitrades.NewListHandler(cat, token))
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":{"status":"ok"}}`)); err != nil {
			logg.Errorf("health response: %v", err)
		}
	})
	svc.mux = mux
	return svc, nil
}

// PlanComputed fans a grid computation out to the event bus and the notifier.
func (s *Service) PlanComputed(ev coremetrics.ComputeEvent) {
	s.computes.Publish(ev)
	if err := s.notifier.PlanComputed(ev); err != nil {
		s.log.Errorf("notify plan computed: %v", err)
	}
}

// SimulationCompleted fans a Monte Carlo result out to the event bus and the notifier.
func (s *Service) SimulationCompleted(ev coremetrics.SimulationEvent) {
	s.sims.Publish(ev)
	if err := s.notifier.SimulationCompleted(ev); err != nil {
		s.log.Errorf("notify simulation completed: %v", err)
	}
}

// ScenarioEvaluated publishes a what-if evaluation to the event bus.
func (s *Service) ScenarioEvaluated(ev coremetrics.ScenarioEvent) {
	s.scenarios.Publish(ev)
}

// PlanValidated publishes a standalone conflict check to the event bus.
func (s *Service) PlanValidated(ev coremetrics.ValidationEvent) {
	s.validations.Publish(ev)
}

// Handler exposes the API routes, mainly for tests.
func (s *Service) Handler() http.Handler { return s.mux }

// Run starts the servers and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, metrics.Buses{
		Computes:    s.computes,
		Scenarios:   s.scenarios,
		Simulations: s.sims,
		Validations: s.validations,
	}, s.sink)
	if s.promPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("API listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.notifier.Close()
	s.computes.Close()
	s.scenarios.Close()
	s.sims.Close()
	s.validations.Close()
	return nil
}
