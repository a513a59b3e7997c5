package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/infra/logger"
)

// InfluxSink writes scheduling events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordCompute writes the grid computation as a line protocol event.
func (s *InfluxSink) RecordCompute(ev coremetrics.ComputeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("grid_computed").
		AddTag("plan_id", ev.PlanID).
		AddTag("component", "takt_engine").
		AddField("zones", ev.Zones).
		AddField("wagons", ev.Wagons).
		AddField("total_periods", ev.TotalPeriods).
		AddField("warnings", ev.Warnings).
		AddField("critical", ev.Critical).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordScenario writes a what-if evaluation.
func (s *InfluxSink) RecordScenario(ev coremetrics.ScenarioEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scenario_evaluated").
		AddTag("plan_id", ev.PlanID).
		AddTag("component", "scenario_engine").
		AddTag("delta_sign", deltaSign(ev.DeltaDays)).
		AddField("changes", ev.Changes).
		AddField("delta_days", ev.DeltaDays).
		AddField("new_conflicts", ev.NewConflicts).
		AddField("cost_impact", round3(ev.CostImpact)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSimulation writes a completed Monte Carlo run.
func (s *InfluxSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("simulation_completed").
		AddTag("plan_id", ev.PlanID).
		AddTag("component", "montecarlo").
		AddTag("iterations", strconv.Itoa(ev.Iterations)).
		AddField("variance_pct", round3(ev.VariancePct)).
		AddField("p50_days", ev.P50Days).
		AddField("p95_days", ev.P95Days).
		AddField("on_time_probability", round3(ev.OnTimeProbability)).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordValidation writes a standalone conflict check.
func (s *InfluxSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_validated").
		AddTag("plan_id", ev.PlanID).
		AddTag("component", "conflict_detector").
		AddField("warnings", ev.Warnings).
		AddField("critical", ev.Critical).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func deltaSign(d int) string {
	switch {
	case d < 0:
		return "shorter"
	case d > 0:
		return "longer"
	default:
		return "unchanged"
	}
}
