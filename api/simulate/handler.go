// Package simulate exposes the what-if and Monte Carlo engines over HTTP.
package simulate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taktflow/taktd/api"
	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/montecarlo"
	"github.com/taktflow/taktd/core/scenario"
)

// Recorder receives scenario and simulation events for observability.
type Recorder interface {
	ScenarioEvaluated(ev coremetrics.ScenarioEvent)
	SimulationCompleted(ev coremetrics.SimulationEvent)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) ScenarioEvaluated(coremetrics.ScenarioEvent)     {}
func (NopRecorder) SimulationCompleted(coremetrics.SimulationEvent) {}

type whatIfRequest struct {
	PlanID  string                    `json:"plan_id"`
	Plan    model.Plan                `json:"plan"`
	Changes []scenario.ChangeEnvelope `json:"changes"`
}

type whatIfResponse struct {
	RunID string `json:"run_id"`
	scenario.Result
}

// NewWhatIfHandler returns an HTTP handler evaluating change lists via
// POST /api/simulate/what-if.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewWhatIfHandler(rec Recorder, token string) http.Handler {
	if rec == nil {
		rec = NopRecorder{}
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req whatIfRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		changes, err := scenario.ParseChanges(req.Changes)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		res, err := scenario.RunWhatIf(req.Plan, changes)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		rec.ScenarioEvaluated(coremetrics.ScenarioEvent{
			PlanID:       req.PlanID,
			Changes:      len(changes),
			DeltaDays:    res.DeltaDays,
			NewConflicts: res.NewConflicts,
			CostImpact:   res.CostImpact,
			Time:         time.Now(),
		})
		api.WriteData(w, whatIfResponse{RunID: uuid.NewString(), Result: res})
	})
	return api.RequireBearer(token, api.PostOnly(h))
}

type monteCarloRequest struct {
	PlanID string            `json:"plan_id"`
	Plan   model.Plan        `json:"plan"`
	Config montecarlo.Config `json:"config"`
}

type monteCarloResponse struct {
	RunID string `json:"run_id"`
	montecarlo.Result
}

// NewMonteCarloHandler returns an HTTP handler running risk simulations via
// POST /api/simulate/monte-carlo.
func NewMonteCarloHandler(rec Recorder, token string) http.Handler {
	if rec == nil {
		rec = NopRecorder{}
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req monteCarloRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		started := time.Now()
		res, err := montecarlo.Run(req.Plan, req.Config)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		rec.SimulationCompleted(coremetrics.SimulationEvent{
			PlanID:            req.PlanID,
			Iterations:        res.Iterations,
			VariancePct:       req.Config.VariancePct,
			P50Days:           res.P50Days,
			P95Days:           res.P95Days,
			OnTimeProbability: res.OnTimeProbability,
			Elapsed:           time.Since(started),
			Time:              time.Now(),
		})
		api.WriteData(w, monteCarloResponse{RunID: uuid.NewString(), Result: res})
	})
	return api.RequireBearer(token, api.PostOnly(h))
}

type compareRequest struct {
	PlanID    string                      `json:"plan_id"`
	Plan      model.Plan                  `json:"plan"`
	Scenarios [][]scenario.ChangeEnvelope `json:"scenarios"`
}

// NewCompareHandler returns an HTTP handler ranking scenarios via
// POST /api/simulate/compare.
func NewCompareHandler(token string) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		parsed := make([][]scenario.Change, len(req.Scenarios))
		for i, envs := range req.Scenarios {
			changes, err := scenario.ParseChanges(envs)
			if err != nil {
				api.WriteError(w, err)
				return
			}
			parsed[i] = changes
		}
		cmp, err := scenario.Compare(req.Plan, parsed)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		api.WriteData(w, cmp)
	})
	return api.RequireBearer(token, api.PostOnly(h))
}
