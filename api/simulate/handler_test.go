package simulate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/core/model"
	"github.com/taktflow/taktd/core/montecarlo"
	"github.com/taktflow/taktd/core/scenario"
)

type captureRecorder struct {
	scenarios []coremetrics.ScenarioEvent
	events    []coremetrics.SimulationEvent
}

func (c *captureRecorder) ScenarioEvaluated(ev coremetrics.ScenarioEvent) {
	c.scenarios = append(c.scenarios, ev)
}

func (c *captureRecorder) SimulationCompleted(ev coremetrics.SimulationEvent) {
	c.events = append(c.events, ev)
}

func apiPlan() model.Plan {
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

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestWhatIfHandler(t *testing.T) {
	rec := &captureRecorder{}
	req := whatIfRequest{
		PlanID: "p1",
		Plan:   apiPlan(),
		Changes: []scenario.ChangeEnvelope{
			{Type: scenario.KindAddBuffer, Parameters: json.RawMessage(`{"buffer_periods":1}`)},
		},
	}
	rr := postJSON(t, NewWhatIfHandler(rec, ""), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data whatIfResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Data.DeltaDays != 6 {
		t.Fatalf("expected delta 6 got %d", env.Data.DeltaDays)
	}
	if env.Data.RunID == "" {
		t.Fatal("missing run id")
	}
	if len(rec.scenarios) != 1 {
		t.Fatalf("scenario event not recorded: %+v", rec.scenarios)
	}
	if ev := rec.scenarios[0]; ev.PlanID != "p1" || ev.Changes != 1 || ev.DeltaDays != 6 {
		t.Fatalf("bad scenario event %+v", ev)
	}
}

func TestWhatIfHandlerUnknownChangeType(t *testing.T) {
	rec := &captureRecorder{}
	req := whatIfRequest{
		Plan:    apiPlan(),
		Changes: []scenario.ChangeEnvelope{{Type: "split_atom"}},
	}
	rr := postJSON(t, NewWhatIfHandler(rec, ""), req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(rec.scenarios) != 0 {
		t.Fatalf("rejected request must not record events: %+v", rec.scenarios)
	}
}

func TestMonteCarloHandler(t *testing.T) {
	rec := &captureRecorder{}
	req := monteCarloRequest{
		PlanID: "p1",
		Plan:   apiPlan(),
		Config: montecarlo.Config{Iterations: 200, VariancePct: 15, Seed: 42},
	}
	rr := postJSON(t, NewMonteCarloHandler(rec, ""), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data monteCarloResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Data.Iterations != 200 || env.Data.BaselineDays != 66 {
		t.Fatalf("bad result %+v", env.Data.Result)
	}
	if len(rec.events) != 1 || rec.events[0].Iterations != 200 {
		t.Fatalf("simulation event not recorded: %+v", rec.events)
	}
}

func TestMonteCarloHandlerRejectsBadConfig(t *testing.T) {
	req := monteCarloRequest{
		Plan:   apiPlan(),
		Config: montecarlo.Config{Iterations: 0, VariancePct: 15},
	}
	rr := postJSON(t, NewMonteCarloHandler(nil, ""), req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestCompareHandler(t *testing.T) {
	req := compareRequest{
		Plan: apiPlan(),
		Scenarios: [][]scenario.ChangeEnvelope{
			{{Type: scenario.KindAddBuffer, Parameters: json.RawMessage(`{"buffer_periods":2}`)}},
			{{Type: scenario.KindAddCrew, Parameters: json.RawMessage(`{"trade":"w1","additional_crew":4}`)}},
		},
	}
	rr := postJSON(t, NewCompareHandler(""), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data scenario.Comparison `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(env.Data.Scenarios) != 2 || env.Data.RecommendationIndex != 1 {
		t.Fatalf("bad comparison: idx=%d n=%d", env.Data.RecommendationIndex, len(env.Data.Scenarios))
	}
}
