// Package takt exposes the grid engine over HTTP: computing grids, validating
// plans and rendering flowline data.
package takt

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taktflow/taktd/api"
	"github.com/taktflow/taktd/core/conflict"
	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/core/model"
	coretakt "github.com/taktflow/taktd/core/takt"
)

// Recorder receives computation and validation events for observability. The
// app wires it to the event bus and the MQTT notifier.
type Recorder interface {
	PlanComputed(ev coremetrics.ComputeEvent)
	PlanValidated(ev coremetrics.ValidationEvent)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) PlanComputed(coremetrics.ComputeEvent)     {}
func (NopRecorder) PlanValidated(coremetrics.ValidationEvent) {}

type planRequest struct {
	PlanID string     `json:"plan_id"`
	Plan   model.Plan `json:"plan"`
}

type gridResponse struct {
	RunID        string             `json:"run_id"`
	PlanID       string             `json:"plan_id,omitempty"`
	Assignments  []model.Assignment `json:"assignments"`
	TotalPeriods int                `json:"total_periods"`
	EndDate      time.Time          `json:"end_date"`
	Warnings     []model.Warning    `json:"warnings"`
	Summary      coretakt.Summary   `json:"summary"`
}

// NewGridHandler returns an HTTP handler computing grids via POST /api/takt/grid.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewGridHandler(rec Recorder, token string) http.Handler {
	if rec == nil {
		rec = NopRecorder{}
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		started := time.Now()
		assignments, total, err := coretakt.Generate(req.Plan)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		warnings := conflict.Detect(req.Plan, assignments)
		counts := conflict.CountBySeverity(warnings)
		rec.PlanComputed(coremetrics.ComputeEvent{
			PlanID:       req.PlanID,
			Zones:        len(req.Plan.Zones),
			Wagons:       len(req.Plan.Wagons),
			TotalPeriods: total,
			Warnings:     len(warnings),
			Critical:     counts[model.SeverityCritical],
			Elapsed:      time.Since(started),
			Time:         time.Now(),
		})
		api.WriteData(w, gridResponse{
			RunID:        uuid.NewString(),
			PlanID:       req.PlanID,
			Assignments:  assignments,
			TotalPeriods: total,
			EndDate:      coretakt.EndDate(req.Plan, total),
			Warnings:     warnings,
			Summary:      coretakt.Summarize(req.Plan, total),
		})
	})
	return api.RequireBearer(token, api.PostOnly(h))
}

type validateResponse struct {
	Valid    bool                   `json:"valid"`
	Warnings []model.Warning        `json:"warnings"`
	Counts   map[model.Severity]int `json:"counts"`
}

// NewValidateHandler returns an HTTP handler checking plans via POST /api/takt/validate.
// Validity means the plan has no critical conflicts; advisory warnings are listed alongside.
func NewValidateHandler(rec Recorder, token string) http.Handler {
	if rec == nil {
		rec = NopRecorder{}
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		assignments, _, err := coretakt.Generate(req.Plan)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		warnings := conflict.Detect(req.Plan, assignments)
		counts := conflict.CountBySeverity(warnings)
		rec.PlanValidated(coremetrics.ValidationEvent{
			PlanID:   req.PlanID,
			Warnings: len(warnings),
			Critical: counts[model.SeverityCritical],
			Time:     time.Now(),
		})
		api.WriteData(w, validateResponse{
			Valid:    counts[model.SeverityCritical] == 0,
			Warnings: warnings,
			Counts:   counts,
		})
	})
	return api.RequireBearer(token, api.PostOnly(h))
}

// NewFlowlineHandler returns an HTTP handler producing line-of-balance data
// via POST /api/takt/flowline.
func NewFlowlineHandler(token string) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, model.Invalidf("decode request: %v", err))
			return
		}
		assignments, _, err := coretakt.Generate(req.Plan)
		if err != nil {
			api.WriteError(w, err)
			return
		}
		api.WriteData(w, coretakt.Flowline(req.Plan, assignments))
	})
	return api.RequireBearer(token, api.PostOnly(h))
}
