package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/taktflow/taktd/core/model"
)

// loadPlan reads a plan document from a JSON file.
func loadPlan(path string) (model.Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("read plan: %w", err)
	}
	var doc struct {
		Plan model.Plan `json:"plan"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	if len(doc.Plan.Zones) == 0 && len(doc.Plan.Wagons) == 0 {
		// Allow bare plan documents without the wrapping object.
		var plan model.Plan
		if err := json.Unmarshal(raw, &plan); err != nil {
			return model.Plan{}, fmt.Errorf("parse plan: %w", err)
		}
		return plan, nil
	}
	return doc.Plan, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
