// Package catalog holds reusable trade templates. A template captures how a
// trade is usually staffed and paced so plans can be assembled from codes
// ("GYP", "ELEC") instead of hand-written wagon structs.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/taktflow/taktd/core/model"
)

// Template describes the defaults for one trade.
type Template struct {
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	Discipline          string   `json:"discipline"`
	Color               string   `json:"color"`
	DefaultDurationDays int      `json:"default_duration_days"`
	DefaultCrewSize     int      `json:"default_crew_size"`
	DefaultCostPerDay   float64  `json:"default_cost_per_day"`
	Predecessors        []string `json:"predecessors"`
}

// Catalog is an immutable set of templates keyed by code.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// New builds a catalog from templates, rejecting duplicates and blank codes.
func New(templates []Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.Code == "" {
			return nil, model.Invalidf("trade template without code")
		}
		if _, ok := c.templates[t.Code]; ok {
			return nil, model.Invalidf("duplicate trade template %q", t.Code)
		}
		c.templates[t.Code] = t
		c.order = append(c.order, t.Code)
	}
	for _, t := range templates {
		for _, pred := range t.Predecessors {
			if _, ok := c.templates[pred]; !ok {
				return nil, model.Invalidf("template %q references unknown predecessor %q", t.Code, pred)
			}
		}
	}
	return c, nil
}

// Load reads a catalog file. YAML and JSON are supported, keyed on "trades".
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	var templates []Template
	if err := k.UnmarshalWithConf("trades", &templates, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	return New(templates)
}

// Template returns the template for code.
func (c *Catalog) Template(code string) (Template, bool) {
	t, ok := c.templates[code]
	return t, ok
}

// Codes lists the template codes in file order.
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.order...)
}

// Instantiate builds a wagon from the template at the given train position.
// The wagon gets a fresh ID so one template can appear in several plans.
func (c *Catalog) Instantiate(code string, sequence int) (model.Wagon, error) {
	t, ok := c.templates[code]
	if !ok {
		return model.Wagon{}, model.Invalidf("unknown trade template %q", code)
	}
	dur := t.DefaultDurationDays
	if dur <= 0 {
		dur = 0 // filled from the plan takt by Train
	}
	return model.Wagon{
		ID:           uuid.NewString(),
		Name:         t.Name,
		Sequence:     sequence,
		DurationDays: dur,
		CrewSize:     t.DefaultCrewSize,
		CostPerDay:   t.DefaultCostPerDay,
		Group:        t.Discipline,
	}, nil
}

// Train instantiates the listed codes as a wagon train with the given takt and
// buffer, deriving finish-to-start relationships from template predecessors.
// Templates without an explicit duration inherit the takt time.
func (c *Catalog) Train(codes []string, taktTime, bufferDays int) ([]model.Wagon, []model.Relationship, error) {
	if taktTime <= 0 {
		return nil, nil, model.Invalidf("takt time must be positive, got %d", taktTime)
	}
	wagons := make([]model.Wagon, 0, len(codes))
	byCode := make(map[string]string, len(codes))
	for i, code := range codes {
		w, err := c.Instantiate(code, i+1)
		if err != nil {
			return nil, nil, err
		}
		if w.DurationDays == 0 {
			w.DurationDays = taktTime
		}
		if i < len(codes)-1 {
			w.BufferAfterDays = bufferDays
		}
		wagons = append(wagons, w)
		byCode[code] = w.ID
	}

	var rels []model.Relationship
	for _, code := range codes {
		t := c.templates[code]
		for _, pred := range t.Predecessors {
			predID, ok := byCode[pred]
			if !ok {
				continue // predecessor trade not part of this train
			}
			rels = append(rels, model.Relationship{
				PredecessorID: predID,
				SuccessorID:   byCode[code],
				Type:          model.FinishToStart,
				Mandatory:     true,
			})
		}
	}
	return wagons, rels, nil
}
