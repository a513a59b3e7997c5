package model

import (
	"fmt"
	"sort"
	"strings"
)

// WarningType classifies a detected schedule defect.
type WarningType string

const (
	WarningStacking    WarningType = "stacking"
	WarningBuffer      WarningType = "buffer"
	WarningPredecessor WarningType = "predecessor"
)

// Severity ranks a warning. Stacking two crews in one zone is always critical;
// advisory relationship edges never exceed SeverityWarning.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Warning is a derived, stateless finding recomputed on every grid change.
type Warning struct {
	Type     WarningType    `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	WagonIDs []string       `json:"wagon_ids,omitempty"`
	ZoneID   string         `json:"zone_id,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// Key is the deduplication key: type plus the wagon pair (order-insensitive)
// plus the zone.
func (w Warning) Key() string {
	ids := append([]string(nil), w.WagonIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("%s|%s|%s", w.Type, strings.Join(ids, ","), w.ZoneID)
}

// DedupWarnings drops duplicate warnings, keeping the first occurrence.
func DedupWarnings(ws []Warning) []Warning {
	seen := make(map[string]struct{}, len(ws))
	out := ws[:0:0]
	for _, w := range ws {
		k := w.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, w)
	}
	return out
}
