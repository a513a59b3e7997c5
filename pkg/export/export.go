// Package export renders computed takt grids in interchange formats for
// spreadsheets and downstream planning tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/taktflow/taktd/core/model"
)

// WriteJSON writes the assignments to w in JSON format.
func WriteJSON(w io.Writer, assignments []model.Assignment) error {
	enc := json.NewEncoder(w)
	return enc.Encode(assignments)
}

// WriteCSV writes the assignments to w in CSV format.
func WriteCSV(w io.Writer, assignments []model.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wagon_id", "zone_id", "period", "duration_days", "planned_start", "planned_end"}); err != nil {
		return err
	}
	for _, a := range assignments {
		rec := []string{
			a.WagonID,
			a.ZoneID,
			strconv.Itoa(a.PeriodNumber),
			strconv.Itoa(a.DurationDays),
			a.PlannedStart.Format(time.DateOnly),
			a.PlannedEnd.Format(time.DateOnly),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
