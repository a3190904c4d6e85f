package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/pkg/metrics"
)

// WriteObservationsCSV writes one row per observation after a header row.
// Teacher names come from the current roster.
func WriteObservationsCSV(w io.Writer, obs []model.Observation, teachers []model.Teacher) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	names := teacherNames(teachers)
	rc := ratingColumns()
	record := make([]string, len(baseColumns)+len(rc))
	for _, o := range obs {
		for i, v := range values(o, names, rc) {
			record[i] = text(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", o.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	metrics.RecordDocumentExport("csv")
	return nil
}
