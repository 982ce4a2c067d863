package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rentsim/rentsim/sim/survey"
)

// summaryColumns returns the CSV header for one level's rows.
func summaryColumns(hideMOE bool) []string {
	cols := []string{"geography"}
	for _, c := range metrics() {
		cols = append(cols, c.name)
		if !hideMOE {
			cols = append(cols, c.name+"_moe")
		}
	}
	return cols
}

// ExportCSV writes one level's averaged rows to path, full float precision.
func ExportCSV(path string, sum survey.Summary, hideMOE bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryColumns(hideMOE)); err != nil {
		return fmt.Errorf("writing %s header: %w", path, err)
	}
	cols := metrics()
	for i := range sum.Rows {
		r := &sum.Rows[i]
		rec := make([]string, 0, 1+2*len(cols))
		rec = append(rec, r.Geography)
		for _, c := range cols {
			e := c.get(r)
			rec = append(rec, formatFloat(e.Value))
			if !hideMOE {
				rec = append(rec, formatFloat(e.MOE))
			}
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing %s row %q: %w", path, r.Geography, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
