package survey

import (
	"fmt"

	"github.com/rentsim/rentsim/sim/trial"
)

// AverageSummaries reduces per-trial summaries to their arithmetic mean,
// element-wise over every geography and metric. Point estimates and margins
// of error average independently. The geography rows come from the immutable
// dataset, so every trial must produce the same rows; a mismatch is a bug
// upstream, not a data condition.
func AverageSummaries(trials []Summary) (Summary, error) {
	if len(trials) == 0 {
		return Summary{}, fmt.Errorf("no trial summaries to average")
	}
	first := trials[0]
	out := Summary{Level: first.Level, Rows: make([]Row, len(first.Rows))}
	for i := range first.Rows {
		out.Rows[i].Geography = first.Rows[i].Geography
	}

	f := 1 / float64(len(trials))
	for t := range trials {
		s := &trials[t]
		if s.Level != first.Level {
			return Summary{}, fmt.Errorf("trial %d summary is for level %q, expected %q", t, s.Level, first.Level)
		}
		if len(s.Rows) != len(first.Rows) {
			return Summary{}, fmt.Errorf("trial %d summary has %d %s rows, expected %d", t, len(s.Rows), s.Level, len(first.Rows))
		}
		for i := range s.Rows {
			r := &s.Rows[i]
			dst := &out.Rows[i]
			if r.Geography != dst.Geography {
				return Summary{}, fmt.Errorf("trial %d summary row %d is for %q, expected %q", t, i, r.Geography, dst.Geography)
			}
			addScaled(&dst.Population, r.Population, f)
			addScaled(&dst.RenterHouseholds, r.RenterHouseholds, f)
			addScaled(&dst.LostWageHouseholds, r.LostWageHouseholds, f)
			for sc := 0; sc < trial.NumScenarios; sc++ {
				addScaled(&dst.Need[sc], r.Need[sc], f)
			}
			addScaled(&dst.MeanNeed, r.MeanNeed, f)
		}
	}
	return out, nil
}

func addScaled(dst *Estimate, src Estimate, f float64) {
	dst.Value += f * src.Value
	dst.MOE += f * src.MOE
}
