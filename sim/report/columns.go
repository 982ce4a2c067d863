// Package report renders averaged simulation results as markdown text, CSV
// files, and XLSX workbooks.
package report

import (
	"fmt"

	"github.com/rentsim/rentsim/sim/survey"
	"github.com/rentsim/rentsim/sim/trial"
)

// metric is one report column pair: a point estimate plus, unless the run
// suppresses them, its 90% margin of error.
type metric struct {
	label string // human heading for markdown and XLSX
	name  string // machine column stem for CSV
	get   func(*survey.Row) survey.Estimate
}

// metrics returns the report columns in render order. Share and allocation
// columns are zero until the summaries have been derived against the
// statewide row.
func metrics() []metric {
	cols := []metric{
		{"Population", "population", func(r *survey.Row) survey.Estimate { return r.Population }},
		{"Renter households", "renter_households", func(r *survey.Row) survey.Estimate { return r.RenterHouseholds }},
		{"Lost-wage households", "lost_wage_households", func(r *survey.Row) survey.Estimate { return r.LostWageHouseholds }},
	}
	for s := 0; s < trial.NumScenarios; s++ {
		sc := trial.Scenario(s)
		cols = append(cols, metric{
			label: fmt.Sprintf("Monthly need, %s", sc),
			name:  "need_" + sc.Slug(),
			get:   func(r *survey.Row) survey.Estimate { return r.Need[sc] },
		})
	}
	cols = append(cols,
		metric{"Mean need per lost-wage renter", "mean_need_regular", func(r *survey.Row) survey.Estimate { return r.MeanNeed }},
		metric{"Population share", "population_share", func(r *survey.Row) survey.Estimate { return r.Shares.Population }},
		metric{"Renter share", "renter_share", func(r *survey.Row) survey.Estimate { return r.Shares.RenterHouseholds }},
		metric{"Lost-wage share", "lost_wage_share", func(r *survey.Row) survey.Estimate { return r.Shares.LostWageHouseholds }},
	)
	for s := 0; s < trial.NumScenarios; s++ {
		sc := trial.Scenario(s)
		cols = append(cols, metric{
			label: fmt.Sprintf("Need share, %s", sc),
			name:  "need_share_" + sc.Slug(),
			get:   func(r *survey.Row) survey.Estimate { return r.Shares.Need[sc] },
		})
	}
	cols = append(cols, metric{
		label: "Fund allocation",
		name:  "allocation",
		get:   func(r *survey.Row) survey.Estimate { return r.Allocation },
	})
	return cols
}
