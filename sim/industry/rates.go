package industry

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// CSV column headers for the employment-change table.
var rateColumns = []string{"industry_code", "industry_name", "employment_change_pct"}

// JobLossRates holds the per-sector job-loss probabilities derived from the
// employment-change table. Immutable after construction.
type JobLossRates struct {
	probs map[Group]float64
}

// NewJobLossRates builds a rate table from already-derived probabilities.
// Every key must be a known sector group and every probability must lie in
// [0, 1].
func NewJobLossRates(probs map[Group]float64) (*JobLossRates, error) {
	known := make(map[Group]bool, len(Groups()))
	for _, g := range Groups() {
		known[g] = true
	}
	copied := make(map[Group]float64, len(probs))
	for g, p := range probs {
		if !known[g] {
			return nil, fmt.Errorf("unknown industry group code %d", int(g))
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%s: job-loss probability must be in [0, 1], got %f", g, p)
		}
		copied[g] = p
	}
	return &JobLossRates{probs: copied}, nil
}

// LoadJobLossRates reads the employment-change CSV and derives a job-loss
// probability per sector: the negated percent change divided by 100, floored
// at zero so employment gains carry no job-loss risk. A change below -100
// percent is malformed input.
func LoadJobLossRates(path string) (*JobLossRates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rate table: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading rate table header: %w", err)
	}
	if err := checkHeader(header, rateColumns); err != nil {
		return nil, fmt.Errorf("rate table: %w", err)
	}

	probs := make(map[Group]float64)
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rate table row: %w", err)
		}
		rowNum++

		code, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("rate table row %d: industry_code %q is not an integer", rowNum, row[0])
		}
		group := Group(code)
		if !knownGroup(group) {
			return nil, fmt.Errorf("rate table row %d: unknown industry code %d", rowNum, code)
		}
		if _, dup := probs[group]; dup {
			return nil, fmt.Errorf("rate table row %d: duplicate industry code %d", rowNum, code)
		}

		pct, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("rate table row %d: employment_change_pct %q is not a number", rowNum, row[2])
		}
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return nil, fmt.Errorf("rate table row %d: employment_change_pct must be finite, got %f", rowNum, pct)
		}
		if pct < -100 {
			return nil, fmt.Errorf("rate table row %d: employment_change_pct below -100, got %f", rowNum, pct)
		}

		p := -pct / 100
		if p < 0 {
			p = 0
		}
		probs[group] = p
	}

	logrus.Infof("loaded job-loss rates for %d industry groups from %s", len(probs), path)
	return &JobLossRates{probs: probs}, nil
}

// Probability returns the job-loss probability for a sector group. The second
// return value is false when the table has no entry for the group.
func (r *JobLossRates) Probability(g Group) (float64, bool) {
	p, ok := r.probs[g]
	return p, ok
}

// Groups returns the sector groups present in the table, in ascending code
// order.
func (r *JobLossRates) Groups() []Group {
	groups := make([]Group, 0, len(r.probs))
	for g := range r.probs {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// Covers checks that every observed sector group has a rate entry. Called
// before any simulation work so a gap fails fast instead of mid-trial.
func (r *JobLossRates) Covers(observed []Group) error {
	for _, g := range observed {
		if _, ok := r.probs[g]; !ok {
			return fmt.Errorf("rate table has no entry for industry group %s (code %d)", g, int(g))
		}
	}
	return nil
}

func knownGroup(g Group) bool {
	for _, k := range Groups() {
		if g == k {
			return true
		}
	}
	return false
}

// checkHeader verifies a CSV header row matches the expected columns exactly.
func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, got[i], want[i])
		}
	}
	return nil
}
