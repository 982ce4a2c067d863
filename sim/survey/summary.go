package survey

import (
	"sort"

	"github.com/rentsim/rentsim/sim/microdata"
	"github.com/rentsim/rentsim/sim/trial"
)

// Level identifies a geography grouping for reporting.
type Level string

const (
	LevelState  Level = "state"
	LevelCity   Level = "city"
	LevelCounty Level = "county"
)

// Levels returns the reporting levels in rendering order.
func Levels() []Level {
	return []Level{LevelState, LevelCity, LevelCounty}
}

// AllocationFraction is the share of total program funds distributed to
// localities in proportion to population.
const AllocationFraction = 0.45

// RowShares holds a row's metrics normalized against the statewide totals.
type RowShares struct {
	Population         Estimate
	RenterHouseholds   Estimate
	LostWageHouseholds Estimate
	Need               [trial.NumScenarios]Estimate
}

// Row is one geography's metrics: either a single trial's estimates or the
// cross-trial average. Shares and Allocation stay zero until Derive runs on
// the averaged summary.
type Row struct {
	Geography string

	// Population is the weighted person count.
	Population Estimate
	// RenterHouseholds is the weighted count of renter households.
	RenterHouseholds Estimate
	// LostWageHouseholds is the weighted count of households with at least
	// one member assigned job loss. Households without wage earners are a
	// third category and never count here.
	LostWageHouseholds Estimate
	// Need is the weighted monthly rental-need total over renter
	// households, per benefit scenario.
	Need [trial.NumScenarios]Estimate
	// MeanNeed is the weighted mean regular-scenario need per lost-wage
	// renter household.
	MeanNeed Estimate

	Shares RowShares
	// Allocation is the row's slice of the fixed-percentage program fund,
	// proportional to population share.
	Allocation Estimate
}

// Summary holds the rows for one geography level, sorted by geography id.
type Summary struct {
	Level Level
	Rows  []Row
}

// geoAccumulator collects one geography's values and weights before
// estimation.
type geoAccumulator struct {
	personOnes    []float64
	personWeights []float64

	houseWeights []float64
	renterInd    []float64
	lostInd      []float64

	needValues  [trial.NumScenarios][]float64
	needWeights []float64

	meanValues  []float64
	meanWeights []float64
}

// Aggregate computes one level's design-weighted rows from a single trial's
// household states. Records with an empty geography tag at this level are
// excluded from this level only.
func Aggregate(level Level, data *microdata.Dataset, states []trial.HouseholdState) Summary {
	accs := make(map[string]*geoAccumulator)

	for hi := range data.Households {
		h := &data.Households[hi]
		geo := geographyOf(level, h)
		if geo == "" {
			continue
		}
		acc := accs[geo]
		if acc == nil {
			acc = &geoAccumulator{}
			accs[geo] = acc
		}
		hs := &states[hi]

		for _, mi := range h.Members {
			acc.personOnes = append(acc.personOnes, 1)
			acc.personWeights = append(acc.personWeights, data.Persons[mi].Weight)
		}

		acc.houseWeights = append(acc.houseWeights, h.Weight)
		acc.renterInd = append(acc.renterInd, indicator(h.Renter))
		acc.lostInd = append(acc.lostInd, indicator(hs.AnyRisk == trial.TriTrue))

		if h.Renter {
			acc.needWeights = append(acc.needWeights, h.Weight)
			for s := 0; s < trial.NumScenarios; s++ {
				acc.needValues[s] = append(acc.needValues[s], hs.Need[s])
			}
			if hs.AnyRisk == trial.TriTrue {
				acc.meanValues = append(acc.meanValues, hs.Need[trial.ScenarioRegular])
				acc.meanWeights = append(acc.meanWeights, h.Weight)
			}
		}
	}

	geos := make([]string, 0, len(accs))
	for geo := range accs {
		geos = append(geos, geo)
	}
	sort.Strings(geos)

	rows := make([]Row, 0, len(geos))
	for _, geo := range geos {
		acc := accs[geo]
		row := Row{
			Geography:          geo,
			Population:         WeightedTotal(acc.personOnes, acc.personWeights),
			RenterHouseholds:   WeightedTotal(acc.renterInd, acc.houseWeights),
			LostWageHouseholds: WeightedTotal(acc.lostInd, acc.houseWeights),
			MeanNeed:           WeightedMean(acc.meanValues, acc.meanWeights),
		}
		for s := 0; s < trial.NumScenarios; s++ {
			row.Need[s] = WeightedTotal(acc.needValues[s], acc.needWeights)
		}
		rows = append(rows, row)
	}
	return Summary{Level: level, Rows: rows}
}

// Derive fills each row's state-share columns and its fund allocation,
// normalizing against the statewide row. Call on averaged summaries only.
func (s *Summary) Derive(state Row, totalFunds float64) {
	for i := range s.Rows {
		r := &s.Rows[i]
		r.Shares.Population = Ratio(r.Population, state.Population)
		r.Shares.RenterHouseholds = Ratio(r.RenterHouseholds, state.RenterHouseholds)
		r.Shares.LostWageHouseholds = Ratio(r.LostWageHouseholds, state.LostWageHouseholds)
		for sc := 0; sc < trial.NumScenarios; sc++ {
			r.Shares.Need[sc] = Ratio(r.Need[sc], state.Need[sc])
		}
		r.Allocation = Scale(r.Shares.Population, AllocationFraction*totalFunds)
	}
}

func geographyOf(level Level, h *microdata.Household) string {
	switch level {
	case LevelState:
		return h.State
	case LevelCity:
		return h.City
	case LevelCounty:
		return h.County
	}
	return ""
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
