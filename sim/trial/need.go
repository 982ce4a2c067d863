package trial

import (
	"math"

	"github.com/rentsim/rentsim/sim/microdata"
)

// Scenario selects which UI benefit tier augments post-loss income.
type Scenario int

const (
	// ScenarioNoUI assumes no unemployment insurance at all.
	ScenarioNoUI Scenario = iota
	// ScenarioRegular applies the regular state benefit.
	ScenarioRegular
	// ScenarioRegular600 applies the regular benefit plus the $600 weekly
	// federal supplement.
	ScenarioRegular600
	// ScenarioRegular300 applies the regular benefit plus the $300 weekly
	// federal supplement.
	ScenarioRegular300

	// NumScenarios counts the benefit scenarios.
	NumScenarios = 4
)

// String returns a short label for report columns.
func (s Scenario) String() string {
	switch s {
	case ScenarioNoUI:
		return "no UI"
	case ScenarioRegular:
		return "regular UI"
	case ScenarioRegular600:
		return "regular UI + $600"
	case ScenarioRegular300:
		return "regular UI + $300"
	}
	return "unknown"
}

// Slug returns the scenario's machine-readable name for file columns.
func (s Scenario) Slug() string {
	switch s {
	case ScenarioNoUI:
		return "no_ui"
	case ScenarioRegular:
		return "regular"
	case ScenarioRegular600:
		return "regular_600"
	case ScenarioRegular300:
		return "regular_300"
	}
	return "unknown"
}

// TriState distinguishes households with no wage earners (Unknown) from
// households whose wage earners all kept their jobs (False). Downstream
// consumers must treat Unknown as its own category, never as False.
type TriState int

const (
	TriUnknown TriState = iota
	TriFalse
	TriTrue
)

// HouseholdState aggregates one household's trial state, parallel to the
// dataset's household slice.
type HouseholdState struct {
	AtRiskWages   float64 // annual wages of members assigned job loss
	AtRiskMembers int
	WageEarners   int
	AnyRisk       TriState

	// Benefits holds the monthly household UI income per scenario.
	Benefits [NumScenarios]float64
	// Burden is gross rent over monthly post-loss income per scenario.
	// May be non-finite or negative; Need holds the clamped result.
	Burden [NumScenarios]float64
	// Need is the monthly rental assistance need per scenario, always in
	// [0, gross rent].
	Need [NumScenarios]float64
}

// ComputeNeed derives household rental-assistance need under the four
// benefit scenarios. targetBurden is the rent-to-income ratio the program
// restores households to, typically 0.30. Pure function of its inputs.
func ComputeNeed(data *microdata.Dataset, a *Assignment, targetBurden float64) []HouseholdState {
	states := make([]HouseholdState, len(data.Households))
	for hi := range data.Households {
		h := &data.Households[hi]
		hs := &states[hi]

		for _, mi := range h.Members {
			p := &data.Persons[mi]
			st := &a.Persons[mi]
			if p.WageIncome > 0 {
				hs.WageEarners++
			}
			if st.Risk == RiskLost {
				hs.AtRiskMembers++
				hs.AtRiskWages += p.WageIncome
			}
			hs.Benefits[ScenarioRegular] += st.BenefitRegular
			hs.Benefits[ScenarioRegular600] += st.Benefit600
			hs.Benefits[ScenarioRegular300] += st.Benefit300
		}

		switch {
		case hs.WageEarners == 0:
			hs.AnyRisk = TriUnknown
		case hs.AtRiskMembers > 0:
			hs.AnyRisk = TriTrue
		default:
			hs.AnyRisk = TriFalse
		}

		for s := 0; s < NumScenarios; s++ {
			monthly := (h.Income-hs.AtRiskWages)/12 + hs.Benefits[s]
			hs.Burden[s] = h.GrossRent / monthly
			hs.Need[s] = clampNeed(h.GrossRent, hs.Burden[s], targetBurden)
		}
	}
	return states
}

// clampNeed applies the reporting rules, in order: an undefined burden or
// raw value reports zero; a household already at or below the target reports
// zero; need never exceeds gross rent; otherwise the negative raw value is
// negated into a positive dollar need.
func clampNeed(rent, burden, targetBurden float64) float64 {
	if math.IsNaN(burden) || math.IsInf(burden, 0) {
		return 0
	}
	raw := rent/burden - rent/targetBurden
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	if raw >= 0 {
		return 0
	}
	if -raw > rent {
		return rent
	}
	return -raw
}
