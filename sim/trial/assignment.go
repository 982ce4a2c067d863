// Package trial implements one stochastic pass over the dataset: job-loss
// assignment, UI-takeup assignment, and household-level rental need. All
// state here is ephemeral, recomputed from scratch each trial.
package trial

import (
	"fmt"
	"math/rand"

	"github.com/rentsim/rentsim/sim/industry"
	"github.com/rentsim/rentsim/sim/microdata"
)

// RiskStatus is the per-person job-loss assignment for one trial.
type RiskStatus int

const (
	// RiskNotApplicable marks persons outside the risk universe: no wage
	// income, so there is no job to lose.
	RiskNotApplicable RiskStatus = iota
	// RiskRetained means the person drew above their sector's job-loss
	// probability and keeps their wages this trial.
	RiskRetained
	// RiskLost means the person is assigned simulated job loss.
	RiskLost
)

// PersonState is the ephemeral per-person trial state. Benefit amounts are
// zero unless the person both lost their job and took up UI.
type PersonState struct {
	Risk           RiskStatus
	Takeup         bool
	BenefitRegular float64
	Benefit600     float64
	Benefit300     float64
}

// Assignment holds one trial's stochastic state, parallel to the dataset's
// person slice.
type Assignment struct {
	Persons []PersonState

	// AtRisk counts persons assigned job loss.
	AtRisk int
	// IneligibleShare is the fraction of at-risk persons whose precomputed
	// regular benefit is zero. Defined as 0 when nobody is at risk.
	IneligibleShare float64
	// AdjustedTakeup is the takeup probability actually drawn against:
	// the global rate divided by (1 - IneligibleShare). It has no upper
	// clamp; values at or above 1 saturate the draw, and +Inf (every
	// at-risk person ineligible) is harmless because the zero-benefit rule
	// forces those takeups false anyway.
	AdjustedTakeup float64
}

// Assign draws job-loss and UI-takeup status for every person in dataset
// order. Draws come only from the two provided streams, so the result is a
// pure function of (streams, dataset, rates, takeupRate) and never depends
// on scheduling.
func Assign(data *microdata.Dataset, rates *industry.JobLossRates, takeupRate float64, riskRNG, takeupRNG *rand.Rand) (*Assignment, error) {
	a := &Assignment{Persons: make([]PersonState, len(data.Persons))}

	ineligible := 0
	for i := range data.Persons {
		p := &data.Persons[i]
		st := &a.Persons[i]
		if p.WageIncome <= 0 {
			st.Risk = RiskNotApplicable
			continue
		}
		prob, ok := rates.Probability(p.Industry)
		if !ok {
			return nil, fmt.Errorf("no job-loss rate for industry group %s (code %d)", p.Industry, int(p.Industry))
		}
		if riskRNG.Float64() < prob {
			st.Risk = RiskLost
			a.AtRisk++
			if p.BenefitRegular == 0 {
				ineligible++
			}
		} else {
			st.Risk = RiskRetained
		}
	}

	if a.AtRisk > 0 {
		a.IneligibleShare = float64(ineligible) / float64(a.AtRisk)
	}
	a.AdjustedTakeup = takeupRate / (1 - a.IneligibleShare)

	for i := range data.Persons {
		p := &data.Persons[i]
		st := &a.Persons[i]
		if st.Risk != RiskLost {
			continue
		}
		st.Takeup = takeupRNG.Float64() < a.AdjustedTakeup
		if p.BenefitRegular == 0 {
			st.Takeup = false
		}
		if st.Takeup {
			st.BenefitRegular = p.BenefitRegular
			st.Benefit600 = p.Benefit600
			st.Benefit300 = p.Benefit300
		}
	}

	return a, nil
}
