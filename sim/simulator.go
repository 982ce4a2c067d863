// sim/simulator.go
package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rentsim/rentsim/sim/industry"
	"github.com/rentsim/rentsim/sim/microdata"
	"github.com/rentsim/rentsim/sim/survey"
	"github.com/rentsim/rentsim/sim/trial"
)

// Simulator is the core object that holds the validated run parameters and
// the immutable inputs shared by every trial.
type Simulator struct {
	Config SimulationConfig
	Data   *microdata.Dataset
	Rates  *industry.JobLossRates
}

func NewSimulator(cfg SimulationConfig, data *microdata.Dataset, rates *industry.JobLossRates) *Simulator {
	return &Simulator{
		Config: cfg,
		Data:   data,
		Rates:  rates,
	}
}

// Result holds the cross-trial averaged summaries, one per geography level,
// with state shares and fund allocations already derived.
type Result struct {
	Levels map[survey.Level]survey.Summary
	// State is the single statewide row the shares normalize against.
	State  survey.Row
	Trials int
}

// Run executes all trials and reduces them to averaged summaries.
//
// Trials share nothing but the read-only dataset and rate table, so they run
// concurrently up to Config.Workers. Trial t always uses seed BaseSeed+t
// regardless of scheduling order, and every trial must finish before
// averaging starts. Any trial failure aborts the run.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	if err := s.Rates.Covers(s.Data.IndustryGroups()); err != nil {
		return nil, err
	}

	logrus.Infof("Starting simulation: %d trials, base seed %d, %d workers",
		s.Config.Trials, s.Config.BaseSeed, s.Config.Workers)

	results := make([]map[survey.Level]survey.Summary, s.Config.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.Workers)
	for t := 0; t < s.Config.Trials; t++ {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, err := s.runTrial(t)
			if err != nil {
				return fmt.Errorf("trial %d: %w", t, err)
			}
			results[t] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Levels: make(map[survey.Level]survey.Summary, len(survey.Levels())),
		Trials: s.Config.Trials,
	}
	for _, level := range survey.Levels() {
		perTrial := make([]survey.Summary, s.Config.Trials)
		for t, out := range results {
			perTrial[t] = out[level]
		}
		avg, err := survey.AverageSummaries(perTrial)
		if err != nil {
			return nil, fmt.Errorf("averaging %s summaries: %w", level, err)
		}
		res.Levels[level] = avg
	}

	state := res.Levels[survey.LevelState]
	if len(state.Rows) != 1 {
		return nil, fmt.Errorf("expected exactly one statewide row, got %d", len(state.Rows))
	}
	res.State = state.Rows[0]

	for _, level := range survey.Levels() {
		sum := res.Levels[level]
		sum.Derive(res.State, s.Config.TotalFunds)
		res.Levels[level] = sum
	}

	logrus.Infof("Simulation complete: statewide regular-UI need $%.0f/month across %.0f renter households",
		res.State.Need[trial.ScenarioRegular].Value, res.State.RenterHouseholds.Value)
	return res, nil
}

// runTrial executes one seeded trial end to end: risk and take-up
// assignment, household need, then one summary per geography level.
func (s *Simulator) runTrial(index int) (map[survey.Level]survey.Summary, error) {
	rng := NewPartitionedRNG(TrialKeyFor(s.Config.BaseSeed, index))
	a, err := trial.Assign(s.Data, s.Rates, s.Config.TakeupRate,
		rng.ForSubsystem(SubsystemRisk), rng.ForSubsystem(SubsystemTakeup))
	if err != nil {
		return nil, err
	}
	states := trial.ComputeNeed(s.Data, a, s.Config.TargetBurden)

	out := make(map[survey.Level]survey.Summary, len(survey.Levels()))
	for _, level := range survey.Levels() {
		out[level] = survey.Aggregate(level, s.Data, states)
	}
	logrus.Debugf("trial %d: %d persons at risk, adjusted take-up %.4f",
		index, a.AtRisk, a.AdjustedTakeup)
	return out, nil
}
