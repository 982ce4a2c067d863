// Package sim provides the Monte Carlo engine for estimating pandemic
// rental assistance need from survey microdata.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - rng.go: Per-trial seeding and subsystem-isolated random streams
//   - config.go: Run parameters, scenario files, and validation
//   - simulator.go: The trial loop, parallel execution, and averaging
//
// # Architecture
//
// The sim package orchestrates; the domain logic lives in sub-packages:
//   - sim/industry/: Industry classification and job-loss rate derivation
//   - sim/microdata/: Person and household records loaded from survey CSVs
//   - sim/trial/: One trial's stochastic assignment and household need math
//   - sim/survey/: Design-weighted estimation, MOE propagation, aggregation
//   - sim/report/: Markdown, CSV, and XLSX rendering of averaged results
//
// # Pipeline
//
// A run is a pure function of (dataset, rate table, config). Each trial
// derives its seed from the base seed and trial index, draws job-loss and
// UI take-up outcomes per person, computes each household's monthly rental
// need under four benefit scenarios, and aggregates survey-weighted totals
// per state, city, and county. Trials execute concurrently; the run waits
// for all of them, averages estimates and margins of error across trials,
// then derives locality shares and the fixed-percentage fund allocation
// against the statewide row.
package sim
