package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/rentsim/rentsim/sim"
	"github.com/rentsim/rentsim/sim/industry"
	"github.com/rentsim/rentsim/sim/microdata"
	"github.com/rentsim/rentsim/sim/report"
	"github.com/rentsim/rentsim/sim/survey"
)

var (
	// CLI flags for input files
	microdataPath string // Person-level survey microdata CSV
	ratesPath     string // Industry employment-change CSV
	scenarioPath  string // Optional YAML scenario file layered over defaults
	logLevel      string // Log verbosity level

	// CLI flags for simulation parameters
	trials       int     // Number of Monte Carlo trials
	baseSeed     int64   // Seed for trial 0; trial t uses baseSeed+t
	takeupRate   float64 // Overall UI take-up probability
	totalFunds   float64 // Program fund size in dollars
	targetBurden float64 // Affordable rent-to-income ratio
	hideMOE      bool    // Omit margin-of-error columns from reports
	workers      int     // Concurrent trials

	// CLI flags for outputs
	csvPrefix string // Write <prefix>_<level>.csv per geography level
	xlsxPath  string // Write a multi-sheet XLSX workbook
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rentsim",
	Short: "Monte Carlo estimator of pandemic rental assistance need",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the need estimation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		data, rates, err := loadInputs()
		if err != nil {
			logrus.Fatalf("Unable to load inputs: %v", err)
		}

		startTime := time.Now()
		s := sim.NewSimulator(cfg, data, rates)
		res, err := s.Run(context.Background())
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Completed %d trials in %v", res.Trials, time.Since(startTime))

		fmt.Print(report.RenderMarkdown(res, cfg.HideMOE))

		if csvPrefix != "" {
			for _, lvl := range survey.Levels() {
				path := fmt.Sprintf("%s_%s.csv", csvPrefix, lvl)
				if err := report.ExportCSV(path, res.Levels[lvl], cfg.HideMOE); err != nil {
					logrus.Fatalf("CSV export failed: %v", err)
				}
				logrus.Infof("Wrote %s", path)
			}
		}
		if xlsxPath != "" {
			if err := report.ExportXLSX(xlsxPath, res, cfg.HideMOE); err != nil {
				logrus.Fatalf("XLSX export failed: %v", err)
			}
			logrus.Infof("Wrote %s", xlsxPath)
		}
	},
}

// loadConfig layers the optional scenario file over the defaults, then any
// explicitly set CLI flag over both, and validates the result.
func loadConfig(cmd *cobra.Command) (sim.SimulationConfig, error) {
	cfg := sim.DefaultConfig()
	if scenarioPath != "" {
		loaded, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Trials = trials
	}
	if flags.Changed("seed") {
		cfg.BaseSeed = baseSeed
	}
	if flags.Changed("takeup-rate") {
		cfg.TakeupRate = takeupRate
	}
	if flags.Changed("total-funds") {
		cfg.TotalFunds = totalFunds
	}
	if flags.Changed("target-burden") {
		cfg.TargetBurden = targetBurden
	}
	if flags.Changed("hide-moe") {
		cfg.HideMOE = hideMOE
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

// loadInputs reads the microdata and employment-change files named by the
// CLI flags.
func loadInputs() (*microdata.Dataset, *industry.JobLossRates, error) {
	data, err := microdata.Load(microdataPath)
	if err != nil {
		return nil, nil, err
	}
	rates, err := industry.LoadJobLossRates(ratesPath)
	if err != nil {
		return nil, nil, err
	}
	return data, rates, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&microdataPath, "microdata", "", "Person-level survey microdata CSV")
	runCmd.Flags().StringVar(&ratesPath, "rates", "", "Industry employment-change CSV")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file layered over the defaults")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("microdata")
	_ = runCmd.MarkFlagRequired("rates")

	// Simulation parameters
	defaults := sim.DefaultConfig()
	runCmd.Flags().IntVar(&trials, "trials", defaults.Trials, "Number of Monte Carlo trials")
	runCmd.Flags().Int64Var(&baseSeed, "seed", defaults.BaseSeed, "Base seed; trial t runs with seed base+t")
	runCmd.Flags().Float64Var(&takeupRate, "takeup-rate", defaults.TakeupRate, "Overall UI take-up probability, in (0,1)")
	runCmd.Flags().Float64Var(&totalFunds, "total-funds", defaults.TotalFunds, "Program fund size in dollars")
	runCmd.Flags().Float64Var(&targetBurden, "target-burden", defaults.TargetBurden, "Affordable rent-to-income ratio, in (0,1]")
	runCmd.Flags().BoolVar(&hideMOE, "hide-moe", false, "Omit margin-of-error columns from reports")
	runCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Concurrent trials")

	// Outputs
	runCmd.Flags().StringVar(&csvPrefix, "csv", "", "Write <prefix>_<level>.csv per geography level")
	runCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write a multi-sheet XLSX workbook")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
