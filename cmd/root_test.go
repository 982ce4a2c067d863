package cmd

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/rentsim/rentsim/sim"
)

// writeCmdCSV writes a CSV fixture for command tests. The cmd package sits
// outside sim/, so it cannot reach the internal test helpers.
func writeCmdCSV(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
	require.NoError(t, f.Close())
}

// writeInputFixtures builds a small but complete input pair: four classified
// persons in three households plus one unclassified worker, and a rate table
// covering the three observed sectors.
func writeInputFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	micro := filepath.Join(dir, "microdata.csv")
	writeCmdCSV(t, micro, [][]string{
		{"household_id", "person_id", "person_weight", "household_weight",
			"wage_income", "employment_status", "industry_code",
			"benefit_regular", "benefit_600", "benefit_300",
			"household_income", "gross_rent", "is_renter",
			"city", "county", "state"},
		{"h1", "p1", "100", "90", "30000", "employed", "2090", "1800", "2400", "2100", "52000", "1450", "true", "New York City", "Kings", "NY"},
		{"h1", "p2", "110", "90", "0", "nilf", "2090", "0", "0", "0", "52000", "1450", "true", "New York City", "Kings", "NY"},
		{"h1", "p5", "95", "90", "8000", "employed", "170", "0", "0", "0", "52000", "1450", "true", "New York City", "Kings", "NY"},
		{"h2", "p3", "120", "80", "24000", "employed", "8560", "0", "0", "0", "24000", "1100", "true", "Buffalo", "Erie", "NY"},
		{"h3", "p4", "130", "70", "45000", "employed", "4670", "1500", "2100", "1800", "61000", "0", "false", "", "Monroe", "NY"},
	})

	rates := filepath.Join(dir, "rates.csv")
	writeCmdCSV(t, rates, [][]string{
		{"industry_code", "industry_name", "employment_change_pct"},
		{"30000000", "Manufacturing", "-12.5"},
		{"42000000", "Retail Trade", "-5.0"},
		{"70000000", "Leisure and Hospitality", "-39.3"},
	})
	return micro, rates
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestLoadConfig_Layering(t *testing.T) {
	defer func() { scenarioPath = "" }()

	// GIVEN no scenario file and no changed flags
	scenarioPath = ""
	cfg, err := loadConfig(runCmd)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)

	// WHEN the scenario file is missing THEN loading fails
	scenarioPath = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = loadConfig(runCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")

	// GIVEN a scenario overriding two keys
	scenarioPath = filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte("trials: 77\ntakeup_rate: 0.41\n"), 0o644))
	cfg, err = loadConfig(runCmd)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Trials)
	assert.Equal(t, 0.41, cfg.TakeupRate)
	assert.Equal(t, sim.DefaultConfig().TargetBurden, cfg.TargetBurden)

	// WHEN a CLI flag is set explicitly THEN it beats the scenario
	require.NoError(t, runCmd.Flags().Set("trials", "50"))
	cfg, err = loadConfig(runCmd)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Trials)
	assert.Equal(t, 0.41, cfg.TakeupRate)

	// WHEN a flag override is invalid THEN loadConfig reports it
	require.NoError(t, runCmd.Flags().Set("takeup-rate", "1.5"))
	_, err = loadConfig(runCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takeup_rate")

	// Leave the shared flag set in a valid state.
	require.NoError(t, runCmd.Flags().Set("takeup-rate", "0.5"))
}

func TestRunCmd_EndToEnd(t *testing.T) {
	micro, rates := writeInputFixtures(t)
	outDir := t.TempDir()

	microdataPath = micro
	ratesPath = rates
	scenarioPath = ""
	csvPrefix = filepath.Join(outDir, "out")
	xlsxPath = filepath.Join(outDir, "out.xlsx")
	defer func() { csvPrefix, xlsxPath = "", "" }()

	require.NoError(t, runCmd.Flags().Set("trials", "4"))
	require.NoError(t, runCmd.Flags().Set("seed", "7"))
	require.NoError(t, runCmd.Flags().Set("takeup-rate", "0.6"))
	require.NoError(t, runCmd.Flags().Set("workers", "2"))

	output := captureStdout(t, func() {
		runCmd.Run(runCmd, nil)
	})

	// THEN the markdown report lands on stdout
	assert.Contains(t, output, "# Rental assistance need estimates")
	assert.Contains(t, output, "Averaged over 4 trials")
	assert.Contains(t, output, "## By state")
	assert.Contains(t, output, "## By city")
	assert.Contains(t, output, "## By county")
	assert.Contains(t, output, "| NY |")
	assert.Contains(t, output, "| Buffalo |")

	// AND every geography level gets a CSV with the shared header
	for _, level := range []string{"state", "city", "county"} {
		path := filepath.Join(outDir, "out_"+level+".csv")
		content, err := os.ReadFile(path)
		require.NoError(t, err, "missing CSV for level %s", level)
		assert.Contains(t, string(content), "geography,population,population_moe")
	}

	// AND the workbook is written
	info, err := os.Stat(filepath.Join(outDir, "out.xlsx"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
