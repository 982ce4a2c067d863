package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rentsim/rentsim/sim/industry"
)

// --- rentsim rates ---

var showRatesPath string

// ratesCmd prints the job-loss probabilities derived from an
// employment-change file, one row per industry sector.
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print derived job-loss probabilities per industry",
	Run: func(cmd *cobra.Command, args []string) {
		rates, err := industry.LoadJobLossRates(showRatesPath)
		if err != nil {
			logrus.Fatalf("Rate table load failed: %v", err)
		}

		fmt.Printf("%-10s %-26s %s\n", "CODE", "INDUSTRY", "P(JOB LOSS)")
		for _, g := range rates.Groups() {
			p, _ := rates.Probability(g)
			fmt.Printf("%-10d %-26s %.4f\n", int(g), g, p)
		}
	},
}

func init() {
	ratesCmd.Flags().StringVar(&showRatesPath, "rates", "", "Industry employment-change CSV")
	_ = ratesCmd.MarkFlagRequired("rates")

	rootCmd.AddCommand(ratesCmd)
}
