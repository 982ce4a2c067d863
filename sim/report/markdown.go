package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rentsim/rentsim/sim"
	"github.com/rentsim/rentsim/sim/survey"
)

// RenderMarkdown formats the averaged summaries as one markdown table per
// geography level.
func RenderMarkdown(res *sim.Result, hideMOE bool) string {
	var b strings.Builder
	b.WriteString("# Rental assistance need estimates\n\n")
	fmt.Fprintf(&b, "Averaged over %d trials. ", res.Trials)
	if hideMOE {
		b.WriteString("Margin-of-error columns omitted.\n")
	} else {
		b.WriteString("MOE columns are 90% margins of error.\n")
	}

	for _, level := range survey.Levels() {
		sum, ok := res.Levels[level]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n## By %s\n\n", level)
		writeTable(&b, sum, hideMOE)
	}
	return b.String()
}

func writeTable(b *strings.Builder, sum survey.Summary, hideMOE bool) {
	cols := metrics()

	b.WriteString("| Geography |")
	for _, c := range cols {
		fmt.Fprintf(b, " %s |", c.label)
		if !hideMOE {
			b.WriteString(" MOE |")
		}
	}
	b.WriteString("\n|")
	n := 1 + len(cols)
	if !hideMOE {
		n += len(cols)
	}
	for i := 0; i < n; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for i := range sum.Rows {
		r := &sum.Rows[i]
		fmt.Fprintf(b, "| %s |", r.Geography)
		for _, c := range cols {
			e := c.get(r)
			fmt.Fprintf(b, " %s |", formatValue(e.Value))
			if !hideMOE {
				fmt.Fprintf(b, " %s |", formatValue(e.MOE))
			}
		}
		b.WriteString("\n")
	}
}

// formatValue keeps share fractions readable without over-padding dollar and
// count totals.
func formatValue(v float64) string {
	if math.Abs(v) < 10 {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
