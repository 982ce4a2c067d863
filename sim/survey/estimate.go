// Package survey computes design-weighted estimates with 90 percent margins
// of error and propagates that uncertainty through derived ratios and
// products. Variance uses single-stage with-replacement Taylor
// linearization, treating each record as its own sampling unit.
package survey

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Z90 is the two-sided critical value for a 90 percent confidence interval.
const Z90 = 1.644854

// Estimate pairs a weighted point estimate with its 90 percent margin of
// error (half the confidence interval width).
type Estimate struct {
	Value float64
	MOE   float64
}

// WeightedTotal estimates the population total of values under the survey
// weights. With fewer than two records the variance is undefined and the
// margin of error reports zero.
func WeightedTotal(values, weights []float64) Estimate {
	n := len(values)
	if n == 0 {
		return Estimate{}
	}
	wy := make([]float64, n)
	floats.MulTo(wy, weights, values)
	total := floats.Sum(wy)
	if n < 2 {
		return Estimate{Value: total}
	}

	mean := total / float64(n)
	var ss float64
	for _, v := range wy {
		d := v - mean
		ss += d * d
	}
	variance := float64(n) / float64(n-1) * ss
	return Estimate{Value: total, MOE: Z90 * math.Sqrt(variance)}
}

// WeightedMean estimates the weighted mean of values, treating the mean as a
// ratio of two correlated totals and linearizing its variance. Zero total
// weight reports a zero estimate.
func WeightedMean(values, weights []float64) Estimate {
	n := len(values)
	if n == 0 {
		return Estimate{}
	}
	wsum := floats.Sum(weights)
	if wsum == 0 {
		return Estimate{}
	}
	mean := stat.Mean(values, weights)
	if n < 2 {
		return Estimate{Value: mean}
	}

	// Linearized residuals w*(y - mean) sum to zero by construction.
	var ss float64
	for i, y := range values {
		z := weights[i] * (y - mean)
		ss += z * z
	}
	variance := float64(n) / float64(n-1) * ss / (wsum * wsum)
	return Estimate{Value: mean, MOE: Z90 * math.Sqrt(variance)}
}
