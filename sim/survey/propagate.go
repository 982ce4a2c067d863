package survey

import "math"

// PropagateRatioMOE returns the margin of error of the ratio numA/numB by
// the delta method: sqrt(moeA^2 + (A/B)^2 * moeB^2) / |B|. A zero
// denominator has no defined ratio; its margin reports zero alongside it.
func PropagateRatioMOE(numA, numB, moeA, moeB float64) float64 {
	if numB == 0 {
		return 0
	}
	r := numA / numB
	return math.Sqrt(moeA*moeA+r*r*moeB*moeB) / math.Abs(numB)
}

// PropagateProductMOE returns the margin of error of the product a*b for
// independent estimates: sqrt(b^2 * moeA^2 + a^2 * moeB^2).
func PropagateProductMOE(a, b, moeA, moeB float64) float64 {
	return math.Sqrt(b*b*moeA*moeA + a*a*moeB*moeB)
}

// Ratio derives numA/numB as an estimate with a propagated margin of error.
func Ratio(a, b Estimate) Estimate {
	if b.Value == 0 {
		return Estimate{}
	}
	return Estimate{
		Value: a.Value / b.Value,
		MOE:   PropagateRatioMOE(a.Value, b.Value, a.MOE, b.MOE),
	}
}

// Scale multiplies an estimate by a known constant, scaling the margin of
// error by the same factor.
func Scale(e Estimate, c float64) Estimate {
	return Estimate{Value: c * e.Value, MOE: math.Abs(c) * e.MOE}
}
