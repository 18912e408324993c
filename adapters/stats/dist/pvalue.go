package dist

import "math"

// FPValue returns the upper-tail probability P(F' ≥ f) for an F distribution with
// (df1, df2) degrees of freedom. Non-positive or non-finite inputs yield 1.
func FPValue(f, df1, df2 float64) float64 {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	if !(df1 > 0) || !(df2 > 0) || math.IsInf(df1, 0) || math.IsInf(df2, 0) {
		return 1
	}

	x := df2 / (df2 + df1*f)
	p := RegularizedIncompleteBeta(x, df2/2, df1/2)
	switch {
	case math.IsNaN(p):
		return 1
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// TPValue returns the two-tailed p-value for Student's t with df degrees of freedom.
// It uses the identity t² ~ F(1, df).
func TPValue(t, df float64) float64 {
	return FPValue(t*t, 1, df)
}
