package dist

import "math"

const (
	maxContinuedFractionIter = 200
	continuedFractionEps     = 1e-12
	lentzFloor               = 1e-30
)

// RegularizedIncompleteBeta returns I_x(a, b). It is NaN outside 0 ≤ x ≤ 1.
func RegularizedIncompleteBeta(x, a, b float64) float64 {
	switch {
	case math.IsNaN(x) || x < 0 || x > 1:
		return math.NaN()
	case x == 0:
		return 0
	case x == 1:
		return 1
	}

	// The continued fraction converges quickly only below (a+1)/(a+b+2); above it,
	// evaluate the complement through I_x(a,b) = 1 − I_{1−x}(b,a).
	if x > (a+1)/(a+b+2) {
		return 1 - incompleteBetaFront(1-x, b, a)*betaContinuedFraction(1-x, b, a)
	}
	return incompleteBetaFront(x, a, b) * betaContinuedFraction(x, a, b)
}

func incompleteBetaFront(x, a, b float64) float64 {
	return math.Exp(a*math.Log(x)+b*math.Log(1-x)-LogBeta(a, b)) / a
}

// betaContinuedFraction evaluates the incomplete beta continued fraction with the
// modified Lentz method, alternating even and odd recurrence terms.
func betaContinuedFraction(x, a, b float64) float64 {
	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := floorMagnitude(1 - qab*x/qap)
	d = 1 / d
	h := d

	for m := 1; m <= maxContinuedFractionIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		// even step
		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = floorMagnitude(1 + aa*d)
		c = floorMagnitude(1 + aa/c)
		d = 1 / d
		h *= d * c

		// odd step
		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = floorMagnitude(1 + aa*d)
		c = floorMagnitude(1 + aa/c)
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < continuedFractionEps {
			break
		}
	}

	return h
}

func floorMagnitude(v float64) float64 {
	if math.Abs(v) < lentzFloor {
		return lentzFloor
	}
	return v
}
