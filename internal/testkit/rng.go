package testkit

import "math"

// lcg is the 32-bit linear congruential generator the farm datasets are drawn from.
// The same seed always yields the same stream.
type lcg struct {
	state uint32
}

func newLCG(seed int64) *lcg {
	return &lcg{state: uint32(seed)}
}

// next returns a value in [0, 1].
func (r *lcg) next() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / 0xffffffff
}

// nextNormal draws from N(mean, sd) with Box–Muller, rounded to one decimal.
func (r *lcg) nextNormal(mean, sd float64) float64 {
	u1 := r.next()
	u2 := r.next()
	z := math.Sqrt(-2*math.Log(u1+1e-10)) * math.Cos(2*math.Pi*u2)
	return roundTo(mean+sd*z, 1)
}

// nextInt returns an integer in [min, max].
func (r *lcg) nextInt(min, max int) int {
	n := int(math.Floor(r.next() * float64(max-min+1)))
	if n > max-min {
		n = max - min
	}
	return n + min
}

func (r *lcg) nextChoice(options []string) string {
	i := int(math.Floor(r.next() * float64(len(options))))
	if i >= len(options) {
		i = len(options) - 1
	}
	return options[i]
}

// roundTo rounds half up to the given number of decimals.
func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}
