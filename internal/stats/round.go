package stats

import "github.com/shopspring/decimal"

// round2 rounds half away from zero at the second decimal place. It works on
// the shortest decimal representation of x, so 1.005 becomes 1.01.
func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
