package mathutil

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Choose returns the binomial coefficient C(n, k) = n! / (k! * (n-k)!).
// Returns 0 when k is outside [0, n]. Overflows to +Inf for large n.
func Choose(n, k int) float64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	// Multiplicative form
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return math.Round(result)
}

// logFactorial returns ln(n!) using the log-gamma function
func logFactorial(n int) float64 {
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

// BinomialPMF calculates P(X = k) for X ~ Binomial(n, p)
// P(X=k) = p^k * (1-p)^(n-k) * C(n,k)
// Falls back to log space when C(n,k) overflows or the powers underflow.
func BinomialPMF(n, k int, p float64) float64 {
	if k < 0 || k > n || p < 0 || p > 1 {
		return 0
	}
	c := Choose(n, k)
	pw := math.Pow(p, float64(k)) * math.Pow(1-p, float64(n-k))
	if p > 0 && p < 1 && (math.IsInf(c, 1) || pw == 0) {
		logPMF := logFactorial(n) - logFactorial(k) - logFactorial(n-k) +
			float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p)
		return math.Exp(logPMF)
	}
	return pw * c
}

// Round rounds the exact binary value of x to the given number of decimal
// places, ties to even. Only values that are exactly halfway are ties.
// Example: Round(0.51516, 3) → 0.515, Round(0.0125, 3) → 0.013, Round(0.125, 2) → 0.12
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	// x = frac * 2^exp with a 53-bit mantissa has at most 53-exp fractional digits
	_, exp := math.Frexp(x)
	digits := 53 - exp
	if digits < 0 {
		digits = 0
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(x, 'f', digits, 64))
	if err != nil {
		return x
	}
	return d.RoundBank(places).InexactFloat64()
}
