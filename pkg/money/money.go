package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// multipleTolerance is the slack allowed when checking that an amount is a
// whole multiple of a unit amount.
const multipleTolerance = 1e-8

// Round2 rounds to cent precision, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Add returns a+b rounded to cents.
func Add(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// Times returns v*n rounded to cents.
func Times(v float64, n int) float64 {
	f, _ := decimal.NewFromFloat(v).Mul(decimal.NewFromInt(int64(n))).Round(2).Float64()
	return f
}

// Balance derives an available balance from plan totals:
// max(0, round2(deposited - fees - withdrawn)).
func Balance(deposited, fees, withdrawn float64) float64 {
	b := decimal.NewFromFloat(deposited).
		Sub(decimal.NewFromFloat(fees)).
		Sub(decimal.NewFromFloat(withdrawn)).
		Round(2)
	if b.IsNegative() {
		return 0
	}
	f, _ := b.Float64()
	return f
}

// IsMultiple reports whether amount is a positive whole multiple of unit.
func IsMultiple(amount, unit float64) bool {
	if amount <= 0 || unit <= 0 {
		return false
	}
	ratio := amount / unit
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return false
	}
	nearest := math.Round(ratio)
	return nearest >= 1 && math.Abs(nearest-ratio) <= multipleTolerance
}

// Format renders v with exactly two decimal places.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
