package engine

import "github.com/shopspring/decimal"

// round2 rounds half away from zero to cents.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
