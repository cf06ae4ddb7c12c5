package engine

import "math"

// MonthlyPayment is the level payment that retires principal over months at
// annualRate/12 per month. A zero rate degrades to straight-line repayment.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / float64(months)
	}
	f := math.Pow(1+r, float64(months))
	return principal * r * f / (f - 1)
}

// PresentValue is the loan amount a level payment can carry over months at
// monthlyRate: payment * (1 - (1+r)^-n) / r, or payment*n when r is zero.
func PresentValue(payment, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return payment * float64(months)
	}
	return payment * (1 - math.Pow(1+monthlyRate, -float64(months))) / monthlyRate
}

// AmortizationStep applies one on-time payment and returns the new balance.
// Interest accrues on the opening balance at the nominal monthly rate.
func AmortizationStep(balance, monthlyRate, payment float64) float64 {
	interest := balance * monthlyRate
	return balance - (payment - interest)
}
