// Package domain defines the core entities of the homebuying affordability
// engine. These models are independent of transport and storage and are the
// canonical data structures passed between engine, service and handler.
package domain

// ============================================================
// Loan / Household inputs
// ============================================================

// LoanParameters describes a single fixed-rate amortizing loan.
// AnnualRate is a fraction (0.07 for 7%).
type LoanParameters struct {
	Principal      float64 `json:"principal"`
	AnnualRate     float64 `json:"annualRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// MonthlyRate is the nominal monthly rate, AnnualRate/12 with no compounding adjustment.
func (l LoanParameters) MonthlyRate() float64 {
	return l.AnnualRate / 12
}

// HouseholdFinancials is the household side of an affordability question.
type HouseholdFinancials struct {
	AnnualIncome    float64 `json:"annualIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	CreditScore     int     `json:"creditScore"`
	EmergencyFund   float64 `json:"emergencyFund"`
}

// MonthlyIncome is gross annual income spread evenly over twelve months.
func (h HouseholdFinancials) MonthlyIncome() float64 {
	return h.AnnualIncome / 12
}
