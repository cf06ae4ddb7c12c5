package service

import (
	"math"
	"net/mail"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// Request limits.
const (
	MaxTrialCount       = 200000
	MaxHorizonMonths    = 600
	MaxIncomeVolatility = 2.0
	MinCreditScore      = 300
	MaxCreditScore      = 850
	maxAssessmentList   = 100
	defaultListLimit    = 20
)

func invalid(field, msg string) error {
	return &domain.ErrValidation{Field: field, Message: msg}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(field string, v float64) error {
	if !finite(v) || v < 0 {
		return invalid(field, "must be a non-negative number")
	}
	return nil
}

func positive(field string, v float64) error {
	if !finite(v) || v <= 0 {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func validateRate(field string, r float64) error {
	if !finite(r) || r < 0 || r >= 1 {
		return invalid(field, "must be a fraction in [0, 1)")
	}
	return nil
}

func validateCreditScore(field string, score int) error {
	if score < MinCreditScore || score > MaxCreditScore {
		return invalid(field, "must be between 300 and 850")
	}
	return nil
}

func validateLoan(l domain.LoanParameters) error {
	if err := positive("loan.principal", l.Principal); err != nil {
		return err
	}
	if err := validateRate("loan.annualRate", l.AnnualRate); err != nil {
		return err
	}
	return positive("loan.monthlyPayment", l.MonthlyPayment)
}

// validateHousehold checks amounts; the credit score is checked only when
// the caller relies on it.
func validateHousehold(h domain.HouseholdFinancials) error {
	if err := nonNegative("household.annualIncome", h.AnnualIncome); err != nil {
		return err
	}
	if err := nonNegative("household.monthlyExpenses", h.MonthlyExpenses); err != nil {
		return err
	}
	return nonNegative("household.emergencyFund", h.EmergencyFund)
}

func validateSimulationConfig(c domain.SimulationConfig) error {
	if c.TrialCount < 1 || c.TrialCount > MaxTrialCount {
		return invalid("trialCount", "must be between 1 and 200000")
	}
	if c.HorizonMonths < 1 || c.HorizonMonths > MaxHorizonMonths {
		return invalid("horizonMonths", "must be between 1 and 600")
	}
	if !finite(c.IncomeVolatility) || c.IncomeVolatility < 0 || c.IncomeVolatility > MaxIncomeVolatility {
		return invalid("incomeVolatility", "must be between 0 and 2")
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" || !strings.Contains(addr.Address, ".") {
		return "", invalid("email", "must be a valid email address")
	}
	return strings.ToLower(addr.Address), nil
}
