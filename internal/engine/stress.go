package engine

import (
	"fmt"
	"math"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

const (
	minRunwayMonths    = 6
	incomeDropFraction = 0.20
	expenseRiseFactor  = 1.30

	// A two point rise is priced against a 7% baseline rate.
	rateShock    = 0.02
	baselineRate = 0.07
)

var stressRecommendations = map[string]string{
	domain.ScenarioJobLoss:         "Build a larger emergency fund (6+ months)",
	domain.ScenarioIncomeDrop:      "Consider a lower home price to increase financial buffer",
	domain.ScenarioExpenseIncrease: "Review and reduce non-essential expenses",
	domain.ScenarioRateIncrease:    "Consider a fixed-rate mortgage for stability",
}

const allPassedRecommendation = "You're well-prepared for financial uncertainties!"

// StressTest runs the four what-if scenarios against a monthly payment.
func StressTest(monthlyPayment float64, household domain.HouseholdFinancials) *domain.StressTestReport {
	scenarios := domain.StressScenarios{
		JobLoss:         JobLoss(household.EmergencyFund, household.MonthlyExpenses, monthlyPayment),
		IncomeDrop:      IncomeDrop(household.MonthlyIncome(), household.MonthlyExpenses, monthlyPayment),
		ExpenseIncrease: ExpenseIncrease(household.MonthlyIncome(), household.MonthlyExpenses, monthlyPayment),
		RateIncrease:    RateIncrease(monthlyPayment, household.MonthlyIncome()-household.MonthlyExpenses-monthlyPayment),
	}

	failed := scenarios.Failed()
	passed := domain.StressScenarioCount - len(failed)

	recs := make([]string, 0, max(len(failed), 1))
	for _, key := range failed {
		recs = append(recs, stressRecommendations[key])
	}
	if len(recs) == 0 {
		recs = append(recs, allPassedRecommendation)
	}

	return &domain.StressTestReport{
		Scenarios:       scenarios,
		PassedCount:     passed,
		TestsPassed:     fmt.Sprintf("%d/%d", passed, domain.StressScenarioCount),
		Resilience:      ResilienceFor(passed),
		Recommendations: recs,
	}
}

// JobLoss is how many months the fund covers expenses plus the payment with
// no income. Zero burn never runs the fund down.
func JobLoss(emergencyFund, monthlyExpenses, monthlyPayment float64) domain.JobLossResult {
	burn := monthlyExpenses + monthlyPayment
	if burn <= 0 {
		return domain.JobLossResult{
			Passed:        true,
			MonthsCovered: math.Inf(1),
			Message:       "Can survive indefinitely without income",
		}
	}
	months := emergencyFund / burn
	return domain.JobLossResult{
		Passed:        months >= minRunwayMonths,
		MonthsCovered: round1(months),
		Message:       fmt.Sprintf("Can survive %.1f months without income", round1(months)),
	}
}

// IncomeDrop is the monthly surplus after a 20% income cut.
func IncomeDrop(monthlyIncome, monthlyExpenses, monthlyPayment float64) domain.SurplusResult {
	left := monthlyIncome*(1-incomeDropFraction) - monthlyExpenses - monthlyPayment
	return surplus(left, fmt.Sprintf("$%.2f %s per month", math.Abs(left), pick(left >= 0, "surplus", "deficit")))
}

// ExpenseIncrease is the monthly cushion after expenses rise 30%.
func ExpenseIncrease(monthlyIncome, monthlyExpenses, monthlyPayment float64) domain.SurplusResult {
	left := monthlyIncome - monthlyExpenses*expenseRiseFactor - monthlyPayment
	return surplus(left, fmt.Sprintf("$%.2f %s", math.Abs(left), pick(left >= 0, "cushion", "shortfall")))
}

// RateIncrease prices a rate rise as a proportional bump of the payment and
// passes when the current monthly surplus absorbs it.
func RateIncrease(monthlyPayment, available float64) domain.RateIncreaseResult {
	extra := monthlyPayment * (rateShock / baselineRate)
	return domain.RateIncreaseResult{
		Passed:       available >= extra,
		ExtraMonthly: round2(extra),
		Message:      fmt.Sprintf("$%.2f extra per month", extra),
	}
}

// ResilienceFor labels a count of passed scenarios.
func ResilienceFor(passed int) domain.ResilienceLevel {
	switch {
	case passed >= 4:
		return domain.ResilienceExcellent
	case passed == 3:
		return domain.ResilienceGood
	case passed == 2:
		return domain.ResilienceFair
	default:
		return domain.ResilienceWeak
	}
}

func surplus(left float64, msg string) domain.SurplusResult {
	return domain.SurplusResult{Passed: left >= 0, Remaining: round2(left), Message: msg}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
