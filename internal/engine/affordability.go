package engine

import (
	"github.com/boddenberg/homi-brain-go/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Front-end debt-to-income ratios: the lender ceiling and the comfortable target.
	maxFrontEndRatio         = 0.28
	recommendedFrontEndRatio = 0.25

	mortgageTermMonths = 360
)

// RateForCreditScore maps a credit score onto the annual rate table.
func RateForCreditScore(score int) float64 {
	switch {
	case score >= 760:
		return 0.065
	case score >= 700:
		return 0.07
	case score >= 660:
		return 0.075
	case score >= 620:
		return 0.085
	default:
		return 0.095
	}
}

var usd = message.NewPrinter(language.AmericanEnglish)

// EstimateAffordability prices the home a household can carry on a 30-year
// loan at 28% (maximum) and 25% (recommended) of gross monthly income, plus
// the down payment. Currency outputs are rounded to cents.
func EstimateAffordability(household domain.HouseholdFinancials, creditScore int, downPayment float64) *domain.AffordabilityResult {
	monthlyIncome := household.MonthlyIncome()
	maxPayment := monthlyIncome * maxFrontEndRatio
	recommendedPayment := monthlyIncome * recommendedFrontEndRatio

	rate := RateForCreditScore(creditScore)
	monthlyRate := rate / 12

	maxPrice := PresentValue(maxPayment, monthlyRate, mortgageTermMonths) + downPayment
	recommendedPrice := PresentValue(recommendedPayment, monthlyRate, mortgageTermMonths) + downPayment

	return &domain.AffordabilityResult{
		MaxPrice:                  round2(maxPrice),
		RecommendedPrice:          round2(recommendedPrice),
		MaxMonthlyPayment:         round2(maxPayment),
		RecommendedMonthlyPayment: round2(recommendedPayment),
		EstimatedAnnualRate:       rate,
		Reasoning:                 affordabilityReasoning(household.AnnualIncome, maxPrice, recommendedPrice),
	}
}

func affordabilityReasoning(annualIncome, maxPrice, recommendedPrice float64) string {
	return usd.Sprintf(
		"Based on your income of $%.0f/year, you could technically afford up to $%.0f, "+
			"but we recommend staying around $%.0f to maintain financial comfort and flexibility.",
		annualIncome, maxPrice, recommendedPrice,
	)
}
