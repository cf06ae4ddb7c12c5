package domain

// AffordabilityResult is the closed-form price estimate for a household.
// EstimatedAnnualRate is a fraction (0.065 for 6.5%).
type AffordabilityResult struct {
	MaxPrice                  float64 `json:"maxPrice"`
	RecommendedPrice          float64 `json:"recommendedPrice"`
	MaxMonthlyPayment         float64 `json:"maxMonthlyPayment"`
	RecommendedMonthlyPayment float64 `json:"recommendedMonthlyPayment"`
	EstimatedAnnualRate       float64 `json:"estimatedRate"`
	Reasoning                 string  `json:"reasoning"`
}

// AffordabilityRequest is the body of POST /v1/affordability.
type AffordabilityRequest struct {
	Household   HouseholdFinancials `json:"household"`
	CreditScore int                 `json:"creditScore"`
	DownPayment float64             `json:"downPayment"`
}
