package domain

import "time"

// ============================================================
// Combined assessment (POST /v1/assessments)
// ============================================================

// AssessmentRequest describes a household looking at a specific property.
type AssessmentRequest struct {
	Household     HouseholdFinancials `json:"household"`
	DownPayment   float64             `json:"downPayment"`
	PropertyPrice float64             `json:"propertyPrice"`

	// CreditScoreRange ("740-799") is used when Household.CreditScore is zero.
	CreditScoreRange string `json:"creditScoreRange,omitempty"`

	// AnnualRate overrides the rate implied by the credit score.
	AnnualRate *float64 `json:"annualRate,omitempty"`

	// Self-reported readiness inputs, 1..10 confidence and stability labels.
	Confidence        int    `json:"confidence,omitempty"`
	JobStability      string `json:"jobStability,omitempty"`
	LifeStability     string `json:"lifeStability,omitempty"`
	DeceptionDetected bool   `json:"deceptionDetected,omitempty"`

	Location string  `json:"location,omitempty"`
	Timeline string  `json:"timeline,omitempty"`
	Email    string  `json:"email,omitempty"`
	Seed     *uint64 `json:"seed,omitempty"`
}

// Assessment is the persisted outcome of one combined assessment.
type Assessment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Email     string    `json:"email,omitempty"`
	Location  string    `json:"location,omitempty"`
	Timeline  string    `json:"timeline,omitempty"`

	Household     HouseholdFinancials `json:"household"`
	Loan          LoanParameters      `json:"loan"`
	DownPayment   float64             `json:"downPayment"`
	PropertyPrice float64             `json:"propertyPrice"`

	Simulation    *SimulationResult    `json:"simulation"`
	Affordability *AffordabilityResult `json:"affordability"`
	StressTest    *StressTestReport    `json:"stressTest"`
	Score         *HomiScore           `json:"score"`
}

// ============================================================
// Events / Waitlist
// ============================================================

// Event types written alongside assessments and waitlist sign-ups.
const (
	EventAssessmentCompleted = "assessment_completed"
	EventWaitlistJoined      = "waitlist_joined"
)

// Event is an append-only analytics record.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"event_type"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// WaitlistEntry is one sign-up.
type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Score     *int      `json:"score,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// WaitlistRequest is the body of POST /v1/waitlist.
type WaitlistRequest struct {
	Email  string `json:"email"`
	Score  *int   `json:"score,omitempty"`
	Source string `json:"source,omitempty"`
}
