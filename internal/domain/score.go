package domain

import "encoding/json"

// Decision is the headline verdict of a HōMI score.
type Decision string

const (
	DecisionYes    Decision = "YES"
	DecisionNotYet Decision = "NOT YET"
	DecisionNo     Decision = "NO"
)

// ScoreInputs feed the HōMI readiness score.
type ScoreInputs struct {
	AnnualIncome      float64 `json:"income"`
	MonthlyExpenses   float64 `json:"expenses"`
	DownPayment       float64 `json:"downPayment"`
	LoanAmount        float64 `json:"loanAmount"`
	AnnualRate        float64 `json:"interestRate"`
	CreditScore       int     `json:"creditScore"`
	PropertyPrice     float64 `json:"propertyPrice"`
	StressLevel       int     `json:"stressLevel"` // 1 (calm) .. 5 (very stressed)
	DeceptionDetected bool    `json:"deceptionDetected"`
}

// ScoreBreakdown splits the score into its weighted parts.
type ScoreBreakdown struct {
	Financial int `json:"financial"`
	Emotional int `json:"emotional"`
}

// HomiScore is the 0..100 readiness score with a decision and an action list.
// Recommendations are only produced for full assessments.
type HomiScore struct {
	Total           int              `json:"score"`
	Decision        Decision         `json:"decision"`
	Message         string           `json:"message"`
	Playbook        []string         `json:"playbook"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Breakdown       ScoreBreakdown   `json:"breakdown"`
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityAction Priority = "action"
)

// Recommendation is one prioritized next step.
type Recommendation struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// UnmarshalJSON also accepts a bare string, read as a recommendation
// without a priority.
func (r *Recommendation) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*r = Recommendation{Text: text}
		return nil
	}
	type plain Recommendation
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Recommendation(p)
	return nil
}

// ReadinessProfile carries the self-reported answers of an assessment that
// adjust the emotional score and drive recommendations.
type ReadinessProfile struct {
	Confidence    int    // 1..10, 0 reads as 5
	JobStability  string // "Very Unstable" .. "Very Stable"
	LifeStability string // "In Flux" .. "Very Stable"
	Timeline      string // "1-3 months", "3-6 months", "6-12 months", "12+ months"
	Location      string
}
