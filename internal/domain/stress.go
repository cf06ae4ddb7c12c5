package domain

import (
	"encoding/json"
	"math"
)

// Scenario keys, as they appear in reports.
const (
	ScenarioJobLoss         = "job_loss"
	ScenarioIncomeDrop      = "income_drop_20"
	ScenarioExpenseIncrease = "expense_increase_30"
	ScenarioRateIncrease    = "rate_increase"
	StressScenarioCount     = 4
)

// ResilienceLevel maps the number of passed scenarios to a label.
type ResilienceLevel string

const (
	ResilienceWeak      ResilienceLevel = "Weak"
	ResilienceFair      ResilienceLevel = "Fair"
	ResilienceGood      ResilienceLevel = "Good"
	ResilienceExcellent ResilienceLevel = "Excellent"
)

// JobLossResult reports how long the emergency fund covers expenses plus the
// loan payment with no income. MonthsCovered is +Inf when nothing is spent.
type JobLossResult struct {
	Passed        bool    `json:"passed"`
	MonthsCovered float64 `json:"monthsCovered"`
	Message       string  `json:"message"`
}

// Indefinite reports whether the fund never runs out (zero monthly burn).
func (r JobLossResult) Indefinite() bool {
	return math.IsInf(r.MonthsCovered, 1)
}

// MarshalJSON encodes an indefinite runway as null; JSON has no infinity.
func (r JobLossResult) MarshalJSON() ([]byte, error) {
	var months *float64
	if !r.Indefinite() {
		months = &r.MonthsCovered
	}
	return json.Marshal(struct {
		Passed        bool     `json:"passed"`
		MonthsCovered *float64 `json:"monthsCovered"`
		Indefinite    bool     `json:"indefinite"`
		Message       string   `json:"message"`
	}{r.Passed, months, r.Indefinite(), r.Message})
}

// UnmarshalJSON reverses MarshalJSON, restoring +Inf for an indefinite runway.
func (r *JobLossResult) UnmarshalJSON(b []byte) error {
	var v struct {
		Passed        bool     `json:"passed"`
		MonthsCovered *float64 `json:"monthsCovered"`
		Indefinite    bool     `json:"indefinite"`
		Message       string   `json:"message"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	r.Passed, r.Message = v.Passed, v.Message
	switch {
	case v.Indefinite:
		r.MonthsCovered = math.Inf(1)
	case v.MonthsCovered != nil:
		r.MonthsCovered = *v.MonthsCovered
	default:
		r.MonthsCovered = 0
	}
	return nil
}

// SurplusResult is the monthly surplus (positive) or deficit (negative) left
// after a stressed income or expense figure.
type SurplusResult struct {
	Passed    bool    `json:"passed"`
	Remaining float64 `json:"remaining"`
	Message   string  `json:"message"`
}

// RateIncreaseResult is the extra monthly cost of a rate rise.
type RateIncreaseResult struct {
	Passed       bool    `json:"passed"`
	ExtraMonthly float64 `json:"extraMonthly"`
	Message      string  `json:"message"`
}

// StressScenarios holds one result per scenario, keyed by scenario name in JSON.
type StressScenarios struct {
	JobLoss         JobLossResult      `json:"job_loss"`
	IncomeDrop      SurplusResult      `json:"income_drop_20"`
	ExpenseIncrease SurplusResult      `json:"expense_increase_30"`
	RateIncrease    RateIncreaseResult `json:"rate_increase"`
}

// Failed returns the keys of failed scenarios in report order.
func (s StressScenarios) Failed() []string {
	var failed []string
	if !s.JobLoss.Passed {
		failed = append(failed, ScenarioJobLoss)
	}
	if !s.IncomeDrop.Passed {
		failed = append(failed, ScenarioIncomeDrop)
	}
	if !s.ExpenseIncrease.Passed {
		failed = append(failed, ScenarioExpenseIncrease)
	}
	if !s.RateIncrease.Passed {
		failed = append(failed, ScenarioRateIncrease)
	}
	return failed
}

// StressTestReport aggregates the four scenarios.
type StressTestReport struct {
	Scenarios       StressScenarios `json:"scenarios"`
	PassedCount     int             `json:"passedCount"`
	TestsPassed     string          `json:"testsPassed"`
	Resilience      ResilienceLevel `json:"overallResilience"`
	Recommendations []string        `json:"recommendations"`
}

// StressTestRequest is the body of POST /v1/stress-tests.
type StressTestRequest struct {
	MonthlyPayment float64             `json:"monthlyPayment"`
	Household      HouseholdFinancials `json:"household"`
}
