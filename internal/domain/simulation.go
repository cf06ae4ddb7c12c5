package domain

// Simulation defaults.
const (
	DefaultTrialCount       = 10000
	DefaultHorizonMonths    = 360
	DefaultIncomeVolatility = 0.15
)

// SimulationConfig is fixed for the duration of one simulation call.
type SimulationConfig struct {
	TrialCount       int     `json:"trialCount"`
	HorizonMonths    int     `json:"horizonMonths"`
	IncomeVolatility float64 `json:"incomeVolatility"`

	// Workers bounds trial parallelism. Zero means GOMAXPROCS.
	// It never changes the result, only how trials are scheduled.
	Workers int `json:"-"`
}

// DefaultSimulationConfig returns 10k trials over 30 years at 15% volatility.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TrialCount:       DefaultTrialCount,
		HorizonMonths:    DefaultHorizonMonths,
		IncomeVolatility: DefaultIncomeVolatility,
	}
}

// RiskLevel classifies a simulated success rate.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// TrialOutcome is the terminal state of one simulated repayment path.
type TrialOutcome int

const (
	// OutcomeUnclassified: the horizon ran out with neither payoff nor a missed payment.
	OutcomeUnclassified TrialOutcome = iota
	OutcomeSuccess
	OutcomeStruggle
)

func (o TrialOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeStruggle:
		return "struggle"
	default:
		return "unclassified"
	}
}

// OutcomeTally counts trials per terminal state. The three counts always sum
// to the trial count.
type OutcomeTally struct {
	Success      int
	Struggle     int
	Unclassified int
}

// SimulationResult aggregates all trials of one run.
type SimulationResult struct {
	SuccessRatePercent   float64   `json:"successRate"`
	Simulations          int       `json:"simulations"`
	AverageStruggleMonth *int      `json:"avgStruggleMonth"`
	RiskLevel            RiskLevel `json:"riskLevel"`

	// Outcomes is kept for metrics and logs; unclassified trials are not part
	// of the response contract.
	Outcomes OutcomeTally `json:"-"`
}

// SimulationRequest is the body of POST /v1/simulations.
type SimulationRequest struct {
	Loan      LoanParameters      `json:"loan"`
	Household HouseholdFinancials `json:"household"`

	// Optional overrides of the service defaults.
	TrialCount       *int     `json:"trialCount,omitempty"`
	HorizonMonths    *int     `json:"horizonMonths,omitempty"`
	IncomeVolatility *float64 `json:"incomeVolatility,omitempty"`

	// Seed makes the run reproducible (and cacheable). Nil draws a fresh seed.
	Seed *uint64 `json:"seed,omitempty"`
}
