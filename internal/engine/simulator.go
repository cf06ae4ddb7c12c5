package engine

import (
	"context"
	"math"
	"runtime"

	"github.com/boddenberg/homi-brain-go/internal/domain"

	"golang.org/x/sync/errgroup"
)

// cancelCheckEvery is how many trials a worker runs between context checks.
const cancelCheckEvery = 64

// Simulate runs cfg.TrialCount independent repayment paths of up to
// cfg.HorizonMonths months each and aggregates them.
//
// Each month the household's base monthly income is scaled by a shock
// factor of 1 + vol*z, z ~ N(0,1), floored at zero. If what is left after
// expenses covers the payment the loan amortizes one step, and a balance at
// or below zero ends the trial as a success. Otherwise the trial ends as a
// struggle at that month index. Trials that reach the horizon with neither
// are unclassified and count toward nothing but the total.
//
// Trials are spread over cfg.Workers goroutines, each drawing from
// src.Stream(trial), so the result depends only on src and the inputs.
// Cancelling ctx stops the run between trials.
func Simulate(
	ctx context.Context,
	loan domain.LoanParameters,
	household domain.HouseholdFinancials,
	cfg domain.SimulationConfig,
	src Source,
) (*domain.SimulationResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.TrialCount)

	p := trialParams{
		principal:     loan.Principal,
		monthlyRate:   loan.MonthlyRate(),
		payment:       loan.MonthlyPayment,
		monthlyIncome: household.MonthlyIncome(),
		expenses:      household.MonthlyExpenses,
		horizon:       cfg.HorizonMonths,
		volatility:    cfg.IncomeVolatility,
	}

	partials := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			t := &partials[w]
			for i := w; i < cfg.TrialCount; i += workers {
				if (i/workers)%cancelCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				outcome, month := p.run(src.Stream(i))
				t.add(outcome, month)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total tally
	for _, t := range partials {
		total.merge(t)
	}
	return total.result(cfg.TrialCount), nil
}

func validateConfig(cfg domain.SimulationConfig) error {
	if cfg.TrialCount <= 0 {
		return &domain.ErrValidation{Field: "trialCount", Message: "must be positive"}
	}
	if cfg.HorizonMonths <= 0 {
		return &domain.ErrValidation{Field: "horizonMonths", Message: "must be positive"}
	}
	if math.IsNaN(cfg.IncomeVolatility) || math.IsInf(cfg.IncomeVolatility, 0) || cfg.IncomeVolatility < 0 {
		return &domain.ErrValidation{Field: "incomeVolatility", Message: "must be a finite, non-negative fraction"}
	}
	return nil
}

type trialParams struct {
	principal     float64
	monthlyRate   float64
	payment       float64
	monthlyIncome float64
	expenses      float64
	horizon       int
	volatility    float64
}

// run walks one trial to its terminal state. month is the index at which the
// trial ended, or horizon if it never did.
func (p trialParams) run(s Sampler) (outcome domain.TrialOutcome, month int) {
	balance := p.principal
	for m := range p.horizon {
		factor := max(0, 1+p.volatility*s.NormFloat64())
		available := p.monthlyIncome*factor - p.expenses
		if available < p.payment {
			return domain.OutcomeStruggle, m
		}
		balance = AmortizationStep(balance, p.monthlyRate, p.payment)
		if balance <= 0 {
			return domain.OutcomeSuccess, m
		}
	}
	return domain.OutcomeUnclassified, p.horizon
}

// tally is one worker's running count. Integer sums keep the merged result
// independent of how trials were split.
type tally struct {
	success          int
	struggle         int
	unclassified     int
	struggleMonthSum int64
}

func (t *tally) add(o domain.TrialOutcome, month int) {
	switch o {
	case domain.OutcomeSuccess:
		t.success++
	case domain.OutcomeStruggle:
		t.struggle++
		t.struggleMonthSum += int64(month)
	default:
		t.unclassified++
	}
}

func (t *tally) merge(o tally) {
	t.success += o.success
	t.struggle += o.struggle
	t.unclassified += o.unclassified
	t.struggleMonthSum += o.struggleMonthSum
}

func (t tally) result(trials int) *domain.SimulationResult {
	rate := round2(100 * float64(t.success) / float64(trials))
	res := &domain.SimulationResult{
		SuccessRatePercent: rate,
		Simulations:        trials,
		RiskLevel:          RiskFor(rate),
		Outcomes: domain.OutcomeTally{
			Success:      t.success,
			Struggle:     t.struggle,
			Unclassified: t.unclassified,
		},
	}
	if t.struggle > 0 {
		avg := int(t.struggleMonthSum / int64(t.struggle))
		res.AverageStruggleMonth = &avg
	}
	return res
}

// RiskFor maps a success rate in percent to a risk level:
// >=90 Low, >=70 Moderate, >=50 High, otherwise Very High.
func RiskFor(successRatePercent float64) domain.RiskLevel {
	switch {
	case successRatePercent >= 90:
		return domain.RiskLow
	case successRatePercent >= 70:
		return domain.RiskModerate
	case successRatePercent >= 50:
		return domain.RiskHigh
	default:
		return domain.RiskVeryHigh
	}
}
