// Package service orchestrates the affordability engine with caching,
// persistence, metrics and tracing.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/engine"
	"github.com/boddenberg/homi-brain-go/internal/infra/observability"
	"github.com/boddenberg/homi-brain-go/internal/infra/resilience"
	"github.com/boddenberg/homi-brain-go/internal/port"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/advisor")

// Advisor runs simulations, affordability estimates, stress tests and
// scores, and records completed assessments.
type Advisor struct {
	store    port.AdvisorStore
	cache    port.Cache[[]byte]
	bulkhead *resilience.Bulkhead
	defaults domain.SimulationConfig
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdvisor creates the advisor service with all dependencies injected.
// defaults fills simulation settings a request leaves out.
func NewAdvisor(
	store port.AdvisorStore,
	cache port.Cache[[]byte],
	bulkhead *resilience.Bulkhead,
	defaults domain.SimulationConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Advisor {
	return &Advisor{
		store:    store,
		cache:    cache,
		bulkhead: bulkhead,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// ============================================================
// Simulation — POST /v1/simulations
// ============================================================

// Simulate runs the Monte Carlo repayment simulation. Seeded requests are
// reproducible and cached; unseeded ones draw a fresh seed each time.
func (a *Advisor) Simulate(ctx context.Context, req *domain.SimulationRequest) (*domain.SimulationResult, error) {
	ctx, span := tracer.Start(ctx, "Advisor.Simulate")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("simulate", time.Since(start))
	}()

	if err := validateLoan(req.Loan); err != nil {
		return nil, err
	}
	if err := validateHousehold(req.Household); err != nil {
		return nil, err
	}
	cfg := a.simulationConfig(req)
	if err := validateSimulationConfig(cfg); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("simulation.trials", cfg.TrialCount),
		attribute.Int("simulation.horizon_months", cfg.HorizonMonths),
	)

	if req.Seed == nil {
		return a.runSimulation(ctx, req.Loan, req.Household, cfg, engine.NewSeed())
	}

	key := struct {
		Loan      domain.LoanParameters      `json:"loan"`
		Household domain.HouseholdFinancials `json:"household"`
		Config    domain.SimulationConfig    `json:"config"`
		Seed      uint64                     `json:"seed"`
	}{req.Loan, req.Household, cfg, *req.Seed}

	return cached(ctx, a, observability.CacheSimulation, key, func() (*domain.SimulationResult, error) {
		return a.runSimulation(ctx, req.Loan, req.Household, cfg, *req.Seed)
	})
}

func (a *Advisor) simulationConfig(req *domain.SimulationRequest) domain.SimulationConfig {
	cfg := a.defaults
	if req.TrialCount != nil {
		cfg.TrialCount = *req.TrialCount
	}
	if req.HorizonMonths != nil {
		cfg.HorizonMonths = *req.HorizonMonths
	}
	if req.IncomeVolatility != nil {
		cfg.IncomeVolatility = *req.IncomeVolatility
	}
	return cfg
}

// runSimulation holds a bulkhead slot for the duration of the run. A full
// bulkhead is reported as *domain.ErrUnavailable rather than queued.
func (a *Advisor) runSimulation(
	ctx context.Context,
	loan domain.LoanParameters,
	household domain.HouseholdFinancials,
	cfg domain.SimulationConfig,
	seed uint64,
) (*domain.SimulationResult, error) {
	if !a.bulkhead.TryAcquire() {
		a.logger.Warn("simulation rejected: bulkhead full", zap.Int("in_flight", a.bulkhead.InUse()))
		return nil, &domain.ErrUnavailable{Resource: "simulation"}
	}
	defer a.bulkhead.Release()

	res, err := engine.Simulate(ctx, loan, household, cfg, engine.SeededSource{Seed: seed})
	if err != nil {
		return nil, err
	}
	a.metrics.RecordSimulation(res.Outcomes)

	a.logger.Debug("simulation finished",
		zap.Uint64("seed", seed),
		zap.Int("trials", res.Simulations),
		zap.Float64("success_rate", res.SuccessRatePercent),
		zap.Int("unclassified", res.Outcomes.Unclassified),
	)
	return res, nil
}

// ============================================================
// Affordability — POST /v1/affordability
// ============================================================

// EstimateAffordability prices the home a household can carry. A zero
// CreditScore in the request falls back to the household's.
func (a *Advisor) EstimateAffordability(ctx context.Context, req *domain.AffordabilityRequest) (*domain.AffordabilityResult, error) {
	ctx, span := tracer.Start(ctx, "Advisor.EstimateAffordability")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("affordability", time.Since(start))
	}()

	if err := validateHousehold(req.Household); err != nil {
		return nil, err
	}
	if err := nonNegative("downPayment", req.DownPayment); err != nil {
		return nil, err
	}
	score := req.CreditScore
	if score == 0 {
		score = req.Household.CreditScore
	}
	if err := validateCreditScore("creditScore", score); err != nil {
		return nil, err
	}

	key := domain.AffordabilityRequest{Household: req.Household, CreditScore: score, DownPayment: req.DownPayment}
	return cached(ctx, a, observability.CacheAffordability, key, func() (*domain.AffordabilityResult, error) {
		return engine.EstimateAffordability(req.Household, score, req.DownPayment), nil
	})
}

// ============================================================
// Stress test — POST /v1/stress-tests
// ============================================================

// StressTest runs the four what-if scenarios.
func (a *Advisor) StressTest(ctx context.Context, req *domain.StressTestRequest) (*domain.StressTestReport, error) {
	ctx, span := tracer.Start(ctx, "Advisor.StressTest")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("stress_test", time.Since(start))
	}()

	if err := validateHousehold(req.Household); err != nil {
		return nil, err
	}
	if err := nonNegative("monthlyPayment", req.MonthlyPayment); err != nil {
		return nil, err
	}

	return cached(ctx, a, observability.CacheStress, req, func() (*domain.StressTestReport, error) {
		return engine.StressTest(req.MonthlyPayment, req.Household), nil
	})
}

// ============================================================
// Score — POST /v1/score
// ============================================================

// Score computes the HōMI readiness score. A zero StressLevel reads as 3.
func (a *Advisor) Score(ctx context.Context, in *domain.ScoreInputs) (*domain.HomiScore, error) {
	ctx, span := tracer.Start(ctx, "Advisor.Score")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("score", time.Since(start))
	}()

	inputs := *in
	if inputs.StressLevel == 0 {
		inputs.StressLevel = 3
	}
	if err := validateScoreInputs(inputs); err != nil {
		return nil, err
	}

	return cached(ctx, a, observability.CacheScore, inputs, func() (*domain.HomiScore, error) {
		return engine.Score(inputs), nil
	})
}

func validateScoreInputs(in domain.ScoreInputs) error {
	amounts := []struct {
		field string
		v     float64
	}{
		{"income", in.AnnualIncome},
		{"expenses", in.MonthlyExpenses},
		{"downPayment", in.DownPayment},
		{"loanAmount", in.LoanAmount},
		{"propertyPrice", in.PropertyPrice},
	}
	for _, a := range amounts {
		if err := nonNegative(a.field, a.v); err != nil {
			return err
		}
	}
	if err := validateRate("interestRate", in.AnnualRate); err != nil {
		return err
	}
	if err := validateCreditScore("creditScore", in.CreditScore); err != nil {
		return err
	}
	if in.StressLevel < 1 || in.StressLevel > 5 {
		return invalid("stressLevel", "must be between 1 and 5")
	}
	return nil
}

// ============================================================
// Caching
// ============================================================

// cacheKey hashes the JSON encoding of v. Struct fields encode in
// declaration order, so equal requests give equal keys.
func cacheKey(name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%016x", name, xxhash.Sum64(b)), nil
}

// cached serves a deterministic computation from the cache, storing the
// JSON encoding of fresh results. Cache failures never fail the request.
func cached[T any](ctx context.Context, a *Advisor, name string, keyOf any, compute func() (*T, error)) (*T, error) {
	key, err := cacheKey(name, keyOf)
	if err != nil {
		return compute()
	}

	if b, ok := a.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			a.metrics.IncrCacheHit(name)
			return &v, nil
		}
		a.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = a.cache.Delete(ctx, key)
	}
	a.metrics.IncrCacheMiss(name)

	v, err := compute()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := a.cache.Set(ctx, key, b); err != nil {
			a.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

// ============================================================
// Assessment — POST /v1/assessments
// ============================================================

// Assess derives a 30-year loan for the property, runs every analysis
// concurrently and records the result. Persistence failures are logged and
// counted but do not fail the request.
func (a *Advisor) Assess(ctx context.Context, req *domain.AssessmentRequest) (*domain.Assessment, error) {
	// Bail out early if the caller already cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Advisor.Assess")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("assess", time.Since(start))
	}()

	household, loan, err := a.prepareAssessment(req)
	if err != nil {
		return nil, err
	}

	seed := engine.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	out := &domain.Assessment{
		ID:            uuid.NewString(),
		CreatedAt:     a.now().UTC(),
		Email:         req.Email,
		Location:      req.Location,
		Timeline:      strings.TrimSpace(req.Timeline),
		Household:     household,
		Loan:          loan,
		DownPayment:   req.DownPayment,
		PropertyPrice: req.PropertyPrice,
	}
	span.SetAttributes(attribute.String("assessment.id", out.ID))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := a.runSimulation(gCtx, loan, household, a.defaults, seed)
		if err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		out.Simulation = res
		return nil
	})
	g.Go(func() error {
		out.Affordability = engine.EstimateAffordability(household, household.CreditScore, req.DownPayment)
		return nil
	})
	g.Go(func() error {
		out.StressTest = engine.StressTest(loan.MonthlyPayment, household)
		return nil
	})
	g.Go(func() error {
		out.Score = engine.AssessmentScore(domain.ScoreInputs{
			AnnualIncome:      household.AnnualIncome,
			MonthlyExpenses:   household.MonthlyExpenses,
			DownPayment:       req.DownPayment,
			LoanAmount:        loan.Principal,
			AnnualRate:        loan.AnnualRate,
			CreditScore:       household.CreditScore,
			PropertyPrice:     req.PropertyPrice,
			DeceptionDetected: req.DeceptionDetected,
		}, domain.ReadinessProfile{
			Confidence:    req.Confidence,
			JobStability:  req.JobStability,
			LifeStability: req.LifeStability,
			Timeline:      req.Timeline,
			Location:      req.Location,
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.metrics.IncrAssessment(out.Score.Decision)
	a.persistAssessment(ctx, out)

	a.logger.Info("assessment completed",
		zap.String("assessment_id", out.ID),
		zap.Int("score", out.Score.Total),
		zap.String("decision", string(out.Score.Decision)),
		zap.Float64("success_rate", out.Simulation.SuccessRatePercent),
		zap.String("resilience", string(out.StressTest.Resilience)),
	)
	return out, nil
}

// prepareAssessment validates the request and resolves the credit score,
// rate and loan it implies.
func (a *Advisor) prepareAssessment(req *domain.AssessmentRequest) (domain.HouseholdFinancials, domain.LoanParameters, error) {
	household := req.Household
	if err := validateHousehold(household); err != nil {
		return household, domain.LoanParameters{}, err
	}
	if err := positive("propertyPrice", req.PropertyPrice); err != nil {
		return household, domain.LoanParameters{}, err
	}
	if err := nonNegative("downPayment", req.DownPayment); err != nil {
		return household, domain.LoanParameters{}, err
	}
	if req.DownPayment >= req.PropertyPrice {
		return household, domain.LoanParameters{}, invalid("downPayment", "must be less than the property price")
	}
	if req.Confidence < 0 || req.Confidence > 10 {
		return household, domain.LoanParameters{}, invalid("confidence", "must be between 1 and 10, or 0 for the default of 5")
	}

	if household.CreditScore == 0 {
		household.CreditScore = engine.CreditScoreFromRange(req.CreditScoreRange)
	}
	if err := validateCreditScore("household.creditScore", household.CreditScore); err != nil {
		return household, domain.LoanParameters{}, err
	}

	rate := engine.RateForCreditScore(household.CreditScore)
	if req.AnnualRate != nil {
		rate = *req.AnnualRate
		if err := validateRate("annualRate", rate); err != nil {
			return household, domain.LoanParameters{}, err
		}
	}

	principal := req.PropertyPrice - req.DownPayment
	loan := domain.LoanParameters{
		Principal:      principal,
		AnnualRate:     rate,
		MonthlyPayment: engine.MonthlyPayment(principal, rate, domain.DefaultHorizonMonths),
	}
	return household, loan, nil
}

func (a *Advisor) persistAssessment(ctx context.Context, out *domain.Assessment) {
	if err := a.store.SaveAssessment(ctx, out); err != nil {
		a.metrics.IncrStoreError("save_assessment")
		a.logger.Error("failed to save assessment",
			zap.String("assessment_id", out.ID),
			zap.Error(err),
		)
		return
	}

	props := map[string]any{
		"assessment_id": out.ID,
		"score":         out.Score.Total,
		"decision":      out.Score.Decision,
	}
	if out.Location != "" {
		props["location"] = out.Location
	}
	if err := a.store.LogEvent(ctx, domain.EventAssessmentCompleted, props); err != nil {
		a.metrics.IncrStoreError("log_event")
		a.logger.Warn("failed to log assessment event", zap.Error(err))
	}
}

// RecentAssessments lists the newest assessments for the coach dashboard.
// limit is clamped to 1..100, with 0 meaning 20.
func (a *Advisor) RecentAssessments(ctx context.Context, limit int) ([]domain.Assessment, error) {
	ctx, span := tracer.Start(ctx, "Advisor.RecentAssessments")
	defer span.End()

	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxAssessmentList:
		limit = maxAssessmentList
	}

	list, err := a.store.ListAssessments(ctx, limit)
	if err != nil {
		a.metrics.IncrStoreError("list_assessments")
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if list == nil {
		list = []domain.Assessment{}
	}
	return list, nil
}

// MetricsSummary reads the counters back with the current simulation load.
func (a *Advisor) MetricsSummary() *domain.MetricsSummary {
	s := a.metrics.GetSnapshot()
	s.SimulationsInFlight = a.bulkhead.InUse()
	return s
}
