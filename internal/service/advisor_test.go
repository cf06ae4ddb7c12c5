package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/infra/cache"
	"github.com/boddenberg/homi-brain-go/internal/infra/memory"
	"github.com/boddenberg/homi-brain-go/internal/infra/observability"
	"github.com/boddenberg/homi-brain-go/internal/infra/resilience"
	"github.com/boddenberg/homi-brain-go/internal/port"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type failingStore struct {
	err error
}

func (f *failingStore) SaveAssessment(context.Context, *domain.Assessment) error { return f.err }
func (f *failingStore) ListAssessments(context.Context, int) ([]domain.Assessment, error) {
	return nil, f.err
}
func (f *failingStore) LogEvent(context.Context, string, map[string]any) error    { return f.err }
func (f *failingStore) JoinWaitlist(context.Context, *domain.WaitlistEntry) error { return f.err }
func (f *failingStore) CountWaitlist(context.Context) (int, error)                { return 0, f.err }

// --- Helpers ---

var testDefaults = domain.SimulationConfig{
	TrialCount:       500,
	HorizonMonths:    domain.DefaultHorizonMonths,
	IncomeVolatility: domain.DefaultIncomeVolatility,
}

func newAdvisor(t *testing.T, store port.AdvisorStore, slots int) (*service.Advisor, *observability.Metrics) {
	t.Helper()
	c := cache.New[[]byte](time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	m := observability.NewMetrics()
	return service.NewAdvisor(store, c, resilience.NewBulkhead(slots), testDefaults, m, zap.NewNop()), m
}

func seed(v uint64) *uint64 { return &v }

func referenceHousehold() domain.HouseholdFinancials {
	return domain.HouseholdFinancials{
		AnnualIncome:    120000,
		MonthlyExpenses: 3000,
		CreditScore:     740,
		EmergencyFund:   30000,
	}
}

func referenceSimulation() *domain.SimulationRequest {
	return &domain.SimulationRequest{
		Loan: domain.LoanParameters{
			Principal:      400000,
			AnnualRate:     0.07,
			MonthlyPayment: 2661.21,
		},
		Household: referenceHousehold(),
		Seed:      seed(42),
	}
}

// --- Simulate ---

func TestSimulate_SeededRunIsCached(t *testing.T) {
	svc, m := newAdvisor(t, memory.NewStore(), 2)
	ctx := context.Background()

	first, err := svc.Simulate(ctx, referenceSimulation())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.Simulate(ctx, referenceSimulation())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first.SuccessRatePercent != second.SuccessRatePercent || first.Simulations != second.Simulations {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if first.Simulations != testDefaults.TrialCount {
		t.Errorf("expected %d simulations, got %d", testDefaults.TrialCount, first.Simulations)
	}

	snap := m.GetSnapshot()
	if snap.CacheHits != 1 || snap.CacheMisses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %v/%v", snap.CacheHits, snap.CacheMisses)
	}
	if snap.SimulationsRun != 1 {
		t.Errorf("expected one engine run, got %v", snap.SimulationsRun)
	}
}

func TestSimulate_OverridesDefaults(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	trials := 50
	req := referenceSimulation()
	req.TrialCount = &trials

	res, err := svc.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Simulations != trials {
		t.Errorf("expected %d simulations, got %d", trials, res.Simulations)
	}
}

func TestSimulate_ValidationErrors(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	tooMany := service.MaxTrialCount + 1
	badVol := -0.1

	cases := []struct {
		name  string
		mut   func(r *domain.SimulationRequest)
		field string
	}{
		{"zero principal", func(r *domain.SimulationRequest) { r.Loan.Principal = 0 }, "loan.principal"},
		{"rate as percent", func(r *domain.SimulationRequest) { r.Loan.AnnualRate = 7 }, "loan.annualRate"},
		{"zero payment", func(r *domain.SimulationRequest) { r.Loan.MonthlyPayment = 0 }, "loan.monthlyPayment"},
		{"negative income", func(r *domain.SimulationRequest) { r.Household.AnnualIncome = -1 }, "household.annualIncome"},
		{"too many trials", func(r *domain.SimulationRequest) { r.TrialCount = &tooMany }, "trialCount"},
		{"negative volatility", func(r *domain.SimulationRequest) { r.IncomeVolatility = &badVol }, "incomeVolatility"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := referenceSimulation()
			tc.mut(req)

			_, err := svc.Simulate(context.Background(), req)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestSimulate_FullBulkheadIsUnavailable(t *testing.T) {
	c := cache.New[[]byte](time.Minute)
	defer c.Close()
	bh := resilience.NewBulkhead(1)
	if !bh.TryAcquire() {
		t.Fatal("expected to take the only slot")
	}
	defer bh.Release()

	svc := service.NewAdvisor(memory.NewStore(), c, bh, testDefaults, observability.NewMetrics(), zap.NewNop())

	_, err := svc.Simulate(context.Background(), referenceSimulation())
	var ue *domain.ErrUnavailable
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

// --- Affordability / Stress / Score ---

func TestEstimateAffordability_UsesHouseholdCreditScore(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	h := referenceHousehold()
	h.CreditScore = 760
	res, err := svc.EstimateAffordability(context.Background(), &domain.AffordabilityRequest{
		Household:   h,
		DownPayment: 50000,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.EstimatedAnnualRate != 0.065 {
		t.Errorf("expected rate 0.065, got %v", res.EstimatedAnnualRate)
	}
	if res.MaxPrice < res.RecommendedPrice {
		t.Errorf("max price %v below recommended %v", res.MaxPrice, res.RecommendedPrice)
	}
}

func TestEstimateAffordability_RejectsOutOfRangeCreditScore(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	_, err := svc.EstimateAffordability(context.Background(), &domain.AffordabilityRequest{
		Household:   referenceHousehold(),
		CreditScore: 900,
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) || ve.Field != "creditScore" {
		t.Fatalf("expected creditScore validation error, got %v", err)
	}
}

func TestStressTest_ReturnsFourScenarios(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	res, err := svc.StressTest(context.Background(), &domain.StressTestRequest{
		MonthlyPayment: 2000,
		Household: domain.HouseholdFinancials{
			AnnualIncome:    120000,
			MonthlyExpenses: 2000,
			EmergencyFund:   50000,
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.PassedCount != domain.StressScenarioCount {
		t.Errorf("expected all scenarios to pass, got %d", res.PassedCount)
	}
	if res.Resilience != domain.ResilienceExcellent {
		t.Errorf("expected Excellent, got %s", res.Resilience)
	}
}

func TestStressTest_CachedIndefiniteRunwaySurvives(t *testing.T) {
	svc, m := newAdvisor(t, memory.NewStore(), 1)
	req := &domain.StressTestRequest{
		Household: domain.HouseholdFinancials{AnnualIncome: 60000, EmergencyFund: 1000},
	}

	if _, err := svc.StressTest(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	res, err := svc.StressTest(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.GetSnapshot().CacheHits != 1 {
		t.Fatal("expected the second call to be served from cache")
	}
	if !res.Scenarios.JobLoss.Indefinite() {
		t.Errorf("expected indefinite runway after cache round trip, got %v", res.Scenarios.JobLoss.MonthsCovered)
	}
}

func TestScore_DefaultsStressLevel(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	in := domain.ScoreInputs{
		AnnualIncome:    150000,
		MonthlyExpenses: 500,
		DownPayment:     75000,
		LoanAmount:      225000,
		AnnualRate:      0.065,
		CreditScore:     780,
		PropertyPrice:   300000,
	}
	res, err := svc.Score(context.Background(), &in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Total < 0 || res.Total > 100 {
		t.Errorf("score out of range: %d", res.Total)
	}
	if in.StressLevel != 0 {
		t.Error("request inputs must not be modified")
	}
}

// --- Assess ---

func assessmentRequest() *domain.AssessmentRequest {
	return &domain.AssessmentRequest{
		Household: domain.HouseholdFinancials{
			AnnualIncome:    120000,
			MonthlyExpenses: 3000,
			EmergencyFund:   30000,
		},
		DownPayment:      100000,
		PropertyPrice:    500000,
		CreditScoreRange: "740-799",
		Confidence:       8,
		JobStability:     "very stable",
		LifeStability:    "stable",
		Location:         "Austin, TX",
		Seed:             seed(7),
	}
}

func TestAssess_RunsEverythingAndPersists(t *testing.T) {
	store := memory.NewStore()
	svc, m := newAdvisor(t, store, 2)

	out, err := svc.Assess(context.Background(), assessmentRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.ID == "" {
		t.Error("expected an assessment id")
	}
	if out.Household.CreditScore != 770 {
		t.Errorf("expected credit score from range (770), got %d", out.Household.CreditScore)
	}
	if out.Loan.Principal != 400000 {
		t.Errorf("expected principal 400000, got %v", out.Loan.Principal)
	}
	if out.Loan.AnnualRate != 0.065 {
		t.Errorf("expected rate 0.065, got %v", out.Loan.AnnualRate)
	}
	if out.Simulation == nil || out.Affordability == nil || out.StressTest == nil || out.Score == nil {
		t.Fatalf("expected every analysis to be filled: %+v", out)
	}

	saved, err := store.ListAssessments(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != out.ID {
		t.Errorf("expected the assessment to be saved, got %+v", saved)
	}

	events := store.Events()
	if len(events) != 1 || events[0].Type != domain.EventAssessmentCompleted {
		t.Errorf("expected one assessment_completed event, got %+v", events)
	}

	snap := m.GetSnapshot()
	if snap.AssessmentsByDecision[string(out.Score.Decision)] != 1 {
		t.Errorf("expected assessment counted under %s", out.Score.Decision)
	}
}

func TestAssess_SameSeedSameSimulation(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	a, err := svc.Assess(context.Background(), assessmentRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := svc.Assess(context.Background(), assessmentRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Simulation.SuccessRatePercent != b.Simulation.SuccessRatePercent {
		t.Errorf("expected equal success rates, got %v and %v",
			a.Simulation.SuccessRatePercent, b.Simulation.SuccessRatePercent)
	}
	if a.ID == b.ID {
		t.Error("expected distinct assessment ids")
	}
}

func TestAssess_StoreFailureIsNotFatal(t *testing.T) {
	svc, m := newAdvisor(t, &failingStore{err: errors.New("connection refused")}, 2)

	out, err := svc.Assess(context.Background(), assessmentRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Score == nil {
		t.Fatal("expected a score")
	}
	if got := m.GetSnapshot().StoreErrors; got != 1 {
		t.Errorf("expected 1 store error, got %v", got)
	}
}

func TestAssess_DownPaymentMustBeBelowPrice(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	req := assessmentRequest()
	req.DownPayment = req.PropertyPrice

	_, err := svc.Assess(context.Background(), req)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) || ve.Field != "downPayment" {
		t.Fatalf("expected downPayment validation error, got %v", err)
	}
}

func TestAssess_TimelineShiftsEmotionalScore(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAdvisor(t, store, 2)

	assess := func(timeline string) *domain.Assessment {
		req := assessmentRequest()
		req.Confidence = 5
		req.JobStability = "Stable"
		req.Timeline = timeline
		out, err := svc.Assess(context.Background(), req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return out
	}

	rushed := assess("1-3 months")
	patient := assess("12+ months")

	if rushed.Score.Breakdown.Emotional != 70 {
		t.Errorf("expected emotional 70 for a rushed timeline, got %d", rushed.Score.Breakdown.Emotional)
	}
	if patient.Score.Breakdown.Emotional != 85 {
		t.Errorf("expected emotional 85 for a long timeline, got %d", patient.Score.Breakdown.Emotional)
	}
	if rushed.Timeline != "1-3 months" {
		t.Errorf("expected timeline kept on the assessment, got %q", rushed.Timeline)
	}
	if rushed.Score.Message == "" || len(rushed.Score.Recommendations) == 0 {
		t.Errorf("expected a message and recommendations, got %+v", rushed.Score)
	}

	saved, err := store.ListAssessments(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saved) != 2 || saved[0].Timeline == "" || saved[1].Timeline == "" {
		t.Errorf("expected timelines to be persisted, got %+v", saved)
	}
}

func TestAssess_ConfidenceRange(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	for _, c := range []int{-1, 11} {
		req := assessmentRequest()
		req.Confidence = c
		_, err := svc.Assess(context.Background(), req)
		var ve *domain.ErrValidation
		if !errors.As(err, &ve) || ve.Field != "confidence" {
			t.Fatalf("confidence %d: expected confidence validation error, got %v", c, err)
		}
		if ve.Message != "must be between 1 and 10, or 0 for the default of 5" {
			t.Errorf("unexpected message %q", ve.Message)
		}
	}

	req := assessmentRequest()
	req.Confidence = 0
	if _, err := svc.Assess(context.Background(), req); err != nil {
		t.Fatalf("expected confidence 0 to use the default, got %v", err)
	}
}

func TestAssess_CancelledContext(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Assess(ctx, assessmentRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecentAssessments_StoreError(t *testing.T) {
	svc, _ := newAdvisor(t, &failingStore{err: errors.New("boom")}, 1)

	if _, err := svc.RecentAssessments(context.Background(), 5); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRecentAssessments_EmptyIsNotNil(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	list, err := svc.RecentAssessments(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list == nil {
		t.Error("expected an empty slice, got nil")
	}
}

func TestMetricsSummary_ReportsInFlight(t *testing.T) {
	c := cache.New[[]byte](time.Minute)
	defer c.Close()
	bh := resilience.NewBulkhead(3)
	bh.TryAcquire()
	defer bh.Release()

	svc := service.NewAdvisor(memory.NewStore(), c, bh, testDefaults, observability.NewMetrics(), zap.NewNop())
	if got := svc.MetricsSummary().SimulationsInFlight; got != 1 {
		t.Errorf("expected 1 in flight, got %d", got)
	}
}
