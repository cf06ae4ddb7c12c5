package engine_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLoss_SixMonthBoundary(t *testing.T) {
	r := engine.JobLoss(12000, 1000, 1000)
	assert.True(t, r.Passed)
	assert.Equal(t, 6.0, r.MonthsCovered)
	assert.Equal(t, "Can survive 6.0 months without income", r.Message)

	// 5.9995 rounds to 6.0 for display but is still short of six months.
	r = engine.JobLoss(11999, 1000, 1000)
	assert.False(t, r.Passed)
	assert.Equal(t, 6.0, r.MonthsCovered)
}

func TestJobLoss_ZeroBurnIsIndefinite(t *testing.T) {
	r := engine.JobLoss(0, 0, 0)
	assert.True(t, r.Passed)
	assert.True(t, math.IsInf(r.MonthsCovered, 1))
	assert.True(t, r.Indefinite())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"passed":true,"monthsCovered":null,"indefinite":true,"message":"Can survive indefinitely without income"}`, string(b))

	var back domain.JobLossResult
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Indefinite())
	assert.Equal(t, r.Message, back.Message)
}

func TestRateIncrease_ExtraExceedsSurplus(t *testing.T) {
	r := engine.RateIncrease(2000, 100)
	assert.False(t, r.Passed)
	assert.Equal(t, 571.43, r.ExtraMonthly)
	assert.Equal(t, "$571.43 extra per month", r.Message)

	assert.True(t, engine.RateIncrease(2000, 600).Passed)
}

func TestIncomeDrop_And_ExpenseIncrease(t *testing.T) {
	drop := engine.IncomeDrop(5000, 2000, 2500)
	assert.False(t, drop.Passed)
	assert.Equal(t, -500.0, drop.Remaining)
	assert.Equal(t, "$500.00 deficit per month", drop.Message)

	rise := engine.ExpenseIncrease(8000, 2000, 2500)
	assert.True(t, rise.Passed)
	assert.Equal(t, 2900.0, rise.Remaining)
	assert.Equal(t, "$2900.00 cushion", rise.Message)
}

func TestStressTest_AllPass(t *testing.T) {
	household := domain.HouseholdFinancials{AnnualIncome: 120000, MonthlyExpenses: 2000, EmergencyFund: 50000}

	rep := engine.StressTest(2000, household)

	assert.Equal(t, 4, rep.PassedCount)
	assert.Equal(t, "4/4", rep.TestsPassed)
	assert.Equal(t, domain.ResilienceExcellent, rep.Resilience)
	assert.Equal(t, []string{"You're well-prepared for financial uncertainties!"}, rep.Recommendations)
	assert.Equal(t, 12.5, rep.Scenarios.JobLoss.MonthsCovered)
}

func TestStressTest_AllFailInReportOrder(t *testing.T) {
	household := domain.HouseholdFinancials{AnnualIncome: 30000, MonthlyExpenses: 2000}

	rep := engine.StressTest(1000, household)

	assert.Equal(t, 0, rep.PassedCount)
	assert.Equal(t, domain.ResilienceWeak, rep.Resilience)
	assert.Equal(t, []string{
		"Build a larger emergency fund (6+ months)",
		"Consider a lower home price to increase financial buffer",
		"Review and reduce non-essential expenses",
		"Consider a fixed-rate mortgage for stability",
	}, rep.Recommendations)
}

func TestStressTest_Deterministic(t *testing.T) {
	household := domain.HouseholdFinancials{AnnualIncome: 90000, MonthlyExpenses: 2200, EmergencyFund: 15000}
	assert.Equal(t, engine.StressTest(2100, household), engine.StressTest(2100, household))
}

func TestResilienceFor(t *testing.T) {
	assert.Equal(t, domain.ResilienceExcellent, engine.ResilienceFor(4))
	assert.Equal(t, domain.ResilienceGood, engine.ResilienceFor(3))
	assert.Equal(t, domain.ResilienceFair, engine.ResilienceFor(2))
	assert.Equal(t, domain.ResilienceWeak, engine.ResilienceFor(1))
	assert.Equal(t, domain.ResilienceWeak, engine.ResilienceFor(0))
}
