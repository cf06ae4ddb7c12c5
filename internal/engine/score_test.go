package engine_test

import (
	"testing"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestScore_StrongBuyer(t *testing.T) {
	s := engine.Score(domain.ScoreInputs{
		AnnualIncome:    150000,
		MonthlyExpenses: 500,
		DownPayment:     75000,
		LoanAmount:      225000,
		AnnualRate:      0.065,
		CreditScore:     780,
		PropertyPrice:   300000,
		StressLevel:     1,
	})

	assert.Equal(t, 100, s.Total)
	assert.Equal(t, domain.DecisionYes, s.Decision)
	assert.Equal(t, domain.ScoreBreakdown{Financial: 100, Emotional: 100}, s.Breakdown)
	assert.Len(t, s.Playbook, 3)
	assert.Equal(t, "Excellent! You're in a prime position to buy your home.", s.Message)
	assert.Empty(t, s.Recommendations)
}

func TestScore_StretchedBuyer(t *testing.T) {
	s := engine.Score(domain.ScoreInputs{
		AnnualIncome:      40000,
		MonthlyExpenses:   1500,
		DownPayment:       16000,
		LoanAmount:        284000,
		AnnualRate:        0.09,
		CreditScore:       560,
		PropertyPrice:     300000,
		StressLevel:       5,
		DeceptionDetected: true,
	})

	assert.Equal(t, 21, s.Breakdown.Financial)
	assert.Equal(t, 0, s.Breakdown.Emotional)
	assert.Equal(t, 15, s.Total)
	assert.Equal(t, domain.DecisionNo, s.Decision)
	assert.Equal(t, "Focus on financial foundation first", s.Playbook[0])
}

func TestScore_ZeroIncomeAndPriceStayInRange(t *testing.T) {
	s := engine.Score(domain.ScoreInputs{StressLevel: 3})
	assert.GreaterOrEqual(t, s.Total, 0)
	assert.LessOrEqual(t, s.Total, 100)
}

func TestDecisionFor(t *testing.T) {
	assert.Equal(t, domain.DecisionYes, engine.DecisionFor(80))
	assert.Equal(t, domain.DecisionNotYet, engine.DecisionFor(79))
	assert.Equal(t, domain.DecisionNotYet, engine.DecisionFor(60))
	assert.Equal(t, domain.DecisionNo, engine.DecisionFor(59))
}

func TestDecisionMessage(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{100, "Excellent! You're in a prime position to buy your home."},
		{90, "Excellent! You're in a prime position to buy your home."},
		{89, "Strong position! You're ready for homeownership."},
		{80, "Strong position! You're ready for homeownership."},
		{79, "Good foundation. A few tweaks will optimize your position."},
		{70, "Good foundation. A few tweaks will optimize your position."},
		{69, "You're close! Some improvements will strengthen your readiness."},
		{60, "You're close! Some improvements will strengthen your readiness."},
		{59, "Work needed. Focus on key areas to improve your position."},
		{50, "Work needed. Focus on key areas to improve your position."},
		{49, "Take time to build your financial foundation."},
		{40, "Take time to build your financial foundation."},
		{39, "Focus on strengthening your finances before buying."},
		{0, "Focus on strengthening your finances before buying."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.DecisionMessage(tt.total), "total %d", tt.total)
	}
}

// strongFinances scores 100 on the financial side; with StressLevel 3 the
// emotional side starts at 80 before the readiness profile applies.
func strongFinances() domain.ScoreInputs {
	return domain.ScoreInputs{
		AnnualIncome:    150000,
		MonthlyExpenses: 500,
		DownPayment:     75000,
		LoanAmount:      225000,
		AnnualRate:      0.065,
		CreditScore:     780,
		PropertyPrice:   300000,
		StressLevel:     3,
	}
}

func TestAssessmentScore_ReadinessAdjustsEmotional(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.ReadinessProfile
		want    int
	}{
		{"neutral", domain.ReadinessProfile{Confidence: 5, JobStability: "Stable", LifeStability: "Stable"}, 80},
		{"zero confidence reads as 5", domain.ReadinessProfile{}, 80},
		{"high confidence", domain.ReadinessProfile{Confidence: 8}, 90},
		{"low confidence", domain.ReadinessProfile{Confidence: 3}, 65},
		{"job very unstable", domain.ReadinessProfile{Confidence: 5, JobStability: "Very Unstable"}, 65},
		{"job unstable", domain.ReadinessProfile{Confidence: 5, JobStability: "Unstable"}, 72},
		{"job very stable", domain.ReadinessProfile{Confidence: 5, JobStability: "very stable"}, 90},
		{"life in flux", domain.ReadinessProfile{Confidence: 5, LifeStability: "In Flux"}, 70},
		{"life somewhat stable", domain.ReadinessProfile{Confidence: 5, LifeStability: "Somewhat Stable"}, 75},
		{"life very stable", domain.ReadinessProfile{Confidence: 5, LifeStability: "Very Stable"}, 85},
		{"rushed timeline", domain.ReadinessProfile{Confidence: 5, Timeline: "1-3 months"}, 70},
		{"mid timeline", domain.ReadinessProfile{Confidence: 5, Timeline: "6-12 months"}, 80},
		{"long timeline", domain.ReadinessProfile{Confidence: 5, Timeline: "12+ months"}, 85},
		{"capped at 100", domain.ReadinessProfile{Confidence: 9, JobStability: "Very Stable", LifeStability: "Very Stable", Timeline: "12+ months"}, 100},
		{"penalties stack", domain.ReadinessProfile{Confidence: 1, JobStability: "Very Unstable", LifeStability: "In Flux", Timeline: "1-3 months"}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := engine.AssessmentScore(strongFinances(), tt.profile)
			assert.Equal(t, 100, s.Breakdown.Financial)
			assert.Equal(t, tt.want, s.Breakdown.Emotional)
		})
	}
}

func TestAssessmentScore_EmotionalNeverNegative(t *testing.T) {
	in := strongFinances()
	in.StressLevel = 5
	in.DeceptionDetected = true

	s := engine.AssessmentScore(in, domain.ReadinessProfile{
		Confidence: 1, JobStability: "Very Unstable", LifeStability: "In Flux", Timeline: "1-3 months",
	})
	assert.Equal(t, 0, s.Breakdown.Emotional)
	assert.Equal(t, 70, s.Total)
}

func TestAssessmentScore_DerivesStressFromProfile(t *testing.T) {
	in := strongFinances()
	in.StressLevel = 0

	// confidence 3 gives stress 4: 100 - 30 - 15
	s := engine.AssessmentScore(in, domain.ReadinessProfile{Confidence: 3})
	assert.Equal(t, 55, s.Breakdown.Emotional)
}

func TestAssessmentScore_ReadyBuyerRecommendations(t *testing.T) {
	s := engine.AssessmentScore(strongFinances(), domain.ReadinessProfile{
		Confidence: 9, JobStability: "Very Stable", Location: "Austin, TX",
	})

	assert.Equal(t, domain.DecisionYes, s.Decision)
	assert.Equal(t, []domain.Recommendation{
		{Text: "You're ready! Start getting pre-approved for a mortgage", Priority: domain.PriorityAction},
		{Text: "Connect with a trusted real estate agent in your target area", Priority: domain.PriorityAction},
		{Text: "Research Austin, TX market trends and average home prices", Priority: domain.PriorityLow},
	}, s.Recommendations)
}

func TestAssessmentScore_NotYetBuyerGetsActionPlan(t *testing.T) {
	s := engine.AssessmentScore(strongFinances(), domain.ReadinessProfile{
		Confidence: 2, JobStability: "Very Unstable", LifeStability: "In Flux", Timeline: "1-3 months",
	})

	assert.Equal(t, 30, s.Breakdown.Emotional)
	assert.Equal(t, 79, s.Total)
	assert.Equal(t, domain.DecisionNotYet, s.Decision)
	assert.Equal(t, []domain.Recommendation{
		{Text: "Spend more time researching the home buying process to build confidence", Priority: domain.PriorityMedium},
		{Text: "Consider stabilizing your job situation before taking on a mortgage", Priority: domain.PriorityHigh},
		{Text: "Give yourself more time - rushing into homeownership increases risk", Priority: domain.PriorityMedium},
		{Text: "Create a 6-month action plan to address key improvement areas", Priority: domain.PriorityMedium},
	}, s.Recommendations)
}

func TestAssessmentScore_RecommendationsCappedAtFive(t *testing.T) {
	s := engine.AssessmentScore(domain.ScoreInputs{
		AnnualIncome:    40000,
		MonthlyExpenses: 1500,
		DownPayment:     16000,
		LoanAmount:      284000,
		AnnualRate:      0.09,
		CreditScore:     560,
		PropertyPrice:   300000,
	}, domain.ReadinessProfile{
		Confidence: 2, JobStability: "Unstable", Timeline: "1-3 months", Location: "Denver",
	})

	assert.Equal(t, domain.DecisionNo, s.Decision)
	assert.Len(t, s.Recommendations, 5)
	assert.Equal(t, domain.PriorityHigh, s.Recommendations[0].Priority)
	assert.Equal(t, "Save for a 20% down payment ($60,000) to avoid PMI", s.Recommendations[1].Text)
	assert.Equal(t, "Pay down existing debt to improve your debt-to-income ratio", s.Recommendations[2].Text)
	assert.Equal(t, "Consider stabilizing your job situation before taking on a mortgage", s.Recommendations[4].Text)
}

func TestStressLevel(t *testing.T) {
	tests := []struct {
		confidence int
		job, life  string
		want       int
	}{
		{10, "Very Stable", "Very Stable", 1},
		{1, "Very Unstable", "In Flux", 5},
		{5, "Stable", "Stable", 3},
		{6, "Unstable", "Stable", 4},
		{0, "", "", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.StressLevel(tt.confidence, tt.job, tt.life), "%+v", tt)
	}
}

func TestCreditScoreFromRange(t *testing.T) {
	assert.Equal(t, 770, engine.CreditScoreFromRange("740-799"))
	assert.Equal(t, 440, engine.CreditScoreFromRange("300-579"))
	assert.Equal(t, 705, engine.CreditScoreFromRange("unknown"))
}
