package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// AnalystCompanion answers with ratios, thresholds and concrete numbers.
type AnalystCompanion struct{}

func (c *AnalystCompanion) CanHandle(companion string) bool {
	return companion == domain.CompanionAnalyst
}

func (c *AnalystCompanion) Reply(_ context.Context, chatCtx *domain.ChatContext) string {
	a := chatCtx.Assessment
	switch chatCtx.Topic {
	case domain.TopicCredit:
		return c.credit(a)
	case domain.TopicSavings:
		return c.savings(a)
	case domain.TopicBudget:
		return c.budget(a)
	case domain.TopicTimeline:
		return c.timeline(a)
	case domain.TopicEmotional:
		return c.emotional(a)
	case domain.TopicDebt:
		return c.debt(a)
	case domain.TopicStart:
		return c.gettingStarted(a)
	case domain.TopicImprove:
		return c.improvement(a)
	default:
		return fmt.Sprintf("I'm here to give you data-driven advice. Your HōMI Score of %d gives us a baseline to work from.\n\n"+
			"What specific area would you like to analyze? I can help with:\n"+
			"• Credit score optimization\n• Down payment savings strategies\n• Debt-to-income calculations\n"+
			"• Affordability analysis\n• Timeline projections\n\n"+
			"Just ask, and I'll give you the numbers and a concrete plan.", a.Total)
	}
}

func (c *AnalystCompanion) credit(a domain.ChatAssessment) string {
	shape := "there's room for improvement"
	if a.Financial >= 70 {
		shape = "you're in decent shape"
	}
	return "Let's talk credit scores. Here's what matters:\n\n" +
		"• 740+ = Best rates (6.5% APR)\n• 700-739 = Good rates (7% APR)\n• 670-699 = Fair rates (7.5% APR)\n\n" +
		"To improve:\n1. Pay all bills on time (35% of score)\n2. Keep credit utilization under 30%\n" +
		"3. Don't close old accounts\n4. Dispute any errors on your report\n\n" +
		fmt.Sprintf("Your financial score of %d suggests %s. Check your score at annualcreditreport.com (free).", rounded(a.Financial), shape)
}

func (c *AnalystCompanion) savings(a domain.ChatAssessment) string {
	p := planFor(a)
	tenPct := p.targetPrice * 0.1
	pmi := p.targetPrice * 0.9 * 0.005
	return "Down payment math:\n\n" +
		fmt.Sprintf("• Target home price: %s\n", dollars(p.targetPrice)) +
		fmt.Sprintf("• 20%% down (no PMI): %s\n", dollars(p.twentyPct)) +
		fmt.Sprintf("• Current savings: %s\n", dollars(p.savings)) +
		fmt.Sprintf("• Gap to close: %s\n\n", dollars(p.gap)) +
		fmt.Sprintf("If you save $1,000/month, that's %d months to reach 20%%.\n\n", monthsAt(p.gap, 1000)) +
		fmt.Sprintf("Alternative: Put down 10%% (%s) and accept PMI (~%s/month). You'd reach that %d months sooner.",
			dollars(tenPct), dollars(pmi), monthsAt(tenPct-p.savings, 1000))
}

func (c *AnalystCompanion) budget(a domain.ChatAssessment) string {
	monthly := monthlyIncome(a)
	debt := "you may need to reduce existing debt before adding mortgage"
	if a.Financial >= 70 {
		debt = "you're managing debt well"
	}
	return "Housing affordability by the numbers:\n\n" +
		fmt.Sprintf("• Monthly income: %s\n", dollars(monthly)) +
		fmt.Sprintf("• Max housing cost (28%% rule): %s/month\n", dollars(monthly*0.28)) +
		fmt.Sprintf("• Max total debt (36%% rule): %s/month\n\n", dollars(monthly*0.36)) +
		"This includes: mortgage, taxes, insurance, HOA.\n\n" +
		fmt.Sprintf("Your financial score (%d) indicates %s. The tighter your budget now, the harder homeownership will be.",
			rounded(a.Financial), debt)
}

func (c *AnalystCompanion) timeline(a domain.ChatAssessment) string {
	var status string
	switch {
	case a.Total >= 80:
		status = "• Status: READY NOW\n• Action: Get pre-approved within 30 days\n• Start touring homes in 60 days"
	case a.Total >= 65:
		status = "• Status: 3-6 MONTHS OUT\n• Need: Address top 2 recommendations\n• Re-assess in 90 days"
	default:
		status = "• Status: 6-12+ MONTHS OUT\n• Focus: Build financial foundation\n• Target: Improve score 20+ points"
	}
	readiness := "Needs work"
	if a.Emotional >= 70 {
		readiness = "Good"
	}
	return fmt.Sprintf("Timeline assessment based on your %d HōMI Score:\n\n%s\n\n", a.Total, status) +
		fmt.Sprintf("Emotional readiness (%d): %s. Don't rush if you're not mentally ready. Buyer's remorse is real.",
			rounded(a.Emotional), readiness)
}

func (c *AnalystCompanion) emotional(a domain.ChatAssessment) string {
	var read string
	switch {
	case a.Emotional >= 70:
		read = "This is solid. You're confident and stable."
	case a.Emotional >= 50:
		read = "This indicates some hesitation. That's actually smart - it means you're thinking critically."
	default:
		read = "This suggests you're not mentally ready yet. That's valuable data."
	}
	return "Let's address the emotional side objectively:\n\n" +
		fmt.Sprintf("Your emotional readiness score: %d/100\n\n%s\n\n", rounded(a.Emotional), read) +
		"Key factors:\n• Job stability: Critical for 30-year commitment\n• Life stability: Big changes = bad timing\n" +
		"• Confidence: If you're unsure, wait\n\n" +
		"Data shows: Buyers with lower emotional readiness have 3x higher regret rates. Listen to your gut."
}

func (c *AnalystCompanion) debt(a domain.ChatAssessment) string {
	return "Debt-to-Income (DTI) Ratio matters:\n\n" +
		"• 28% or less: Excellent position\n• 29-36%: Acceptable, tight\n" +
		"• 37-43%: Risky, may not qualify\n• 44%+: Won't qualify for good rates\n\n" +
		"To improve DTI:\n1. Pay off highest interest debt first (avalanche method)\n2. Consolidate if rate is lower\n" +
		"3. Don't take on new debt\n4. Increase income\n\n" +
		fmt.Sprintf("Rule: Every $100/month in debt you eliminate frees up ~$25k in buying power. "+
			"Your financial score (%d) reflects current debt load. Lower it = higher score = better rates.", rounded(a.Financial))
}

func (c *AnalystCompanion) gettingStarted(a domain.ChatAssessment) string {
	priority := "Priority: Build foundation before house shopping:"
	timeline := "6-12+ months to ready"
	action := "Pull credit report and make plan for top weakness"
	switch {
	case a.Total >= 80:
		priority = "Priority: Get pre-approved immediately."
		timeline = "30-90 days to buy"
		action = "Call 3 lenders for pre-approval quotes"
	case a.Total >= 60:
		priority = "Priority: Address these gaps first:"
		timeline = "3-6 months to ready"
	}

	var steps []string
	for i, text := range topRecommendations(a.Recommendations, 3) {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, text))
	}
	return fmt.Sprintf("Starting point based on %d score:\n\n%s\n\n%s\n\nTimeline: %s\n\nFirst action TODAY: %s",
		a.Total, priority, strings.Join(steps, "\n"), timeline, action)
}

func (c *AnalystCompanion) improvement(a domain.ChatAssessment) string {
	area, score := weakestArea(a)
	wins := "1. Research home buying process (+5pts)\n2. Talk to homeowner friends (+3pts)\n3. Take financial literacy course (+4pts)"
	if area == "financial" {
		wins = "1. Pay down credit card $1k (potential +5pts)\n2. Set up autopay for bills (+3pts)\n3. Increase savings $2k (+4pts)"
	}
	return "Score improvement analysis:\n\n" +
		fmt.Sprintf("Current: %d/100\nFinancial: %d/100\nEmotional: %d/100\n\n", a.Total, rounded(a.Financial), rounded(a.Emotional)) +
		fmt.Sprintf("Weakest link: %s (%d)\n\n", strings.ToUpper(area), rounded(score)) +
		fmt.Sprintf("Impact projection:\n• Improve %s by 10 points → HōMI Score increases ~7 points\n", area) +
		"• Improve both by 10 points → HōMI Score increases ~10 points\n\n" +
		fmt.Sprintf("Fastest wins for %s:\n%s\n\nTarget: %d score in 90 days.", area, wins, a.Total+10)
}

// monthsAt is how many months of saving perMonth close amount, never
// negative.
func monthsAt(amount, perMonth float64) int {
	return max(int(math.Ceil(amount/perMonth)), 0)
}
