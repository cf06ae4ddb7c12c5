package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// NavigatorCompanion turns every topic into a phased, step-by-step plan.
// It also answers for unknown companions.
type NavigatorCompanion struct{}

func (c *NavigatorCompanion) CanHandle(companion string) bool {
	return companion == domain.CompanionNavigator
}

func (c *NavigatorCompanion) Reply(_ context.Context, chatCtx *domain.ChatContext) string {
	a := chatCtx.Assessment
	switch chatCtx.Topic {
	case domain.TopicCredit:
		return "Let's map out your credit improvement plan:\n\n" +
			"Step 1 (This Week):\n• Get free credit reports from all 3 bureaus\n• Review for errors and dispute if needed\n\n" +
			"Step 2 (This Month):\n• Set up autopay for all recurring bills\n• Pay down credit card to under 30% utilization\n\n" +
			"Step 3 (Next 3-6 Months):\n• Keep utilization low consistently\n• Track score monthly\n\n" +
			"Target: Improve score by 20-40 points in 6 months. This could save you thousands in interest."
	case domain.TopicSavings:
		p := planFor(a)
		return "Here's your savings roadmap:\n\n" +
			"Phase 1: Audit & Optimize (Week 1-2)\n• Track all expenses for 2 weeks\n• Identify 3 areas to cut back\n• Set up automatic transfer to savings\n\n" +
			"Phase 2: Boost Income (Ongoing)\n• Side gig/freelance work\n• Sell unused items\n• Ask for raise/promotion at work\n\n" +
			fmt.Sprintf("Phase 3: Milestone Tracking\n• Current: %s\n• Target: %s\n• Monthly goal: %s\n\n",
				dollars(p.savings), dollars(p.twentyPct), dollars(math.Ceil(p.gap/12))) +
			"Break it into smaller wins. First milestone: Save $5,000 more."
	case domain.TopicBudget:
		monthly := monthlyIncome(a)
		return "Let's build your home buying budget:\n\n" +
			fmt.Sprintf("Step 1: Calculate true affordability\n• Gross monthly income: %s\n", dollars(monthly)) +
			fmt.Sprintf("• Comfortable housing: %s (25%% - leaves cushion)\n", dollars(monthly*0.25)) +
			fmt.Sprintf("• Maximum housing: %s (28%% - traditional limit)\n\n", dollars(monthly*0.28)) +
			"Step 2: Account for hidden costs\n• Property taxes: ~1.5% of home value annually\n• Insurance: ~$1,500/year\n" +
			"• Maintenance: 1% of home value annually\n• HOA: Variable\n\n" +
			"Step 3: Create test budget\nLive on your post-mortgage budget for 3 months before buying. Bank the difference to prove you can handle it."
	case domain.TopicTimeline:
		return c.timeline(a)
	case domain.TopicEmotional:
		return "Let's work through this methodically:\n\n" +
			"Emotional Readiness Checklist:\n\n" +
			"□ Job feels secure (12+ months same employer)\n□ No major life changes planned (2 years)\n" +
			"□ Relationship stable (if applicable)\n□ Excited more than anxious about ownership\n" +
			"□ Understand financial commitment\n□ Have support system in place\n" +
			"□ Know what you want in a home\n□ Prepared for maintenance/repairs\n\n" +
			"How many can you check?\n• 7-8: You're ready\n• 5-6: Almost there, address gaps\n• 0-4: Wait and build stability\n\n" +
			"Action: Journal for 2 weeks. Write down fears AND excitements. If fears consistently outweigh excitement, you're not ready yet."
	case domain.TopicDebt:
		return "Debt elimination roadmap:\n\n" +
			"Phase 1: Assessment (Week 1)\n• List all debts (balance, rate, payment)\n• Calculate total DTI ratio\n• Identify highest interest rates\n\n" +
			"Phase 2: Strategy (Week 2-4)\nChoose method:\n• Avalanche: Pay high-interest first (saves most $)\n• Snowball: Pay smallest first (builds momentum)\n\n" +
			"Phase 3: Execution (3-12 months)\n• Make minimum on all except target\n• Put every extra dollar toward target\n• When paid off, roll payment to next debt\n\n" +
			"Phase 4: Prevention (Ongoing)\n• Build emergency fund (prevents new debt)\n• Use cash/debit only\n• Review monthly\n\n" +
			"Goal: Reduce DTI below 36% before home shopping."
	case domain.TopicStart:
		var steps []string
		for i, text := range topRecommendations(a.Recommendations, 3) {
			steps = append(steps, fmt.Sprintf("Step %d: %s", i+1, text))
		}
		return fmt.Sprintf("Welcome! Let's create your roadmap.\n\nBased on your %d score, here's Phase 1:\n\n%s\n\n",
			a.Total, strings.Join(steps, "\n\n")) +
			"This Week:\n• Complete Step 1\n• Set up tracking system (spreadsheet/app)\n• Schedule weekly review (same day/time)\n\n" +
			"This Month:\n• Complete first 2 steps\n• Measure improvement\n• Adjust plan if needed\n\n" +
			"Next 90 Days:\n• Complete all priority actions\n• Re-take assessment\n• Plan next phase\n\n" +
			"I'll be here every step of the way. Ready to tackle Step 1?"
	case domain.TopicImprove:
		area, _ := weakestArea(a)
		return "Improvement protocol:\n\n" +
			fmt.Sprintf("Current State:\n• HōMI: %d\n• Financial: %d\n• Emotional: %d\n• Weakest: %s\n\n",
				a.Total, rounded(a.Financial), rounded(a.Emotional), area) +
			"30-Day Sprint Plan:\n" +
			fmt.Sprintf("Week 1: Quick Wins\n• %s\n• Set up progress tracker\n\n",
				recommendationText(a.Recommendations, 0, "Review budget and cut $200/month expenses")) +
			fmt.Sprintf("Week 2-3: Core Work\n• %s\n• Daily 15min learning about home buying\n\n",
				recommendationText(a.Recommendations, 1, "Increase savings by $1000")) +
			"Week 4: Assessment\n• Measure improvements\n• Calculate new estimated score\n• Plan next 30-day sprint\n\n" +
			fmt.Sprintf("90-Day Goal: %d-%d score\n\n", a.Total+10, a.Total+15) +
			"Let's start Week 1. Which quick win will you tackle first?"
	default:
		return "I'm your Navigator, and I'm here to help you chart a clear path forward.\n\n" +
			fmt.Sprintf("Your HōMI Score of %d tells me where you are. Now let's plan where you're going.\n\n", a.Total) +
			"I can help you:\n• Break down your action plan into steps\n• Create timelines and milestones\n" +
			"• Work through challenges methodically\n• Track progress systematically\n\n" +
			"What would you like to focus on? Or would you like me to suggest our next step based on your action plan?"
	}
}

func (c *NavigatorCompanion) timeline(a domain.ChatAssessment) string {
	var intro, plan string
	switch {
	case a.Total >= 80:
		intro = "You're ready! Here's your next 90 days:"
		plan = "Month 1:\n• Get pre-approved\n• Research neighborhoods\n• Find real estate agent\n\n" +
			"Month 2-3:\n• Tour homes actively\n• Make offers when ready\n• Close on your home!"
	case a.Total >= 65:
		intro = "3-6 month plan:"
		plan = "Month 1-2:\n• Improve credit score\n• Boost savings $3k+\n• Reduce debt payments\n\n" +
			"Month 3-4:\n• Re-take assessment\n• Get pre-approved\n• Start house hunting\n\n" +
			"Month 5-6:\n• Find and close on home"
	default:
		intro = "6-12 month plan:"
		plan = "Month 1-3:\n• Build emergency fund\n• Improve credit 20+ points\n• Create strict budget\n\n" +
			"Month 4-6:\n• Save aggressively\n• Pay down high-interest debt\n• Research programs (FHA, first-time buyer)\n\n" +
			"Month 7-12:\n• Re-assess readiness\n• Get pre-approved if ready\n• Otherwise continue building"
	}
	return fmt.Sprintf("Your personalized timeline:\n\nCurrent Status: %d HōMI Score\n\n%s\n\n%s\n\n", a.Total, intro, plan) +
		"Stick to the plan. Rushing leads to regrets."
}
