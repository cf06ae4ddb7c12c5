package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// Score weights the financial readiness (70%) against the emotional one
// (30%) into a 0..100 HōMI score with a decision and a playbook.
func Score(in domain.ScoreInputs) *domain.HomiScore {
	payment := MonthlyPayment(in.LoanAmount, in.AnnualRate, mortgageTermMonths)
	financial := financialScore(in, payment)
	emotional := emotionalScore(in, payment)
	total := roundHalfUp(float64(financial)*0.7 + float64(emotional)*0.3)

	return &domain.HomiScore{
		Total:     total,
		Decision:  DecisionFor(total),
		Message:   DecisionMessage(total),
		Playbook:  playbook(total, in),
		Breakdown: domain.ScoreBreakdown{Financial: financial, Emotional: emotional},
	}
}

// AssessmentScore scores a full assessment. The self-reported profile
// shifts the emotional part on top of Score's stress and housing-cost
// penalties, and the result carries up to five recommendations.
func AssessmentScore(in domain.ScoreInputs, p domain.ReadinessProfile) *domain.HomiScore {
	if p.Confidence == 0 {
		p.Confidence = 5
	}
	if in.StressLevel == 0 {
		in.StressLevel = StressLevel(p.Confidence, p.JobStability, p.LifeStability)
	}

	payment := MonthlyPayment(in.LoanAmount, in.AnnualRate, mortgageTermMonths)
	financial := financialScore(in, payment)
	emotional := min(max(emotionalScore(in, payment)+readinessAdjustment(p), 0), 100)
	total := roundHalfUp(float64(financial)*0.7 + float64(emotional)*0.3)

	return &domain.HomiScore{
		Total:           total,
		Decision:        DecisionFor(total),
		Message:         DecisionMessage(total),
		Playbook:        playbook(total, in),
		Recommendations: recommendations(total, financial, emotional, in, p),
		Breakdown:       domain.ScoreBreakdown{Financial: financial, Emotional: emotional},
	}
}

var (
	jobStabilityBonus = map[string]int{
		"very unstable": -15,
		"unstable":      -8,
		"stable":        0,
		"very stable":   10,
	}
	lifeStabilityBonus = map[string]int{
		"in flux":         -10,
		"somewhat stable": -5,
		"stable":          0,
		"very stable":     5,
	}
)

// readinessAdjustment is the emotional-score delta from confidence,
// stability labels and the buying timeline.
func readinessAdjustment(p domain.ReadinessProfile) int {
	delta := 0
	switch {
	case p.Confidence >= 8:
		delta += 10
	case p.Confidence <= 3:
		delta -= 15
	}
	delta += jobStabilityBonus[normalizeLabel(p.JobStability)]
	delta += lifeStabilityBonus[normalizeLabel(p.LifeStability)]

	switch normalizeLabel(p.Timeline) {
	case "1-3 months":
		delta -= 10
	case "12+ months":
		delta += 5
	}
	return delta
}

// DecisionMessage is the one-line headline for a total score.
func DecisionMessage(total int) string {
	switch {
	case total >= 90:
		return "Excellent! You're in a prime position to buy your home."
	case total >= 80:
		return "Strong position! You're ready for homeownership."
	case total >= 70:
		return "Good foundation. A few tweaks will optimize your position."
	case total >= 60:
		return "You're close! Some improvements will strengthen your readiness."
	case total >= 50:
		return "Work needed. Focus on key areas to improve your position."
	case total >= 40:
		return "Take time to build your financial foundation."
	default:
		return "Focus on strengthening your finances before buying."
	}
}

const maxRecommendations = 5

func recommendations(total, financial, emotional int, in domain.ScoreInputs, p domain.ReadinessProfile) []domain.Recommendation {
	var recs []domain.Recommendation
	add := func(priority domain.Priority, text string) {
		recs = append(recs, domain.Recommendation{Text: text, Priority: priority})
	}

	if financial < 70 {
		if in.CreditScore < 700 {
			add(domain.PriorityHigh, "Improve your credit score by paying bills on time and reducing debt")
		}
		if in.PropertyPrice <= 0 || in.DownPayment/in.PropertyPrice < 0.2 {
			add(domain.PriorityHigh, usd.Sprintf("Save for a 20%% down payment ($%d) to avoid PMI", roundHalfUp(in.PropertyPrice*0.2)))
		}
		if in.MonthlyExpenses > in.AnnualIncome/12*0.15 {
			add(domain.PriorityHigh, "Pay down existing debt to improve your debt-to-income ratio")
		}
	}

	if emotional < 70 {
		if p.Confidence < 6 {
			add(domain.PriorityMedium, "Spend more time researching the home buying process to build confidence")
		}
		if job := normalizeLabel(p.JobStability); job == "unstable" || job == "very unstable" {
			add(domain.PriorityHigh, "Consider stabilizing your job situation before taking on a mortgage")
		}
		if normalizeLabel(p.Timeline) == "1-3 months" {
			add(domain.PriorityMedium, "Give yourself more time - rushing into homeownership increases risk")
		}
	}

	switch {
	case total >= 80:
		add(domain.PriorityAction, "You're ready! Start getting pre-approved for a mortgage")
		add(domain.PriorityAction, "Connect with a trusted real estate agent in your target area")
	case total >= 60:
		add(domain.PriorityMedium, "Create a 6-month action plan to address key improvement areas")
	}

	if loc := strings.TrimSpace(p.Location); loc != "" {
		add(domain.PriorityLow, fmt.Sprintf("Research %s market trends and average home prices", loc))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// DecisionFor maps a total score onto YES (>=80), NOT YET (>=60) or NO.
func DecisionFor(total int) domain.Decision {
	switch {
	case total >= 80:
		return domain.DecisionYes
	case total >= 60:
		return domain.DecisionNotYet
	default:
		return domain.DecisionNo
	}
}

func financialScore(in domain.ScoreInputs, payment float64) int {
	score := 0

	monthlyIncome := in.AnnualIncome / 12
	if monthlyIncome > 0 {
		dti := (payment + in.MonthlyExpenses) / monthlyIncome
		switch {
		case dti <= 0.28:
			score += 30
		case dti <= 0.36:
			score += 20
		case dti <= 0.43:
			score += 10
		}
	}

	downPct := 0.0
	if in.PropertyPrice > 0 {
		downPct = in.DownPayment / in.PropertyPrice * 100
	}
	switch {
	case downPct >= 20:
		score += 25
	case downPct >= 10:
		score += 15
	case downPct >= 5:
		score += 10
	default:
		score += 5
	}

	switch {
	case in.CreditScore >= 740:
		score += 25
	case in.CreditScore >= 670:
		score += 18
	case in.CreditScore >= 580:
		score += 10
	default:
		score += 5
	}

	expenses := in.MonthlyExpenses
	if expenses <= 0 {
		expenses = 1
	}
	emergencyMonths := in.DownPayment * 0.1 / expenses
	switch {
	case emergencyMonths >= 6:
		score += 20
	case emergencyMonths >= 3:
		score += 12
	case emergencyMonths >= 1:
		score += 6
	}

	return min(score, 100)
}

func emotionalScore(in domain.ScoreInputs, payment float64) int {
	score := 100
	if in.DeceptionDetected {
		score -= 40
	}
	score -= (in.StressLevel - 1) * 10

	housingRatio := math.Inf(1)
	if monthlyIncome := in.AnnualIncome / 12; monthlyIncome > 0 {
		housingRatio = payment / monthlyIncome
	}
	switch {
	case housingRatio > 0.35:
		score -= 20
	case housingRatio > 0.28:
		score -= 10
	}
	return max(score, 0)
}

func playbook(total int, in domain.ScoreInputs) []string {
	switch {
	case total >= 80:
		return []string{
			"You're in a strong position to buy!",
			"Consider locking in your interest rate",
			"Start house hunting with confidence",
		}
	case total >= 60:
		steps := []string{"You're close! A few improvements will help"}
		if in.CreditScore < 740 {
			steps = append(steps, "Work on improving your credit score")
		}
		if in.PropertyPrice > 0 && in.DownPayment/in.PropertyPrice < 0.2 {
			steps = append(steps, "Save for a larger down payment to avoid PMI")
		}
		return steps
	case total >= 40:
		return []string{
			"Take time to strengthen your finances",
			"Build your emergency fund",
			"Pay down high-interest debt",
		}
	default:
		return []string{
			"Focus on financial foundation first",
			"Create a budget and savings plan",
			"Consider credit counseling if needed",
		}
	}
}

var (
	jobStabilityMultiplier = map[string]float64{
		"very unstable": 1.5,
		"unstable":      1.2,
		"stable":        1.0,
		"very stable":   0.8,
	}
	lifeStabilityMultiplier = map[string]float64{
		"in flux":         1.4,
		"somewhat stable": 1.1,
		"stable":          1.0,
		"very stable":     0.9,
	}
)

// StressLevel turns self-reported confidence (1..10, higher is calmer) and
// job/life stability labels into a 1..5 stress level. Unknown labels count
// as "Stable"; a zero confidence is read as the midpoint 5.
func StressLevel(confidence int, jobStability, lifeStability string) int {
	if confidence == 0 {
		confidence = 5
	}
	stress := float64(roundHalfUp(float64(11-confidence) / 2))
	stress *= multiplierOr(jobStabilityMultiplier, jobStability)
	stress *= multiplierOr(lifeStabilityMultiplier, lifeStability)
	return min(max(roundHalfUp(stress), 1), 5)
}

func multiplierOr(table map[string]float64, label string) float64 {
	if m, ok := table[normalizeLabel(label)]; ok {
		return m
	}
	return 1.0
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

var creditRangeMidpoints = map[string]int{
	"300-579": 440,
	"580-669": 625,
	"670-739": 705,
	"740-799": 770,
	"800-850": 825,
}

// CreditScoreFromRange maps a reported band such as "740-799" to its
// midpoint. Unknown bands read as 705.
func CreditScoreFromRange(band string) int {
	if v, ok := creditRangeMidpoints[strings.ReplaceAll(band, " ", "")]; ok {
		return v
	}
	return 705
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
