package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// OptimistCompanion reframes every topic as progress and keeps the buyer
// motivated.
type OptimistCompanion struct{}

func (c *OptimistCompanion) CanHandle(companion string) bool {
	return companion == domain.CompanionOptimist
}

func (c *OptimistCompanion) Reply(_ context.Context, chatCtx *domain.ChatContext) string {
	a := chatCtx.Assessment
	switch chatCtx.Topic {
	case domain.TopicCredit:
		return "Great question! Your credit score is like your financial reputation - and the good news is, you have the power to improve it! 🌟\n\n" +
			"Think of it this way: every on-time payment is a small victory that builds your future. " +
			"Even if your score isn't perfect now, consistent positive habits will get you there.\n\n" +
			"Pro tip: Set up autopay for your bills. It's one less thing to worry about, and it protects your score while you focus on other goals. You've got this!"
	case domain.TopicSavings:
		return "You're asking the right questions! Saving for a home is a journey, and every dollar you set aside is progress. 💪\n\n" +
			"Here's an inspiring way to think about it: If you can find $33 per day to save (maybe by meal prepping instead of eating out, " +
			"or one less subscription), that's $1,000/month - $12,000/year!\n\n" +
			fmt.Sprintf("You're currently at %s. Celebrate that! Now let's build on it. ", dollars(a.Savings)) +
			"Small, consistent actions create massive results over time."
	case domain.TopicBudget:
		monthly := monthlyIncome(a)
		return "Let's dream responsibly! 🏡\n\n" +
			fmt.Sprintf("With %s/month income, you can comfortably afford around %s/month for housing. ", dollars(monthly), dollars(monthly*0.28)) +
			"That might feel limiting, but here's the beautiful part: staying within this range means you'll still have money for life, fun, and building wealth.\n\n" +
			"Homeownership should enhance your life, not stress it. Think of a budget as freedom - it gives you permission to enjoy guilt-free spending within your means!"
	case domain.TopicTimeline:
		return c.timeline(a)
	case domain.TopicEmotional:
		return "First, take a deep breath. What you're feeling is completely normal! 💙\n\n" +
			"Buying a home is one of life's biggest decisions - of course there's nervousness! " +
			"The fact that you're acknowledging these feelings shows wisdom, not weakness.\n\n" +
			"Here's what I want you to know:\n" +
			"• Nervousness ≠ Not ready (it means you're taking it seriously)\n" +
			"• Doubt is your brain protecting you (listen to it)\n" +
			"• Confidence comes from preparation (you're doing that now!)\n\n" +
			"You don't need to feel 100% certain. You just need to feel more excited than scared. " +
			"And if you're not there yet? That's okay. Give yourself grace and time."
	case domain.TopicDebt:
		return "Let's reframe debt - it's not a life sentence, it's a challenge you CAN overcome! 💪\n\n" +
			"Every payment you make is progress. Every dollar toward principal is a win. " +
			"You're not stuck; you're on a journey from \"in debt\" to \"debt-free\"!\n\n" +
			"Celebrate small wins:\n• Paid off a credit card? HUGE!\n• Made extra payment? Yes!\n• Refinanced to lower rate? Smart move!\n\n" +
			"Debt doesn't define you. Your actions do. And you're taking action right now by learning and planning. That's what winners do!"
	case domain.TopicStart:
		var wins []string
		for _, text := range topRecommendations(a.Recommendations, 2) {
			wins = append(wins, "✨ "+text)
		}
		return "Welcome to your journey! 🌟 I'm so glad you're here.\n\n" +
			fmt.Sprintf("Your score of %d is your starting point - not your ending point! Here's what makes me excited for you:\n\n%s\n\n",
				a.Total, strings.Join(wins, "\n")) +
			"Every person who owns a home today started exactly where you are: with a dream and a first step. " +
			"You've taken that first step. Now we keep going!\n\n" +
			"Today's action: Pick ONE thing from your action plan and do it. Just one. Progress, not perfection!"
	case domain.TopicImprove:
		area, score := weakestArea(a)
		return "You're asking about improvement - that's the BEST sign! 🎯\n\n" +
			fmt.Sprintf("Here's what I love about where you are: You have a %d score, which means you've already built something! ", a.Total) +
			"Now we're just adding to it.\n\n" +
			fmt.Sprintf("Your %s score (%d) has the most room to grow - and that's exciting! ", area, rounded(score)) +
			"It means small improvements here create BIG results.\n\n" +
			"Think of it like this: You're not starting from zero. You're leveling up from already being on the path. " +
			"Every point you gain is momentum building.\n\n" +
			"What excites YOU most about improving? Let's start there - when you're motivated by what matters to YOU, success follows naturally!"
	default:
		return fmt.Sprintf("I'm here to support you on this journey! With a %d score, you're on your way - "+
			"and I believe in your ability to reach your goals. 💫\n\n", a.Total) +
			"What's on your mind? Whether you're feeling:\n" +
			"• Excited but nervous\n• Stuck on next steps\n• Unsure about timing\n• Need motivation\n\n" +
			"I'm here to help you see possibilities and build confidence. What would help you most right now?"
	}
}

func (c *OptimistCompanion) timeline(a domain.ChatAssessment) string {
	headline := "Every expert was once a beginner. You're on the path! 🌱"
	next := "Focus on one thing at a time, and before you know it, you'll be ready."
	switch {
	case a.Total >= 80:
		headline = "Exciting news - you're ready NOW! 🎉"
		next = "Trust yourself and take the next step."
	case a.Total >= 65:
		headline = "You're SO close! Within 3-6 months, you could be house hunting! 🏡"
		next = "A few more improvements and you'll be there."
	}
	return fmt.Sprintf("%s\n\nYour score of %d tells me you've already done important work. %s\n\n", headline, a.Total, next) +
		"Remember: It's not about being perfect. It's about being prepared enough to succeed. " +
		"And you're building that foundation right now!"
}
