package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var chatTracer = otel.Tracer("service/chat")

// usd formats whole dollar amounts with thousands separators.
var usd = message.NewPrinter(language.AmericanEnglish)

// CompanionStrategy answers in the voice of one companion persona.
type CompanionStrategy interface {
	CanHandle(companion string) bool
	Reply(ctx context.Context, chatCtx *domain.ChatContext) string
}

// DefaultCompanions returns the analyst, optimist and navigator strategies.
func DefaultCompanions() []CompanionStrategy {
	return []CompanionStrategy{
		&AnalystCompanion{},
		&OptimistCompanion{},
		&NavigatorCompanion{},
	}
}

// ============================================================
// Companion chat — POST /v1/coach/chat
// ============================================================

// ChatService routes a buyer's message to a topic and lets the chosen
// companion answer it from the buyer's assessment numbers.
type ChatService struct {
	strategies []CompanionStrategy
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewChatService creates the chat service. Strategies are asked in order.
func NewChatService(strategies []CompanionStrategy, metrics *observability.Metrics, logger *zap.Logger) *ChatService {
	return &ChatService{
		strategies: strategies,
		metrics:    metrics,
		logger:     logger,
	}
}

// ProcessMessage answers the last user message of the conversation.
func (s *ChatService) ProcessMessage(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.ProcessMessage")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("coach_chat", time.Since(start))
	}()

	if len(req.Messages) == 0 {
		return nil, invalid("messages", "are required")
	}
	query := lastUserMessage(req.Messages)

	companion := strings.ToLower(strings.TrimSpace(req.Companion))
	strategy := s.strategyFor(companion)
	if strategy == nil {
		s.logger.Debug("unknown companion, using navigator", zap.String("companion", companion))
		companion = domain.CompanionNavigator
		strategy = s.strategyFor(companion)
	}
	if strategy == nil {
		return nil, invalid("companion", "no companion is available")
	}

	chatCtx := &domain.ChatContext{
		Companion: companion,
		Topic:     detectTopic(query),
		Query:     query,
		History:   req.Messages,
	}
	if req.AssessmentData != nil {
		chatCtx.Assessment = *req.AssessmentData
	}
	span.SetAttributes(
		attribute.String("chat.companion", companion),
		attribute.String("chat.topic", string(chatCtx.Topic)),
	)

	reply := strategy.Reply(ctx, chatCtx)

	s.logger.Info("companion replied",
		zap.String("companion", companion),
		zap.String("topic", string(chatCtx.Topic)),
		zap.Int("turns", len(req.Messages)),
	)
	return &domain.ChatResponse{
		Response:  reply,
		Success:   true,
		Companion: companion,
		Topic:     chatCtx.Topic,
	}, nil
}

func (s *ChatService) strategyFor(companion string) CompanionStrategy {
	for _, st := range s.strategies {
		if st.CanHandle(companion) {
			return st
		}
	}
	return nil
}

// lastUserMessage picks the newest user turn, or the newest turn when no
// role is marked as user.
func lastUserMessage(msgs []domain.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return msgs[len(msgs)-1].Content
}

// topicKeywords is checked in order; the first topic with a matching
// keyword wins, so "down payment" lands on savings before debt.
var topicKeywords = []struct {
	topic    domain.ChatTopic
	keywords []string
}{
	{domain.TopicCredit, []string{"credit"}},
	{domain.TopicSavings, []string{"save", "saving", "down payment"}},
	{domain.TopicBudget, []string{"budget", "money", "afford"}},
	{domain.TopicTimeline, []string{"ready", "when", "timeline"}},
	{domain.TopicEmotional, []string{"stress", "nervous", "worried"}},
	{domain.TopicDebt, []string{"debt", "loan", "payment"}},
	{domain.TopicStart, []string{"start", "begin", "first"}},
	{domain.TopicImprove, []string{"improve", "better", "increase"}},
}

func detectTopic(query string) domain.ChatTopic {
	lower := strings.ToLower(query)
	for _, t := range topicKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.topic
			}
		}
	}
	return domain.TopicGeneral
}

const (
	defaultTargetPrice  = 450000.0
	defaultAnnualIncome = 75000.0
)

// downPaymentPlan is the 20%-down arithmetic the companions quote.
type downPaymentPlan struct {
	targetPrice float64
	savings     float64
	twentyPct   float64
	gap         float64
}

func planFor(a domain.ChatAssessment) downPaymentPlan {
	price := a.TargetPrice
	if price <= 0 {
		price = defaultTargetPrice
	}
	twenty := math.Round(price * 0.2)
	return downPaymentPlan{
		targetPrice: price,
		savings:     a.Savings,
		twentyPct:   twenty,
		gap:         math.Max(0, twenty-a.Savings),
	}
}

func monthlyIncome(a domain.ChatAssessment) float64 {
	income := a.Income
	if income <= 0 {
		income = defaultAnnualIncome
	}
	return math.Round(income / 12)
}

func dollars(v float64) string {
	return usd.Sprintf("$%d", int64(math.Round(v)))
}

func rounded(v float64) int {
	return int(math.Round(v))
}

// recommendationText returns the i-th recommendation, or fallback.
func recommendationText(recs []domain.Recommendation, i int, fallback string) string {
	if i < len(recs) && recs[i].Text != "" {
		return recs[i].Text
	}
	return fallback
}

func topRecommendations(recs []domain.Recommendation, n int) []string {
	out := make([]string, 0, n)
	for _, r := range recs {
		if len(out) == n {
			break
		}
		out = append(out, r.Text)
	}
	return out
}

// weakestArea names the lower of the two sub-scores.
func weakestArea(a domain.ChatAssessment) (string, float64) {
	if a.Financial < a.Emotional {
		return "financial", a.Financial
	}
	return "emotional", a.Emotional
}
