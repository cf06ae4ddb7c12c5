package domain

// ============================================================
// Companion chat (POST /v1/coach/chat)
// ============================================================

// Companion personas. An unknown or empty companion is served by the
// navigator.
const (
	CompanionAnalyst   = "analyst"
	CompanionOptimist  = "optimist"
	CompanionNavigator = "navigator"
)

// ChatTopic is the subject detected in the buyer's last message.
type ChatTopic string

const (
	TopicCredit    ChatTopic = "credit"
	TopicSavings   ChatTopic = "savings"
	TopicBudget    ChatTopic = "budget"
	TopicTimeline  ChatTopic = "timeline"
	TopicEmotional ChatTopic = "emotional"
	TopicDebt      ChatTopic = "debt"
	TopicStart     ChatTopic = "getting_started"
	TopicImprove   ChatTopic = "improvement"
	TopicGeneral   ChatTopic = "general"
)

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatAssessment is the assessment summary the client sends along so the
// companion can speak to the buyer's numbers. Every field is optional.
type ChatAssessment struct {
	Total           int              `json:"total"`
	Financial       float64          `json:"financial"`
	Emotional       float64          `json:"emotional"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Savings         float64          `json:"savings,omitempty"`
	TargetPrice     float64          `json:"targetPrice,omitempty"`
	Income          float64          `json:"income,omitempty"`
}

// ChatRequest is the body of POST /v1/coach/chat.
type ChatRequest struct {
	Messages       []ChatMessage   `json:"messages"`
	Companion      string          `json:"companion"`
	AssessmentData *ChatAssessment `json:"assessmentData,omitempty"`
}

// ChatResponse carries the companion's reply.
type ChatResponse struct {
	Response  string    `json:"response"`
	Success   bool      `json:"success"`
	Companion string    `json:"companion"`
	Topic     ChatTopic `json:"topic"`
}

// ChatContext is what a companion strategy needs to compose a reply.
type ChatContext struct {
	Companion  string
	Topic      ChatTopic
	Query      string
	Assessment ChatAssessment
	History    []ChatMessage
}
