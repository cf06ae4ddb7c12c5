package handler

import (
	"net/http"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// POST /v1/coach/chat
// ============================================================

// coachChatHandler is public: buyers talk to their companion without a
// coach account.
//
//	{"messages": [{"role": "user", "content": "How do I fix my credit?"}],
//	 "companion": "analyst",
//	 "assessmentData": {"total": 72, "financial": 64, "emotional": 85}}
func coachChatHandler(chatSvc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/coach/chat")
		defer span.End()

		var req domain.ChatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.Int("chat.turns", len(req.Messages)))

		resp, err := chatSvc.ProcessMessage(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
