package handler

import (
	"net/http"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// POST /v1/coach/signin
// ============================================================

func coachSignInHandler(coachSvc *service.CoachService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/coach/signin")
		defer span.End()

		var req domain.CoachSignInRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := coachSvc.SignIn(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// GET /v1/coach/assessments?limit=
// ============================================================

func coachAssessmentsHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/coach/assessments")
		defer span.End()
		span.SetAttributes(attribute.String("coach.id", CoachIDFromContext(ctx)))

		list, err := advisor.RecentAssessments(ctx, parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.Assessment]{Data: list, Total: len(list)})
	}
}
