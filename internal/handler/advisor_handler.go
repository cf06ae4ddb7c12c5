package handler

import (
	"net/http"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// POST /v1/simulations
// ============================================================

func simulationHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/simulations")
		defer span.End()

		var req domain.SimulationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.Bool("simulation.seeded", req.Seed != nil))

		res, err := advisor.Simulate(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ============================================================
// POST /v1/affordability
// ============================================================

func affordabilityHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/affordability")
		defer span.End()

		var req domain.AffordabilityRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := advisor.EstimateAffordability(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ============================================================
// POST /v1/stress-tests
// ============================================================

func stressTestHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stress-tests")
		defer span.End()

		var req domain.StressTestRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := advisor.StressTest(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ============================================================
// POST /v1/score
// ============================================================

func scoreHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/score")
		defer span.End()

		var req domain.ScoreInputs
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := advisor.Score(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ============================================================
// POST /v1/assessments
// ============================================================

func assessmentHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/assessments")
		defer span.End()

		var req domain.AssessmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := advisor.Assess(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("assessment.id", res.ID))
		writeJSON(w, http.StatusCreated, res)
	}
}

// ============================================================
// Waitlist
// ============================================================

func joinWaitlistHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/waitlist")
		defer span.End()

		var req domain.WaitlistRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		entry, err := advisor.JoinWaitlist(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func waitlistCountHandler(advisor *service.Advisor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/waitlist/count")
		defer span.End()

		n, err := advisor.WaitlistCount(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": n})
	}
}
