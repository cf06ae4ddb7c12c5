package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/infra/observability"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("handler")

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is one entry of the readiness report.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// NewRouter creates the HTTP router with all routes and middleware.
// A nil coachSvc disables coach sign-in and the dashboard; the companion
// chat stays available.
func NewRouter(
	advisor *service.Advisor,
	coachSvc *service.CoachService,
	chatSvc *service.ChatService,
	deps []Dependency,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(requestCounter(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(deps, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Engine
		// =============================================
		r.Post("/simulations", simulationHandler(advisor, logger))
		r.Post("/affordability", affordabilityHandler(advisor, logger))
		r.Post("/stress-tests", stressTestHandler(advisor, logger))
		r.Post("/score", scoreHandler(advisor, logger))

		// =============================================
		// 2. Assessments
		// =============================================
		r.Post("/assessments", assessmentHandler(advisor, logger))
		r.Get("/metrics/summary", metricsSummaryHandler(advisor))

		// =============================================
		// 3. Waitlist
		// =============================================
		r.Post("/waitlist", joinWaitlistHandler(advisor, logger))
		r.Get("/waitlist/count", waitlistCountHandler(advisor, logger))

		// =============================================
		// 4. Coach: companion chat and dashboard
		// =============================================
		r.Route("/coach", func(r chi.Router) {
			if chatSvc != nil {
				r.Post("/chat", coachChatHandler(chatSvc, logger))
			}
			if coachSvc == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "coach sign-in is not configured")
				}))
				return
			}
			r.Post("/signin", coachSignInHandler(coachSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(coachSvc, logger))
				r.Get("/assessments", coachAssessmentsHandler(advisor, logger))
			})
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status: "healthy",
			Services: []domain.ServiceHealth{
				{Name: "homi-brain", Status: "healthy", LastChecked: time.Now().UTC().Format(time.RFC3339)},
			},
		})
	}
}

// readyzHandler pings every dependency concurrently. Any failure makes the
// instance unready (503).
func readyzHandler(deps []Dependency, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		services := make([]domain.ServiceHealth, len(deps))
		var g errgroup.Group
		for i, d := range deps {
			g.Go(func() error {
				start := time.Now()
				err := d.Pinger.Ping(ctx)
				h := domain.ServiceHealth{
					Name:        d.Name,
					Status:      "healthy",
					LatencyMs:   time.Since(start).Milliseconds(),
					LastChecked: time.Now().UTC().Format(time.RFC3339),
				}
				if err != nil {
					h.Status = "unhealthy"
					h.Error = err.Error()
					logger.Warn("readiness check failed", zap.String("dependency", d.Name), zap.Error(err))
				}
				services[i] = h
				return nil
			})
		}
		_ = g.Wait()

		status, code := "healthy", http.StatusOK
		for _, s := range services {
			if s.Status != "healthy" {
				status, code = "unhealthy", http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, code, domain.HealthStatus{Status: status, Services: services})
	}
}

func metricsSummaryHandler(advisor *service.Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, advisor.MetricsSummary())
	}
}
