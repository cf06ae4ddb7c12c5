package observability

import (
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Cache names used as label values.
const (
	CacheSimulation    = "simulation"
	CacheAffordability = "affordability"
	CacheStress        = "stress"
	CacheScore         = "score"
)

var (
	cacheNames     = []string{CacheSimulation, CacheAffordability, CacheStress, CacheScore}
	outcomeLabels  = []string{domain.OutcomeSuccess.String(), domain.OutcomeStruggle.String(), domain.OutcomeUnclassified.String()}
	decisionLabels = []string{string(domain.DecisionYes), string(domain.DecisionNotYet), string(domain.DecisionNo)}
)

// Metrics holds all Prometheus metrics for the advisor.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	simulations     prometheus.Counter
	trials          *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	assessments     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homi_request_duration_seconds",
				Help:    "Duration of advisor operations.",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		simulations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "homi_simulations_total",
				Help: "Monte Carlo runs completed.",
			},
		),
		trials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_simulation_trials_total",
				Help: "Simulated trials by terminal outcome.",
			},
			[]string{"outcome"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_store_errors_total",
				Help: "Persistence failures by operation.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		assessments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_assessments_total",
				Help: "Completed assessments by decision.",
			},
			[]string{"decision"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homi_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSimulation counts one run and its trials by outcome.
func (m *Metrics) RecordSimulation(t domain.OutcomeTally) {
	m.simulations.Inc()
	m.trials.WithLabelValues(domain.OutcomeSuccess.String()).Add(float64(t.Success))
	m.trials.WithLabelValues(domain.OutcomeStruggle.String()).Add(float64(t.Struggle))
	m.trials.WithLabelValues(domain.OutcomeUnclassified.String()).Add(float64(t.Unclassified))
}

// IncrStoreError increments the persistence error counter.
func (m *Metrics) IncrStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrAssessment counts a completed assessment.
func (m *Metrics) IncrAssessment(d domain.Decision) {
	m.assessments.WithLabelValues(string(d)).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetSnapshot reads the counters back for GET /v1/metrics/summary.
func (m *Metrics) GetSnapshot() *domain.MetricsSummary {
	s := &domain.MetricsSummary{
		SimulationsRun:        readCounter(m.simulations),
		TrialsByOutcome:       make(map[string]float64, len(outcomeLabels)),
		AssessmentsByDecision: make(map[string]float64, len(decisionLabels)),
	}
	for _, o := range outcomeLabels {
		s.TrialsByOutcome[o] = getCounterValue(m.trials, o)
	}
	for _, d := range decisionLabels {
		s.AssessmentsByDecision[d] = getCounterValue(m.assessments, d)
	}
	for _, c := range cacheNames {
		s.CacheHits += getCounterValue(m.cacheHits, c)
		s.CacheMisses += getCounterValue(m.cacheMisses, c)
	}
	if total := s.CacheHits + s.CacheMisses; total > 0 {
		s.CacheHitRate = s.CacheHits / total
	}
	s.StoreErrors = sumCounterVec(m.storeErrors)
	return s
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return readCounter(cv.WithLabelValues(label))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// sumCounterVec adds up every label combination seen so far.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()
	var total float64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err == nil && m.Counter != nil {
			total += m.Counter.GetValue()
		}
	}
	return total
}
