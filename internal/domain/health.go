package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /readyz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	Error       string `json:"error,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// MetricsSummary is returned by GET /v1/metrics/summary.
type MetricsSummary struct {
	SimulationsRun        float64            `json:"simulationsRun"`
	TrialsByOutcome       map[string]float64 `json:"trialsByOutcome"`
	AssessmentsByDecision map[string]float64 `json:"assessmentsByDecision"`
	CacheHits             float64            `json:"cacheHits"`
	CacheMisses           float64            `json:"cacheMisses"`
	CacheHitRate          float64            `json:"cacheHitRate"`
	StoreErrors           float64            `json:"storeErrors"`
	SimulationsInFlight   int                `json:"simulationsInFlight"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
