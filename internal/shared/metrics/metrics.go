package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis gate outcomes.
const (
	OutcomeSuccess             = "success"
	OutcomeUntracked           = "untracked"
	OutcomeInsufficientCredits = "insufficient_credits"
	OutcomeServiceError        = "service_error"
	OutcomeDeductionFailed     = "deduction_failed"
	OutcomeRejected            = "rejected"
)

var (
	registry = prometheus.NewRegistry()

	analysisRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailor",
		Name:      "analysis_requests_total",
		Help:      "Analysis gate invocations by outcome.",
	}, []string{"outcome"})

	creditsDeducted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tailor",
		Name:      "credits_deducted_total",
		Help:      "Credits deducted for analyses.",
	})

	analysisServiceDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tailor",
		Name:      "analysis_service_duration_seconds",
		Help:      "Latency of calls to the external analysis service.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})

	statusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailor",
		Name:      "application_status_updates_total",
		Help:      "Applied application status updates by target status.",
	}, []string{"status"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailor",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code class.",
	}, []string{"method", "route", "code"})

	panics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailor",
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by route.",
	}, []string{"route"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		analysisRequests,
		creditsDeducted,
		analysisServiceDuration,
		statusTransitions,
		httpRequests,
		panics,
	)
}

// Registry exposes the process registry, mostly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// IncAnalysisOutcome counts one analysis gate result.
func IncAnalysisOutcome(outcome string) {
	analysisRequests.WithLabelValues(outcome).Inc()
}

// AddCreditsDeducted records a successful deduction of n credits.
func AddCreditsDeducted(n int64) {
	if n <= 0 {
		return
	}
	creditsDeducted.Add(float64(n))
}

// ObserveAnalysisService records one external analysis call.
func ObserveAnalysisService(d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisServiceDuration.Observe(d.Seconds())
}

// IncStatusTransition counts one applied status update.
func IncStatusTransition(status string) {
	statusTransitions.WithLabelValues(status).Inc()
}

// ObserveHTTP counts one handled request.
func ObserveHTTP(method, route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, codeClass(code)).Inc()
}

// IncPanic counts one recovered handler panic.
func IncPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	panics.WithLabelValues(route).Inc()
}

func codeClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return gin.WrapH(h)
}
