package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nac_advisor"

var (
	registry = prometheus.NewRegistry()

	analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "decisions",
		Name:      "analyses_total",
		Help:      "Context analyses by outcome",
	}, []string{"outcome"})

	recommendationsEmitted = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "decisions",
		Name:      "recommendations_emitted",
		Help:      "Recommendations returned per analysis",
		Buckets:   []float64{0, 1, 2, 4, 6, 8, 10},
	})

	aiAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ai",
		Name:      "attempts_total",
		Help:      "Provider attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	aiFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ai",
		Name:      "fallbacks_total",
		Help:      "Requests answered by a fallback provider",
	}, []string{"primary", "provider"})

	aiCostUSD = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ai",
		Name:      "cost_usd_total",
		Help:      "Estimated provider spend in USD",
	}, []string{"provider"})

	aiDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ai",
		Name:      "attempt_duration_seconds",
		Help:      "Provider attempt latency in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider"})
)

func init() {
	registry.MustRegister(analysesTotal, recommendationsEmitted, aiAttemptsTotal, aiFallbacksTotal, aiCostUSD, aiDuration)
}

// ObserveAnalysis records a finished analysis and how many recommendations it produced.
func ObserveAnalysis(err error, recommendations int) {
	if err != nil {
		analysesTotal.WithLabelValues("error").Inc()
		return
	}
	analysesTotal.WithLabelValues("ok").Inc()
	recommendationsEmitted.Observe(float64(recommendations))
}

// ObserveAIAttempt records one provider attempt.
func ObserveAIAttempt(provider string, err error, elapsed time.Duration, costUSD float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	aiAttemptsTotal.WithLabelValues(provider, outcome).Inc()
	aiDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if costUSD > 0 {
		aiCostUSD.WithLabelValues(provider).Add(costUSD)
	}
}

// IncAIFallback counts a request answered by provider after primary failed.
func IncAIFallback(primary, provider string) {
	aiFallbacksTotal.WithLabelValues(primary, provider).Inc()
}

// Registry exposes the metrics registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
