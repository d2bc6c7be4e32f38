package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orb_query_duration_seconds",
			Help:    "Query processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"result_type"},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orb_query_total",
			Help: "Total number of queries processed",
		},
		[]string{"path"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orb_confidence_score",
			Help:    "Resolution confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	AnalyzerFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orb_analyzer_faults_total",
			Help: "Query analyses that degraded due to an internal fault",
		},
	)

	EmbeddingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orb_embedding_cache_hits_total",
			Help: "Embedding lookups served from cache",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orb_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)

func Register() {
	prometheus.MustRegister(
		QueryDuration,
		QueryTotal,
		ConfidenceScore,
		AnalyzerFaults,
		EmbeddingCacheHits,
		ActiveSessions,
	)
}

// Handler exposes the Prometheus scrape endpoint as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
