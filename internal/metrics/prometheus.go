package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviewlens_run_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	ReviewsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_reviews_processed_total",
			Help: "Total reviews processed across all runs",
		},
	)

	FeaturesExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviewlens_features_extracted",
			Help:    "Unique features extracted per run",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 250},
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_hits_total",
			Help: "Analysis results served from cache",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_misses_total",
			Help: "Analysis cache misses",
		},
	)
)

func Init() {
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(ReviewsProcessed)
	prometheus.MustRegister(FeaturesExtracted)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
