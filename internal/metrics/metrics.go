package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	moviesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "top_movies_movies_total",
		Help: "Total number of movies in the catalogue",
	})

	importsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "top_movies_imports_total",
		Help: "Total number of import attempts by result",
	}, []string{"result"})

	providerRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "top_movies_provider_requests_total",
		Help: "Total number of metadata provider requests",
	}, []string{"operation", "status"})

	providerDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "top_movies_provider_request_duration_seconds",
		Help:    "Duration of metadata provider requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "top_movies_errors_total",
		Help: "Total number of errors",
	}, []string{"type"})
)

// Import results
const (
	ImportCreated   = "created"
	ImportDuplicate = "duplicate"
	ImportFailed    = "failed"
)

func init() {
	prometheus.MustRegister(moviesTotal)
	prometheus.MustRegister(importsTotal)
	prometheus.MustRegister(providerRequestsTotal)
	prometheus.MustRegister(providerDurationSeconds)
	prometheus.MustRegister(errorsTotal)
}

// SetMovieCount updates the movies_total metric
func SetMovieCount(count int64) {
	moviesTotal.Set(float64(count))
}

// RecordImport records the outcome of an import
func RecordImport(result string) {
	importsTotal.WithLabelValues(result).Inc()
}

// RecordProviderRequest records a provider call and its duration
func RecordProviderRequest(operation, status string, duration time.Duration) {
	providerRequestsTotal.WithLabelValues(operation, status).Inc()
	providerDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
