package metrics

import "github.com/prometheus/client_golang/prometheus"

// Vector index Prometheus metrics.
var (
	IndexQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_queries_total",
			Help:      "Total number of vector index queries",
		},
		[]string{"driver", "status"},
	)

	IndexQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_query_duration_seconds",
			Help:      "Vector index query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver"},
	)

	IndexResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_results",
			Help:      "Number of products returned per index query",
			Buckets:   []float64{0, 1, 5, 10, 20, 30},
		},
		[]string{"driver"},
	)

	IndexUpsertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_upserted_total",
			Help:      "Total number of records written to the vector index",
		},
		[]string{"driver", "status"},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers vector index metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexQueriesTotal)
	prometheus.MustRegister(IndexQueryDuration)
	prometheus.MustRegister(IndexResults)
	prometheus.MustRegister(IndexUpsertedTotal)
	indexMetricsRegistered = true
}

// Status returns the status label for an operation outcome.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
