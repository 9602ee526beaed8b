// Package metrics exposes Prometheus counters and histograms for the query
// pipeline: one set of measurements per algorithm family, independent of
// which role (primary or auxiliary) dispatched it.
package metrics

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultPrometheusPort  = 2223
	shutdownTimeoutSeconds = 60
	namespace              = "networksearch"
)

var (
	queryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_ms",
		Help:      "Wall-clock duration of one algorithm-family sub-query, in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000, 15000, 30000},
	}, []string{"alg_name"})

	queryCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_total",
		Help:      "Number of sub-queries run, by algorithm family.",
	}, []string{"alg_name"})

	timeoutCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_timeout_total",
		Help:      "Number of sub-queries that hit their deadline before the result stream went dry.",
	}, []string{"alg_name"})

	capHitCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cap_hit_total",
		Help:      "Number of sub-queries that stopped because the result cap (k_shortest/max_results) was reached.",
	}, []string{"alg_name"})

	resultCount = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "result_count",
		Help:      "Number of result entities (paths, edges, parents) returned by a sub-query.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"alg_name"})
)

func init() {
	prometheus.MustRegister(queryLatency, queryCount, timeoutCount, capHitCount, resultCount)
}

// RecordQuery records the outcome of one algorithm-family sub-query: how
// long it ran, how many results it produced, and why it stopped.
func RecordQuery(algName string, elapsed time.Duration, results int, timedOut, capReached bool) {
	queryCount.WithLabelValues(algName).Inc()
	queryLatency.WithLabelValues(algName).Observe(float64(elapsed.Milliseconds()))
	resultCount.WithLabelValues(algName).Observe(float64(results))
	if timedOut {
		timeoutCount.WithLabelValues(algName).Inc()
	}
	if capReached {
		capHitCount.WithLabelValues(algName).Inc()
	}
}

// ServePrometheus starts an HTTP server exposing /metrics for scraping. It
// returns once the listener is bound; serving happens in the background.
func ServePrometheus(port int) error {
	if port == 0 {
		port = defaultPrometheusPort
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.Serve(lis, mux); err != nil {
			slog.Error("prometheus metrics server stopped", "error", err)
		}
	}()
	return nil
}

// ShutdownTimeout is exposed so the server entrypoint can bound how long it
// waits for in-flight scrapes to finish during graceful shutdown.
func ShutdownTimeout() time.Duration {
	return shutdownTimeoutSeconds * time.Second
}
