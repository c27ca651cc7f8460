// Package metrics provides Prometheus metrics for the transaction sender.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsTotal is a counter of transaction submissions by result.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kin_submissions_total",
			Help: "Total number of transaction submissions",
		},
		[]string{"result"},
	)

	// TopUpsTotal is a counter of channel top-up transactions.
	TopUpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kin_channel_topups_total",
			Help: "Total number of channel top-up transactions",
		},
	)

	// WhitelistSigningsTotal is a counter of co-signed envelopes.
	WhitelistSigningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kin_whitelist_signings_total",
			Help: "Total number of whitelisted transaction envelopes",
		},
	)

	// RequestDuration is a histogram of API request handling duration.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kin_request_duration_seconds",
			Help:    "Duration of API request handling",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		TopUpsTotal,
		WhitelistSigningsTotal,
		RequestDuration,
	)
}

// RecordRequest records an API request duration.
func RecordRequest(endpoint string, duration time.Duration) {
	RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Serve starts the metrics HTTP endpoint on the given address. It blocks
// until the server exits.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
