// Package metrics provides Prometheus metrics for the mirror client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	browsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uamirror_browses_total",
			Help: "Total browse requests issued during directory population",
		},
		[]string{"result"},
	)

	remoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uamirror_remote_calls_total",
			Help: "Total read/write/call round trips",
		},
		[]string{"op", "result"},
	)

	directoryObjects = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uamirror_directory_objects",
			Help: "Number of objects in the directory cache",
		},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uamirror_refresh_duration_seconds",
			Help:    "Time to walk the address space and rebuild the directory",
			Buckets: prometheus.DefBuckets,
		},
	)

	connectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uamirror_connects_total",
			Help: "Total session establishment attempts",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBrowse records one browse request.
func RecordBrowse(success bool) {
	browsesTotal.WithLabelValues(result(success)).Inc()
}

// RecordRemoteCall records one read, write, or call round trip.
func RecordRemoteCall(op string, success bool) {
	remoteCallsTotal.WithLabelValues(op, result(success)).Inc()
}

// SetDirectoryObjects sets the current directory size.
func SetDirectoryObjects(n int) {
	directoryObjects.Set(float64(n))
}

// RecordRefresh records the duration of a directory walk.
func RecordRefresh(d time.Duration) {
	refreshDuration.Observe(d.Seconds())
}

// RecordConnect records one session establishment attempt.
func RecordConnect(success bool) {
	connectsTotal.WithLabelValues(result(success)).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
