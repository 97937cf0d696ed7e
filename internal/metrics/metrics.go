// Package metrics exposes Prometheus instrumentation for the refresh loops
// and the published snapshots.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source labels for the fetch metrics.
const (
	SourcePublic = "public"
	SourceUser   = "user"
)

var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmboard",
		Name:      "fetch_attempts_total",
		Help:      "Refresh fetches started, by data source.",
	}, []string{"source"})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmboard",
		Name:      "fetch_failures_total",
		Help:      "Refresh fetches that failed and kept the previous snapshot, by data source.",
	}, []string{"source"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "farmboard",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of successful refresh fetches, by data source.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	snapshotFarms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "farmboard",
		Name:      "snapshot_farms",
		Help:      "Number of farms in the latest public snapshot.",
	})

	snapshotTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "farmboard",
		Name:      "snapshot_timestamp_seconds",
		Help:      "Unix time the latest public snapshot was published.",
	})
)

func FetchAttempt(source string) {
	fetchAttempts.WithLabelValues(source).Inc()
}

func FetchFailure(source string) {
	fetchFailures.WithLabelValues(source).Inc()
}

func ObserveFetchDuration(source string, d time.Duration) {
	fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func SetSnapshotFarms(n int) {
	snapshotFarms.Set(float64(n))
}

func SetSnapshotTime(t time.Time) {
	snapshotTimestamp.Set(float64(t.Unix()))
}
