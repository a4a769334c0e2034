package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "hashsearch"
)

var (
	// RangesIssued counts ranges handed to workers
	RangesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranges_issued_total",
			Help:      "Total number of ranges handed to workers",
		},
		[]string{"source"}, // fresh/reclaimed
	)

	// RangesReclaimed counts ranges returned to the pending queue
	RangesReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranges_reclaimed_total",
			Help:      "Total number of ranges reclaimed from vanished workers",
		},
	)

	// ResultsTotal counts RES messages by resolution
	ResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Total number of worker results",
		},
		[]string{"status"}, // not_found/found/invalid
	)

	// MessagesTotal counts frames per direction and tag
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of protocol frames",
		},
		[]string{"direction", "type"}, // in/out, COR/MD5/RNG/RES/ERR
	)

	// ActiveSessions tracks connected workers
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of connected worker sessions",
		},
	)

	// SessionDuration measures how long worker sessions stay connected
	SessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Worker session lifetime in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	// SearchOutcome is 1 for the current search status and 0 otherwise
	SearchOutcome = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_outcome",
			Help:      "Current search status",
		},
		[]string{"status"}, // searching/found/exhausted
	)

	// PendingRanges tracks reclaimed ranges waiting for a worker
	PendingRanges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_ranges",
			Help:      "Number of reclaimed ranges waiting to be reissued",
		},
	)

	// KeyspaceProgress is the share of the keyspace handed out fresh, 0 to 1
	KeyspaceProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keyspace_progress_ratio",
			Help:      "Fraction of the keyspace issued as fresh ranges",
		},
	)

	// Info exposes the configured search
	Info = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "info",
			Help:      "Coordinator search info",
		},
		[]string{"algorithm", "stop_policy"},
	)
)

var statuses = []string{"searching", "found", "exhausted"}

// SetOutcome flips the outcome gauge to status
func SetOutcome(status string) {
	for _, s := range statuses {
		v := 0.0
		if s == status {
			v = 1
		}
		SearchOutcome.WithLabelValues(s).Set(v)
	}
}

// InitInfo initializes info metric
func InitInfo(algorithm, stopPolicy string) {
	Info.WithLabelValues(algorithm, stopPolicy).Set(1)
}
