package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Operaciones del motor por resultado (ok, invalid, not_found, forbidden, conflict, internal).
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_operations_total",
			Help: "Access control operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Grants deactivated by the expiry sweep (on-demand and scheduled).
	ExpiredSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_expired_grants_swept_total",
			Help: "Grants deactivated because expiresAt passed",
		},
	)

	CascadeRevocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_cascade_revocations_total",
			Help: "Inherited grants touched by cascading revoke",
		},
		[]string{"outcome"}, // revoked / failed
	)

	ActivityLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_activity_log_failures_total",
			Help: "Activity log appends that failed (fire-and-forget)",
		},
	)
)

func ObserveOperation(operation, outcome string) {
	Operations.WithLabelValues(operation, outcome).Inc()
}

// Handler expone el registry default en /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
