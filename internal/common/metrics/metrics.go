// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_gateway_requests_total",
			Help: "Total number of gateway operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lease_gateway_request_duration_seconds",
			Help: "Duration of gateway operations in seconds",
		},
		[]string{"operation"},
	)

	SearchesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_searches_dispatched_total",
			Help: "Total number of listing searches dispatched",
		},
		[]string{"mode"},
	)

	SearchStaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_search_stale_responses_total",
			Help: "Search responses discarded because a newer search superseded them",
		},
		[]string{"mode"},
	)

	WizardSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_wizard_submissions_total",
			Help: "Lease application submissions by outcome",
		},
		[]string{"outcome"},
	)

	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_payments_total",
			Help: "Application fee payments by outcome",
		},
		[]string{"outcome"},
	)

	InFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lease_inflight_operations",
			Help: "Number of gateway operations currently in flight",
		},
		[]string{"operation"},
	)
)
