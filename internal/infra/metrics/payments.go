package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		OrderRequests,
		PaymentVerifyRequests,
		PaymentVerifyDuration,
		SubscriptionActivations,
	)
}

var (
	// Count of /order calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|invalid_cycle|unauthenticated|already_subscribed|not_configured|gateway_error|unknown
	OrderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_requests_total",
			Help: "Count of /order calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Count of /verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|missing_field|bad_signature|order_not_found|plan_config_missing|subscription_update_failed|unknown
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of /verify calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the verify handler grouped by result.
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of /verify handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)

	// Subscription state transitions on successful confirmation.
	// kind: new|extend|upgrade
	SubscriptionActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_activations_total",
			Help: "Subscription activations by billing cycle and transition kind.",
		},
		[]string{"cycle", "kind"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncOrder(result, reason string) {
	OrderRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func IncVerify(result, reason string) {
	PaymentVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveVerifyDuration(result string, seconds float64) {
	PaymentVerifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}

func IncActivation(cycle, kind string) {
	SubscriptionActivations.WithLabelValues(norm(cycle), norm(kind)).Inc()
}
