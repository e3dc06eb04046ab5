// Package metrics exposes moderation and membership counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is the prefix of all exported metric names.
const Namespace = "convo"

// Values of the "result" label of follow requests.
const (
	FollowAuthorized = "authorized"
	FollowDenied     = "denied"
	FollowFailed     = "error"
)

// Values of the "kind" label of side effect failures.
const (
	KindLockdown = "lockdown"
	KindPush     = "push"
	KindMarkRead = "mark_read"
	KindInvite   = "invite_restore"
)

var (
	registry = prometheus.NewRegistry()

	abuseReports = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "abuse_reports_total",
		Help:      "Number of abuse reports filed, repeated reports included.",
	})
	messagesDeactivated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "messages_deactivated_total",
		Help:      "Number of messages taken down by abuse reports.",
	})
	followRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "follow_requests_total",
		Help:      "Follow requests by outcome.",
	}, []string{"result"})
	subscriptionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "subscriptions_created_total",
		Help:      "Number of subscriptions created.",
	})
	sideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "side_effect_failures_total",
		Help:      "Best-effort operations which failed and were skipped.",
	}, []string{"kind"})
)

// AbuseReported counts a filed abuse report.
func AbuseReported() {
	abuseReports.Inc()
}

// MessageDeactivated counts a message taken down.
func MessageDeactivated() {
	messagesDeactivated.Inc()
}

// FollowRequested counts a follow request with the given outcome.
func FollowRequested(result string) {
	followRequests.WithLabelValues(result).Inc()
}

// SubscriptionCreated counts a new subscription.
func SubscriptionCreated() {
	subscriptionsCreated.Inc()
}

// SideEffectFailed counts a failed best-effort operation of the given kind.
func SideEffectFailed(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}

// Handler returns the HTTP handler serving all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RegisterServer adds the server status collector. isUp reports if the database is
// reachable, dbStats returns the adapter's connection stats, may be nil.
func RegisterServer(version string, isUp func() bool, dbStats func() interface{}) error {
	return registry.Register(newServerCollector(version, time.Now(), isUp, dbStats))
}

func init() {
	registry.MustRegister(
		abuseReports,
		messagesDeactivated,
		followRequests,
		subscriptionsCreated,
		sideEffectFailures,
		collectors.NewGoCollector(),
	)
}
