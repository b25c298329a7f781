package v1

import "github.com/prometheus/client_golang/prometheus"

// Collectors are the domain metrics of the v1 API.
var Collectors = []prometheus.Collector{
	alertsEmitted,
	goalContributions,
	notificationFailures,
}

var alertsEmitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "budget_alerts_total",
		Help: "How many budget alerts were emitted, partitioned by level.",
	},
	[]string{"level"},
)

var goalContributions = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "goal_contributions_total",
		Help: "How many contributions to goals were recorded.",
	},
)

var notificationFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "alert_notification_failures_total",
		Help: "How many budget alert notifications could not be delivered.",
	},
)
