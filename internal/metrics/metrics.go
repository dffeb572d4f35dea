// Package metrics exposes Prometheus collectors on a dedicated registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventhub"

// Registry holds every eventhub collector. It is served on /metrics.
var Registry = prometheus.NewRegistry()

// Registration outcomes.
const (
	OutcomeRegistered        = "registered"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeFailed            = "failed"
)

// Notification outcomes.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationDropped = "dropped"
)

var (
	// RegistrationsTotal counts event registration attempts that reached the store.
	RegistrationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_registrations_total",
			Help:      "Total number of event registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	// NotificationsTotal counts registration confirmations by outcome.
	NotificationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of registration confirmations by outcome (sent, failed, dropped)",
		},
		[]string{"outcome"},
	)

	// NotificationQueueDepth is the number of confirmations waiting for a worker.
	NotificationQueueDepth = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_queue_depth",
			Help:      "Number of registration confirmations waiting to be sent",
		},
	)
)

// Init registers the Go runtime and process collectors.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
