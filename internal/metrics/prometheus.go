// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	RequestsAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_requests_accepted_total",
			Help: "Total number of invoice-email requests accepted with 202",
		},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_auth_failures_total",
			Help: "Total number of rejected requests at the API key gate",
		},
		[]string{"reason"}, // missing, invalid
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_validation_failures_total",
			Help: "Total number of requests rejected by payload validation",
		},
		[]string{"rule"},
	)
)

// Dispatch and delivery metrics
var (
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_dispatch_queue_depth",
			Help: "Number of invoice emails waiting in the dispatch queue",
		},
	)

	EmailsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_emails_delivered_total",
			Help: "Total number of delivery attempts by outcome",
		},
		[]string{"status"}, // sent, failed
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notifier_delivery_duration_seconds",
			Help:    "Time spent rendering and transmitting a single email",
			Buckets: prometheus.DefBuckets,
		},
	)
)
