package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsRegistered(t *testing.T) {
	// promauto registers metrics automatically, so this test verifies the
	// package initializes without panics or duplicate registration.
	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"RequestsAcceptedTotal", RequestsAcceptedTotal},
		{"AuthFailuresTotal", AuthFailuresTotal},
		{"ValidationFailuresTotal", ValidationFailuresTotal},
		{"QueueDepth", QueueDepth},
		{"EmailsDeliveredTotal", EmailsDeliveredTotal},
		{"DeliveryDuration", DeliveryDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s is nil", tt.name)
			}
		})
	}
}

func TestCounterLabels(t *testing.T) {
	AuthFailuresTotal.WithLabelValues("missing").Inc()
	AuthFailuresTotal.WithLabelValues("invalid").Inc()
	EmailsDeliveredTotal.WithLabelValues("sent").Inc()
	EmailsDeliveredTotal.WithLabelValues("failed").Inc()
	ValidationFailuresTotal.WithLabelValues("invalid_email").Inc()
	// No panic means labels are valid
}

func TestQueueDepthGauge(t *testing.T) {
	QueueDepth.Set(3)
	QueueDepth.Inc()
	QueueDepth.Dec()
}
