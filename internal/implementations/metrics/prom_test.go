package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, label string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	m.WebhookEventHandled("registered")
	m.WebhookEventHandled("registered")
	m.WebhookEventHandled("not_understood")
	m.RemindersSent("tomorrow", 3)
	m.RemindersSent("tomorrow", 2)
	m.NotificationFailed("today")

	require.Equal(t, 2.0, counterValue(t, reg, "linetask_webhook_events_total", "registered"))
	require.Equal(t, 1.0, counterValue(t, reg, "linetask_webhook_events_total", "not_understood"))
	require.Equal(t, 5.0, counterValue(t, reg, "linetask_reminded_tasks_total", "tomorrow"))
	require.Equal(t, 0.0, counterValue(t, reg, "linetask_reminded_tasks_total", "today"))
	require.Equal(t, 1.0, counterValue(t, reg, "linetask_notifications_failed_total", "today"))
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPromMetrics(reg)
	require.Panics(t, func() { NewPromMetrics(reg) })
}
