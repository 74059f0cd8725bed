package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type PromMetrics struct {
	webhookEvents       *prometheus.CounterVec
	remindersSent       *prometheus.CounterVec
	notificationsFailed *prometheus.CounterVec
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linetask_webhook_events_total",
			Help: "Number of handled webhook message events by outcome",
		}, []string{"outcome"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linetask_reminded_tasks_total",
			Help: "Number of tasks included in sent reminder digests",
		}, []string{"kind"}),
		notificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linetask_notifications_failed_total",
			Help: "Number of messages that could not be delivered",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.webhookEvents, m.remindersSent, m.notificationsFailed)
	return m
}

func (m *PromMetrics) WebhookEventHandled(outcome string) {
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

func (m *PromMetrics) RemindersSent(kind string, tasks int) {
	m.remindersSent.WithLabelValues(kind).Add(float64(tasks))
}

func (m *PromMetrics) NotificationFailed(kind string) {
	m.notificationsFailed.WithLabelValues(kind).Inc()
}
