package metrics

import "sync"

type FakeMetrics struct {
	Events        map[string]int
	Reminders     map[string]int
	Notifications map[string]int
	lock          sync.Mutex
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		Events:        make(map[string]int),
		Reminders:     make(map[string]int),
		Notifications: make(map[string]int),
	}
}

func (m *FakeMetrics) WebhookEventHandled(outcome string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Events[outcome]++
}

func (m *FakeMetrics) RemindersSent(kind string, tasks int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Reminders[kind] += tasks
}

func (m *FakeMetrics) NotificationFailed(kind string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Notifications[kind]++
}
