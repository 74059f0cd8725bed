package metrics

const (
	OutcomeRegistered    = "registered"
	OutcomeNotUnderstood = "not_understood"
	OutcomeFailed        = "failed"
	OutcomeDuplicate     = "duplicate"
	OutcomeSkipped       = "skipped"
)

type Metrics interface {
	WebhookEventHandled(outcome string)
	RemindersSent(kind string, tasks int)
	NotificationFailed(kind string)
}

type Nop struct{}

func (Nop) WebhookEventHandled(string) {}
func (Nop) RemindersSent(string, int)  {}
func (Nop) NotificationFailed(string)  {}
