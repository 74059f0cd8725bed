package bot

import "context"

// Messenger sends text messages through the messaging platform.
type Messenger interface {
	// Reply answers an inbound event. A reply token can be used only once.
	Reply(ctx context.Context, replyToken string, texts ...string) error
	// Push sends messages to a user at any time.
	Push(ctx context.Context, userID string, texts ...string) error
}

// EventDeduplicator remembers processed webhook events so that redelivered
// events are handled once.
type EventDeduplicator interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
}
