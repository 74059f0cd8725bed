package bot

import (
	"context"
	"sync"
)

type SentMessage struct {
	To    string
	Texts []string
}

type FakeMessenger struct {
	Replies    []SentMessage
	Pushes     []SentMessage
	ReplyError error
	PushErrors map[string]error
	lock       sync.Mutex
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{PushErrors: make(map[string]error)}
}

func (m *FakeMessenger) Reply(ctx context.Context, replyToken string, texts ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.ReplyError != nil {
		return m.ReplyError
	}
	m.Replies = append(m.Replies, SentMessage{To: replyToken, Texts: texts})
	return nil
}

func (m *FakeMessenger) Push(ctx context.Context, userID string, texts ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.PushErrors[userID]; err != nil {
		return err
	}
	m.Pushes = append(m.Pushes, SentMessage{To: userID, Texts: texts})
	return nil
}
