package eventdeduplicator

import (
	"context"
	"sync"
	"time"
)

// Memory keeps event ids of a single process. Used when no Redis is configured.
type Memory struct {
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
	lock sync.Mutex
}

func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	return &Memory{ttl: ttl, now: now, seen: make(map[string]time.Time)}
}

func (m *Memory) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	for id, expiresAt := range m.seen {
		if !now.Before(expiresAt) {
			delete(m.seen, id)
		}
	}
	if _, ok := m.seen[eventID]; ok {
		return false, nil
	}
	m.seen[eventID] = now.Add(m.ttl)
	return true, nil
}
