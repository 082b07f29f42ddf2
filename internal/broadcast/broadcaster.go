// Package broadcast fans completed resolution runs out to in-process
// subscribers (the SSE feed today, other transports later).
package broadcast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// Update is one completed resolution run for a watched coordinate.
type Update struct {
	Coordinate models.Coordinate         `json:"coordinate"`
	Contacts   []models.EmergencyContact `json:"contacts"`
	Degraded   bool                      `json:"degraded"`
	ResolvedAt time.Time                 `json:"resolved_at"`
}

type Broadcaster struct {
	subscribers map[uint64]chan Update
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Update),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan Update) {
	id := b.nextID.Add(1)
	ch := make(chan Update, 16)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(u Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- u:
		default:
			// Skip slow subscribers
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing consumers to exit gracefully.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
