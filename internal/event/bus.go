// Package event provides an in-process bus for file change
// notifications. Subscribers receive every change applied after they
// subscribe; publishing never blocks on a slow subscriber.
package event

import "sync"

// FileChanged describes one applied edit.
type FileChanged struct {
	SnapshotID string
	Path       string
	Strategy   string
	Before     string
	After      string
}

// Bus fan-outs FileChanged events to subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan FileChanged
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan FileChanged)}
}

// Subscribe registers a new subscriber. The returned cancel func
// removes the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan FileChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan FileChanged, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers ev to all current subscribers. Events are dropped
// for subscribers whose buffer is full.
func (b *Bus) Publish(ev FileChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
