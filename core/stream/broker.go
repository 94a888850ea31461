package stream

import (
	"context"
	"sync"

	"github.com/trezcool/attendance/core"
)

// Broker is an in-process core.ChangeFeed. Signals are coalesced per subscriber:
// many writes while a subscriber is busy collapse into a single pending signal.
type Broker struct {
	mu   sync.Mutex
	subs map[chan struct{}][]string
}

var _ core.ChangeFeed = (*Broker)(nil) // interface compliance check

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan struct{}][]string)}
}

func (b *Broker) Publish(tables ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch, topics := range b.subs {
		if overlaps(topics, tables) {
			offer(ch, struct{}{})
		}
	}
}

// Subscribe listens for changes on any of tables (all tables when none given).
// The returned channel is closed once ctx is done.
func (b *Broker) Subscribe(ctx context.Context, tables ...string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = tables
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func overlaps(topics, tables []string) bool {
	if len(topics) == 0 || len(tables) == 0 {
		return true
	}
	for _, t := range tables {
		for _, topic := range topics {
			if t == topic {
				return true
			}
		}
	}
	return false
}
