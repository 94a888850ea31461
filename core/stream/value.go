// Package stream holds the small set of observable primitives the app is built on:
// observable values, a table-level change feed, observable queries and combine-latest.
package stream

import (
	"context"
	"sync"
)

// Value is an observable value with an explicit update method.
// Subscribers receive the current value first, then every update. Slow subscribers
// only ever see the latest value; Set never blocks.
type Value[T any] struct {
	mu   sync.Mutex
	val  T
	subs map[chan T]struct{}
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		val:  initial,
		subs: make(map[chan T]struct{}),
	}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.val = val
	for ch := range v.subs {
		offer(ch, val)
	}
}

// Update applies fn to the current value atomically and publishes the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.val = fn(v.val)
	for ch := range v.subs {
		offer(ch, v.val)
	}
	return v.val
}

// Subscribe returns a channel closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.val
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()
	return ch
}

// offer replaces whatever is pending in ch with val. ch must have a buffer of 1
// and offer must only be called by the (locked) publisher.
func offer[T any](ch chan T, val T) {
	select {
	case ch <- val:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- val:
	default:
	}
}
