package stream

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = 2 * time.Second

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(wait):
		t.Fatal("timed out waiting for a value")
	}
	var zero T
	return zero
}

func assertSilent[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewValue("en")
	sub := v.Subscribe(ctx)
	assert.Equal(t, "en", recv(t, sub))

	v.Set("bn")
	assert.Equal(t, "bn", recv(t, sub))
	assert.Equal(t, "bn", v.Get())

	// slow subscriber only sees the latest value
	v.Set("hi")
	v.Set("en")
	assert.Equal(t, "en", recv(t, sub))
	assertSilent(t, sub)

	got := v.Update(func(s string) string { return s + "!" })
	assert.Equal(t, "en!", got)
	assert.Equal(t, "en!", recv(t, sub))

	cancel()
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(wait):
		t.Fatal("subscription not closed")
	}
}

func TestBroker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroker()
	students := b.Subscribe(ctx, "students")
	all := b.Subscribe(ctx)

	b.Publish("attendance_records")
	assertSilent(t, students)
	recv(t, all)

	// signals coalesce
	b.Publish("students")
	b.Publish("students")
	recv(t, students)
	assertSilent(t, students)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroker()
	var count int32
	var errs int32
	fetch := func(context.Context) (int32, error) {
		n := atomic.AddInt32(&count, 1)
		if n == 3 {
			return 0, assert.AnError
		}
		return n, nil
	}
	out := Watch(ctx, b, []string{"students"}, fetch, func(error) { atomic.AddInt32(&errs, 1) })

	assert.Equal(t, int32(1), recv(t, out))
	b.Publish("students")
	assert.Equal(t, int32(2), recv(t, out))

	// unrelated table: no refetch
	b.Publish("school_profile")
	assertSilent(t, out)

	// failing fetch is skipped
	b.Publish("students")
	assertSilent(t, out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&errs))

	b.Publish("students")
	assert.Equal(t, int32(4), recv(t, out))
}

func TestCombineLatest3(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, b, c := make(chan int), make(chan int), make(chan int)
	out := CombineLatest3(ctx, a, b, c, func(x, y, z int) [3]int { return [3]int{x, y, z} })

	a <- 1
	b <- 2
	assertSilent(t, out) // c has not emitted yet
	c <- 3
	assert.Equal(t, [3]int{1, 2, 3}, recv(t, out))

	b <- 20
	assert.Equal(t, [3]int{1, 20, 3}, recv(t, out))

	close(a)
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(wait):
		t.Fatal("output not closed")
	}
}

func TestCombineLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ins := []chan string{make(chan string), make(chan string)}
	out := CombineLatest(ctx, []<-chan string{ins[0], ins[1]})

	ins[1] <- "b"
	assertSilent(t, out)
	ins[0] <- "a"
	assert.Equal(t, []string{"a", "b"}, recv(t, out))

	ins[0] <- "A"
	assert.Equal(t, []string{"A", "b"}, recv(t, out))

	empty := CombineLatest[string](ctx, nil)
	_, ok := <-empty
	assert.False(t, ok)
}

func TestMap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan int)
	out := Map(ctx, in, func(i int) int { return i * 2 })
	in <- 21
	assert.Equal(t, 42, recv(t, out))
}
