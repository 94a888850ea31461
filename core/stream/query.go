package stream

import (
	"context"

	"github.com/trezcool/attendance/core"
)

// Watch turns fetch into an observable query: it emits a full snapshot right away
// and a fresh one after every change published for tables. Every emission replaces
// the previous one. A failed fetch is reported to onErr and skipped.
func Watch[T any](
	ctx context.Context,
	feed core.ChangeFeed,
	tables []string,
	fetch func(context.Context) (T, error),
	onErr func(error),
) <-chan T {
	out := make(chan T, 1)
	// subscribe before the first fetch so no write slips in between
	changes := feed.Subscribe(ctx, tables...)

	go func() {
		defer close(out)

		emit := func() bool {
			val, err := fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				if onErr != nil {
					onErr(err)
				}
				return true
			}
			select {
			case out <- val:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !emit() {
					return
				}
			}
		}
	}()
	return out
}

// Map applies fn to every value received on in.
func Map[T, R any](ctx context.Context, in <-chan T, fn func(T) R) <-chan R {
	out := make(chan R, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- fn(v):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
