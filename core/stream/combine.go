package stream

import "context"

// CombineLatest3 emits fn(a, b, c) once every input has emitted at least once, then
// again whenever any input emits. All state lives in one goroutine so a combined
// value is never built from a half-updated set of inputs.
// The output closes when ctx is done or any input closes.
func CombineLatest3[A, B, C, R any](
	ctx context.Context,
	a <-chan A, b <-chan B, c <-chan C,
	fn func(A, B, C) R,
) <-chan R {
	out := make(chan R, 1)

	go func() {
		defer close(out)

		var (
			va               A
			vb               B
			vc               C
			hasA, hasB, hasC bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-a:
				if !ok {
					return
				}
				va, hasA = v, true
			case v, ok := <-b:
				if !ok {
					return
				}
				vb, hasB = v, true
			case v, ok := <-c:
				if !ok {
					return
				}
				vc, hasC = v, true
			}

			if hasA && hasB && hasC {
				select {
				case out <- fn(va, vb, vc):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

type indexed[T any] struct {
	idx    int
	val    T
	closed bool
}

// CombineLatest is CombineLatest3 for any number of inputs of the same type.
// Emitted slices are fresh copies, ordered like inputs.
func CombineLatest[T any](ctx context.Context, inputs []<-chan T) <-chan []T {
	out := make(chan []T, 1)
	if len(inputs) == 0 {
		close(out)
		return out
	}

	ctx, cancel := context.WithCancel(ctx)
	merged := make(chan indexed[T])
	for i, in := range inputs {
		go func(i int, in <-chan T) {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					select {
					case merged <- indexed[T]{idx: i, val: v, closed: !ok}:
					case <-ctx.Done():
						return
					}
					if !ok {
						return
					}
				}
			}
		}(i, in)
	}

	go func() {
		defer close(out)
		defer cancel()

		latest := make([]T, len(inputs))
		seen := make([]bool, len(inputs))
		remaining := len(inputs)
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-merged:
				if m.closed {
					return
				}
				latest[m.idx] = m.val
				if !seen[m.idx] {
					seen[m.idx] = true
					remaining--
				}
				if remaining > 0 {
					continue
				}
				snapshot := make([]T, len(latest))
				copy(snapshot, latest)
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
