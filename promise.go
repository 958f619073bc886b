package fetchq

import (
	"context"
	"sync/atomic"
)

// Future is the consumer side of a one-shot completion. A worker resolves it
// exactly once with the fetched object or an error; the caller may poll or
// wait any number of times. Resolution never blocks the resolving worker.
type Future[T any] struct {
	done     chan struct{}
	resolved atomic.Bool
	val      T
	err      error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// failedFuture returns a Future that is already resolved with err.
func failedFuture[T any](err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(*new(T), err)
	return f
}

// resolve sets the outcome and wakes all waiters. Resolving twice is a
// programming error and panics.
func (f *Future[T]) resolve(v T, err error) {
	if !f.resolved.CompareAndSwap(false, true) {
		panic("fetchq: future resolved twice")
	}
	f.val = v
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the Future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryGet polls the Future without blocking. ok is false while unresolved.
func (f *Future[T]) TryGet() (v T, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		return v, nil, false
	}
}
