package fetchq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Store is the asynchronous, priority-aware entry point over a synchronous
// BackingStore. Fetch calls never block on the fetch itself: they enqueue a
// request and return an unresolved Future immediately. A fixed pool of
// workers drains the queue in priority order.
type Store struct {
	backing BackingStore
	queue   *requestQueue
	pool    *workerPool
	log     *zap.Logger
	metrics *storeMetrics

	mu     sync.RWMutex // guards closed against in-flight enqueues
	closed bool
	direct conc.WaitGroup // bypass calls in flight
}

// New creates a Store over backing and starts its workers. Workers begin
// draining as soon as requests arrive. The worker count is fixed for the
// Store's lifetime.
func New(backing BackingStore, opts ...Option) (*Store, error) {
	if backing == nil {
		return nil, errors.New("fetchq: nil backing store")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Workers <= 0 {
		return nil, fmt.Errorf("fetchq: worker count must be positive, got %d", options.Workers)
	}

	s := &Store{
		backing: backing,
		queue:   newRequestQueue(),
		log:     options.Logger,
		metrics: newStoreMetrics(options.Metrics),
	}
	s.pool = startWorkerPool(s.queue, backing, options.Workers, s.log, s.metrics)
	return s, nil
}

// FetchTree enqueues a tree fetch and returns its Future immediately.
func (s *Store) FetchTree(h Hash, prio Priority) *Future[*Tree] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return failedFuture[*Tree](ErrClosed)
	}
	req, f := newTreeRequest(h, prio)
	s.queue.enqueue(req)
	s.metrics.setQueueDepth(s.queue.pending())
	return f
}

// FetchBlob enqueues a blob fetch and returns its Future immediately.
func (s *Store) FetchBlob(h Hash, prio Priority) *Future[*Blob] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return failedFuture[*Blob](ErrClosed)
	}
	req, f := newBlobRequest(h, prio)
	s.queue.enqueue(req)
	s.metrics.setQueueDepth(s.queue.pending())
	return f
}

// FetchTreeForCommit resolves a commit to its root tree. The call bypasses
// the priority queue and goes straight to the backing store's dedicated
// commit entry point on its own goroutine.
func (s *Store) FetchTreeForCommit(commit Hash) *Future[*Tree] {
	return s.bypass(func(ctx context.Context) (*Tree, error) {
		return s.backing.FetchTreeForCommit(ctx, commit)
	})
}

// FetchTreeForManifest resolves a commit's manifest to its root tree,
// bypassing the queue like FetchTreeForCommit.
func (s *Store) FetchTreeForManifest(commit, manifest Hash) *Future[*Tree] {
	return s.bypass(func(ctx context.Context) (*Tree, error) {
		return s.backing.FetchTreeForManifest(ctx, commit, manifest)
	})
}

func (s *Store) bypass(call func(context.Context) (*Tree, error)) *Future[*Tree] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return failedFuture[*Tree](ErrClosed)
	}
	f := newFuture[*Tree]()
	s.direct.Go(func() {
		f.resolve(runDirect(call))
	})
	return f
}

func runDirect(call func(context.Context) (*Tree, error)) (t *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: backing store panic: %v", ErrIO, r)
		}
	}()
	return call(context.Background())
}

// Pending returns the number of requests waiting in the queue.
func (s *Store) Pending() int {
	return s.queue.pending()
}

// Close stops the queue, drains already-enqueued requests, and joins every
// worker and in-flight bypass call. Every Future handed out before Close is
// resolved by the time Close returns. Idempotent; fetches issued after (or
// racing with) Close resolve immediately with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.pool.close()
	s.direct.Wait()
	s.log.Debug("store closed")
	return nil
}
