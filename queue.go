package fetchq

import (
	"container/heap"
	"sync"
)

// requestQueue is a thread-safe, priority-ordered, blockable queue of
// requests. Enqueue never blocks; dequeue parks the caller until an item or
// the stop signal arrives. Stop means "no more enqueues", not "discard
// pending work": items enqueued before stop are still drained in priority
// order before dequeue reports termination.
type requestQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	heap    requestHeap
	nextSeq uint64
	stopped bool
}

func newRequestQueue() *requestQueue {
	q := &requestQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// enqueue inserts r and wakes one blocked waiter. Enqueueing after stop is a
// programming error and panics; the Store façade guarantees no fetch is
// accepted once teardown begins.
func (q *requestQueue) enqueue(r *request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		panic("fetchq: enqueue on stopped queue")
	}

	r.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.heap, r)
	q.cond.Signal()
}

// dequeue blocks until a request is available or the queue is stopped and
// drained. It returns the highest-priority request, oldest first among
// equal priorities. ok is false only once the queue is stopped and empty.
func (q *requestQueue) dequeue() (r *request, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.heap) == 0 && !q.stopped {
		q.cond.Wait()
	}
	if len(q.heap) == 0 {
		return nil, false
	}
	return heap.Pop(&q.heap).(*request), true
}

// stop irreversibly marks the queue stopped and broadcasts so every parked
// waiter re-checks the predicate. Idempotent.
func (q *requestQueue) stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopped = true
	q.cond.Broadcast()
}

// pending returns the number of queued requests.
func (q *requestQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// requestHeap is a max-heap over (priority, arrival order): higher priority
// first, then lower seq first among equals.
type requestHeap []*request

func (h requestHeap) Len() int { return len(h) }

func (h requestHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h requestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *requestHeap) Push(x any) {
	*h = append(*h, x.(*request))
}

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return r
}
