package fetchq

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func blobReq(seed uint64, prio Priority) *request {
	var h Hash
	binary.BigEndian.PutUint64(h[:8], seed)
	req, _ := newBlobRequest(h, prio)
	return req
}

func TestQueuePriorityOrder(t *testing.T) {
	q := newRequestQueue()

	// Priorities with ties; ties must come out in arrival order.
	prios := []Priority{1, 10, 5, 10, 5, 1}
	for i, p := range prios {
		q.enqueue(blobReq(uint64(i), p))
	}

	var got []uint64
	for range prios {
		req, ok := q.dequeue()
		require.True(t, ok)
		got = append(got, binary.BigEndian.Uint64(req.id.Hash[:8]))
	}

	// Index of enqueue call, ordered by (priority desc, arrival asc).
	require.Equal(t, []uint64{1, 3, 2, 4, 0, 5}, got)
}

func TestQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := newRequestQueue()

	done := make(chan uint64, 1)
	go func() {
		req, ok := q.dequeue()
		if ok {
			done <- binary.BigEndian.Uint64(req.id.Hash[:8])
		}
	}()

	select {
	case <-done:
		t.Fatal("dequeue returned before anything was enqueued")
	case <-time.After(50 * time.Millisecond):
	}

	q.enqueue(blobReq(42, PriorityNormal))

	select {
	case seed := <-done:
		require.Equal(t, uint64(42), seed)
	case <-time.After(5 * time.Second):
		t.Fatal("dequeue did not wake after enqueue")
	}
}

func TestQueueStopDrainsPendingFirst(t *testing.T) {
	q := newRequestQueue()
	q.enqueue(blobReq(0, PriorityLow))
	q.enqueue(blobReq(1, PriorityHigh))
	q.stop()

	// Pending items still come out, in priority order.
	req, ok := q.dequeue()
	require.True(t, ok)
	require.Equal(t, PriorityHigh, req.priority)

	req, ok = q.dequeue()
	require.True(t, ok)
	require.Equal(t, PriorityLow, req.priority)

	// Stopped and empty: immediate termination signal, no blocking.
	start := time.Now()
	_, ok = q.dequeue()
	require.False(t, ok)
	require.Less(t, time.Since(start), time.Second)
}

func TestQueueStopWakesAllWaiters(t *testing.T) {
	q := newRequestQueue()

	const waiters = 4
	var wg sync.WaitGroup
	results := make(chan bool, waiters)
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.dequeue()
			results <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond) // let the waiters park
	q.stop()
	wg.Wait()

	for range waiters {
		require.False(t, <-results)
	}
}

func TestQueueStopIdempotent(t *testing.T) {
	q := newRequestQueue()
	q.stop()
	q.stop()

	_, ok := q.dequeue()
	require.False(t, ok)
}

func TestQueueEnqueueAfterStopPanics(t *testing.T) {
	q := newRequestQueue()
	q.stop()
	require.Panics(t, func() { q.enqueue(blobReq(0, PriorityNormal)) })
}

func TestQueueConcurrentEnqueueDequeue(t *testing.T) {
	q := newRequestQueue()

	const (
		producers   = 8
		perProducer = 200
		consumers   = 4
	)

	// Every payload is unique; every one must be delivered to exactly one
	// consumer.
	var prodWG sync.WaitGroup
	for p := range producers {
		prodWG.Add(1)
		go func() {
			defer prodWG.Done()
			for i := range perProducer {
				q.enqueue(blobReq(uint64(p*perProducer+i), Priority(i%3)))
			}
		}()
	}

	var consWG sync.WaitGroup
	seen := make(chan uint64, producers*perProducer)
	for range consumers {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				req, ok := q.dequeue()
				if !ok {
					return
				}
				seen <- binary.BigEndian.Uint64(req.id.Hash[:8])
			}
		}()
	}

	prodWG.Wait()
	q.stop()
	consWG.Wait()
	close(seen)

	got := make(map[uint64]int)
	for seed := range seen {
		got[seed]++
	}
	require.Len(t, got, producers*perProducer, "payloads lost")
	for seed, count := range got {
		require.Equal(t, 1, count, "payload %d delivered %d times", seed, count)
	}
}
