package fetchq

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// workerPool owns a fixed set of goroutines, each draining the queue:
// dequeue one request, perform the matching synchronous backing-store call
// with the queue lock released, resolve the request's future. Only the stop
// signal terminates a worker; every backing-store failure, panics included,
// is captured into the resolved error.
type workerPool struct {
	queue   *requestQueue
	backing BackingStore
	log     *zap.Logger
	metrics *storeMetrics
	wg      conc.WaitGroup
}

func startWorkerPool(queue *requestQueue, backing BackingStore, workers int, log *zap.Logger, metrics *storeMetrics) *workerPool {
	p := &workerPool{
		queue:   queue,
		backing: backing,
		log:     log,
		metrics: metrics,
	}
	for i := 0; i < workers; i++ {
		p.wg.Go(func() { p.run(i) })
	}
	return p
}

// close stops the queue first, then joins every worker. Requests already
// dequeued are still resolved before close returns; requests still queued
// at stop time are drained by the exiting workers.
func (p *workerPool) close() {
	p.queue.stop()
	p.wg.Wait()
}

func (p *workerPool) run(id int) {
	log := p.log.With(zap.Int("worker", id))
	log.Debug("worker started")
	for {
		req, ok := p.queue.dequeue()
		if !ok {
			log.Debug("worker stopped")
			return
		}
		p.metrics.setQueueDepth(p.queue.pending())
		p.process(req, log)
	}
}

// process is the single point where a request's kind tag turns into a
// backing-store call.
func (p *workerPool) process(req *request, log *zap.Logger) {
	start := time.Now()
	switch req.id.Kind {
	case KindTree:
		tree, err := p.fetchTree(req.id.Hash)
		p.observe(req.id, err, start, log)
		req.tree.resolve(tree, err)
	case KindBlob:
		blob, err := p.fetchBlob(req.id.Hash)
		p.observe(req.id, err, start, log)
		req.blob.resolve(blob, err)
	}
}

func (p *workerPool) fetchTree(h Hash) (t *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: backing store panic: %v", ErrIO, r)
		}
	}()
	return p.backing.FetchTree(context.Background(), h)
}

func (p *workerPool) fetchBlob(h Hash) (b *Blob, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: backing store panic: %v", ErrIO, r)
		}
	}()
	return p.backing.FetchBlob(context.Background(), h)
}

func (p *workerPool) observe(id ObjectID, err error, start time.Time, log *zap.Logger) {
	p.metrics.observeFetch(id.Kind, err, time.Since(start))
	if err != nil {
		log.Warn("fetch failed",
			zap.Stringer("object", id),
			zap.Error(err),
		)
	}
}
