// Package fetchq turns a slow, synchronous object store into an
// asynchronously-observable, priority-aware fetch pipeline.
//
// A Store sits between a filesystem layer that needs trees and blobs by
// content hash and a backing store whose lookups are expensive and blocking.
// Callers enqueue fetches from any goroutine and get back a one-shot Future
// immediately; a fixed pool of workers drains the queue in priority order,
// performs the synchronous backing-store call, and resolves the Future.
//
// Basic usage:
//
//	backing, _ := store.NewLocal("/var/lib/fetchq")
//	st, _ := fetchq.New(backing, fetchq.WithWorkers(8))
//	defer st.Close()
//
//	// Enqueue fetches; neither call blocks.
//	tf := st.FetchTree(rootHash, fetchq.PriorityHigh)
//	bf := st.FetchBlob(fileHash, fetchq.PriorityNormal)
//
//	// Observe results when needed.
//	tree, err := tf.Wait(ctx)
//	blob, err := bf.Wait(ctx)
//
//	// Commit resolution bypasses the queue entirely.
//	root, err := st.FetchTreeForCommit(commitID).Wait(ctx)
//
// Requests with higher priority are dequeued first; equal priorities are
// served in arrival order. Close stops the queue, drains already-enqueued
// requests, and joins every worker before returning, so no Future is ever
// left unresolved.
package fetchq
