package fetchq

// Priority orders pending requests: higher values are dequeued first.
// Values are not required to be distinct; equal priorities are served in
// arrival order.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 50
	PriorityHigh   Priority = 100
)

// request pairs an object identity with its priority and the promise to
// resolve. Exactly one of tree/blob is set, matching id.Kind; the worker
// dispatches on the kind tag at the single point where the request turns
// into a backing-store call.
//
// A request is owned by the queue from enqueue until a worker dequeues it,
// then by that worker until resolution.
type request struct {
	id       ObjectID
	priority Priority
	seq      uint64 // arrival order, assigned by the queue

	tree *Future[*Tree]
	blob *Future[*Blob]
}

func newTreeRequest(h Hash, prio Priority) (*request, *Future[*Tree]) {
	f := newFuture[*Tree]()
	return &request{id: TreeID(h), priority: prio, tree: f}, f
}

func newBlobRequest(h Hash, prio Priority) (*request, *Future[*Blob]) {
	f := newFuture[*Blob]()
	return &request{id: BlobID(h), priority: prio, blob: f}, f
}
