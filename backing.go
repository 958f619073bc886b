package fetchq

import "context"

// BackingStore is the slow, authoritative source of tree and blob content.
// All four calls are synchronous and may block the calling worker for
// arbitrarily long I/O. Implementations must tolerate concurrent calls from
// up to the configured number of workers.
//
// FetchTreeForCommit and FetchTreeForManifest are distinct, typically
// cheaper entry points; the Store forwards them without queueing so they do
// not compete with bulk tree/blob priority ordering.
type BackingStore interface {
	// FetchBlob retrieves raw file content by hash.
	FetchBlob(ctx context.Context, h Hash) (*Blob, error)

	// FetchTree retrieves a directory listing by hash.
	FetchTree(ctx context.Context, h Hash) (*Tree, error)

	// FetchTreeForCommit resolves a commit to its root tree.
	FetchTreeForCommit(ctx context.Context, commit Hash) (*Tree, error)

	// FetchTreeForManifest resolves a commit's manifest to its root tree.
	FetchTreeForManifest(ctx context.Context, commit, manifest Hash) (*Tree, error)
}
