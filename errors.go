package fetchq

import "errors"

var (
	// ErrNotFound means the backing store could not resolve the requested
	// hash, commit, or manifest.
	ErrNotFound = errors.New("fetchq: not found")

	// ErrIO means the underlying storage access failed (network, disk,
	// corruption).
	ErrIO = errors.New("fetchq: storage failure")

	// ErrMalformed means retrieved bytes did not decode into the expected
	// object kind.
	ErrMalformed = errors.New("fetchq: malformed object")

	// ErrClosed is the resolved error of any fetch issued after Close.
	ErrClosed = errors.New("fetchq: store closed")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
