package fetchq

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashSize is the width of a content hash in bytes.
const HashSize = sha256.Size

// Hash is a fixed-width content hash identifying a tree or blob.
type Hash [HashSize]byte

// Sum computes the content hash of data.
func Sum(data []byte) Hash {
	return sha256.Sum256(data)
}

// ParseHash decodes a hex-encoded hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("parse hash %q: %w", s, err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("parse hash %q: want %d bytes, got %d", s, HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Kind discriminates the two object kinds a Store fetches.
type Kind uint8

const (
	KindTree Kind = iota + 1
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ObjectID names a single fetchable object. Immutable once constructed.
// It identifies objects toward the backing store and in diagnostics; it
// plays no part in queue ordering.
type ObjectID struct {
	Kind Kind
	Hash Hash
}

// TreeID returns the ObjectID of the tree with the given hash.
func TreeID(h Hash) ObjectID { return ObjectID{Kind: KindTree, Hash: h} }

// BlobID returns the ObjectID of the blob with the given hash.
func BlobID(h Hash) ObjectID { return ObjectID{Kind: KindBlob, Hash: h} }

func (id ObjectID) String() string {
	return id.Kind.String() + ":" + id.Hash.String()
}
