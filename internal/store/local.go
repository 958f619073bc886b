// Package store implements a local-disk backing store for fetchq.
//
// Storage layout:
//
//	basePath/
//	  objects/
//	    ab/cd123...   (framed, zstd-compressed objects, sharded by hash)
//	  refs/
//	    commits/<hex> (plain text: root tree hash)
//
// Objects use the same git-style framing fetchq encodes, so a store
// populated by Put* round-trips through Fetch* unchanged.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"fetchq"
)

// DefaultCacheSize is the object-count capacity of the in-memory cache.
const DefaultCacheSize = 512

// Local is a filesystem-backed fetchq.BackingStore with an in-memory LRU
// cache in front of the object files.
type Local struct {
	basePath string
	cache    *lru.Cache[fetchq.Hash, []byte]
	comp     *compressor
}

// LocalOption configures NewLocal.
type LocalOption func(*localOptions)

type localOptions struct {
	cacheSize        int
	compressionLevel int
}

// WithCacheSize sets the in-memory cache capacity in objects.
func WithCacheSize(n int) LocalOption {
	return func(o *localOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithCompressionLevel sets the zstd level (1 fastest, 2 default, 3 best).
func WithCompressionLevel(level int) LocalOption {
	return func(o *localOptions) { o.compressionLevel = level }
}

// NewLocal opens (creating if needed) a local store rooted at basePath.
func NewLocal(basePath string, opts ...LocalOption) (*Local, error) {
	options := &localOptions{cacheSize: DefaultCacheSize, compressionLevel: 2}
	for _, opt := range opts {
		opt(options)
	}

	for _, dir := range []string{
		filepath.Join(basePath, "objects"),
		filepath.Join(basePath, "refs", "commits"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	cache, err := lru.New[fetchq.Hash, []byte](options.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	comp, err := newCompressor(options.compressionLevel)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	return &Local{basePath: basePath, cache: cache, comp: comp}, nil
}

// FetchBlob implements fetchq.BackingStore.
func (s *Local) FetchBlob(ctx context.Context, h fetchq.Hash) (*fetchq.Blob, error) {
	data, err := s.readObject(h)
	if err != nil {
		return nil, err
	}
	blob, err := fetchq.DecodeBlob(data)
	if err != nil {
		return nil, fmt.Errorf("decode blob %s: %w", h, err)
	}
	return blob, nil
}

// FetchTree implements fetchq.BackingStore.
func (s *Local) FetchTree(ctx context.Context, h fetchq.Hash) (*fetchq.Tree, error) {
	data, err := s.readObject(h)
	if err != nil {
		return nil, err
	}
	tree, err := fetchq.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", h, err)
	}
	return tree, nil
}

// FetchTreeForCommit resolves a commit ref to its root tree.
func (s *Local) FetchTreeForCommit(ctx context.Context, commit fetchq.Hash) (*fetchq.Tree, error) {
	data, err := os.ReadFile(s.refPath(commit))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: commit %s", fetchq.ErrNotFound, commit)
		}
		return nil, fmt.Errorf("%w: read commit ref %s: %v", fetchq.ErrIO, commit, err)
	}
	root, err := fetchq.ParseHash(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: commit ref %s: %v", fetchq.ErrMalformed, commit, err)
	}
	return s.FetchTree(ctx, root)
}

// FetchTreeForManifest fetches the root tree named by the manifest hash.
// The commit id is accepted for interface compatibility; the manifest hash
// addresses the tree directly.
func (s *Local) FetchTreeForManifest(ctx context.Context, commit, manifest fetchq.Hash) (*fetchq.Tree, error) {
	return s.FetchTree(ctx, manifest)
}

// PutBlob frames and stores file content, returning its hash.
func (s *Local) PutBlob(content []byte) (fetchq.Hash, error) {
	h, encoded := fetchq.EncodeBlob(content)
	return h, s.writeObject(h, encoded)
}

// PutTree frames and stores directory entries, returning the tree hash.
func (s *Local) PutTree(entries []fetchq.TreeEntry) (fetchq.Hash, error) {
	h, encoded := fetchq.EncodeTree(entries)
	return h, s.writeObject(h, encoded)
}

// PutCommit records the root tree for a commit.
func (s *Local) PutCommit(commit, root fetchq.Hash) error {
	if err := os.WriteFile(s.refPath(commit), []byte(root.String()), 0o644); err != nil {
		return fmt.Errorf("write commit ref %s: %w", commit, err)
	}
	return nil
}

func (s *Local) readObject(h fetchq.Hash) ([]byte, error) {
	if data, ok := s.cache.Get(h); ok {
		return data, nil
	}

	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: object %s", fetchq.ErrNotFound, h)
		}
		return nil, fmt.Errorf("%w: read object %s: %v", fetchq.ErrIO, h, err)
	}

	data, err := s.comp.decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress object %s: %v", fetchq.ErrMalformed, h, err)
	}

	s.cache.Add(h, data)
	return data, nil
}

func (s *Local) writeObject(h fetchq.Hash, encoded []byte) error {
	path := s.objectPath(h)
	if _, err := os.Stat(path); err == nil {
		return nil // content-addressed: already present means identical
	}

	compressed, err := s.comp.compress(encoded)
	if err != nil {
		return fmt.Errorf("compress object %s: %w", h, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", h, err)
	}

	s.cache.Add(h, encoded)
	return nil
}

// objectPath shards objects git-style: objects/ab/cd123...
func (s *Local) objectPath(h fetchq.Hash) string {
	hex := h.String()
	return filepath.Join(s.basePath, "objects", hex[:2], hex[2:])
}

func (s *Local) refPath(commit fetchq.Hash) string {
	return filepath.Join(s.basePath, "refs", "commits", commit.String())
}
