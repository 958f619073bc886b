// Package remote implements a fetchq.BackingStore backed by an OCI
// registry.
//
// Objects live as raw registry blobs addressed by the sha256 digest of
// their framed bytes, so the content hash a caller holds is exactly the
// registry digest. Commits are tags whose image config labels carry the
// root tree hash.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	"fetchq"
)

// rootLabel is the image config label naming a commit's root tree hash.
const rootLabel = "dev.fetchq.root"

// Store fetches trees and blobs from an OCI registry repository. It is
// read-only: populating the repository is the publisher's concern.
type Store struct {
	repo name.Repository
	auth Authenticator
}

// NewStore creates a registry-backed store for a repository such as
// "ghcr.io/org/objects".
func NewStore(repository string, auth Authenticator) (*Store, error) {
	repo, err := name.NewRepository(repository)
	if err != nil {
		return nil, fmt.Errorf("invalid repository %q: %w", repository, err)
	}
	return &Store{repo: repo, auth: auth}, nil
}

// FetchBlob implements fetchq.BackingStore.
func (s *Store) FetchBlob(ctx context.Context, h fetchq.Hash) (*fetchq.Blob, error) {
	data, err := s.readObject(ctx, h)
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
func (s *Store) FetchTree(ctx context.Context, h fetchq.Hash) (*fetchq.Tree, error) {
	data, err := s.readObject(ctx, h)
	if err != nil {
		return nil, err
	}
	tree, err := fetchq.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", h, err)
	}
	return tree, nil
}

// FetchTreeForCommit resolves the commit's tag to its root tree.
func (s *Store) FetchTreeForCommit(ctx context.Context, commit fetchq.Hash) (*fetchq.Tree, error) {
	tag := s.repo.Tag("commit-" + commit.String())
	img, err := remote.Image(tag, s.options(ctx)...)
	if err != nil {
		return nil, mapRegistryErr(err, "commit "+commit.String())
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("%w: config for commit %s: %v", fetchq.ErrIO, commit, err)
	}
	rootHex := cfg.Config.Labels[rootLabel]
	if rootHex == "" {
		return nil, fmt.Errorf("%w: commit %s missing %s label", fetchq.ErrMalformed, commit, rootLabel)
	}
	root, err := fetchq.ParseHash(rootHex)
	if err != nil {
		return nil, fmt.Errorf("%w: commit %s root label: %v", fetchq.ErrMalformed, commit, err)
	}

	return s.FetchTree(ctx, root)
}

// FetchTreeForManifest fetches the root tree named by the manifest hash
// directly; the commit id is accepted for interface compatibility.
func (s *Store) FetchTreeForManifest(ctx context.Context, commit, manifest fetchq.Hash) (*fetchq.Tree, error) {
	return s.FetchTree(ctx, manifest)
}

func (s *Store) readObject(ctx context.Context, h fetchq.Hash) ([]byte, error) {
	digest := s.repo.Digest("sha256:" + h.String())
	layer, err := remote.Layer(digest, s.options(ctx)...)
	if err != nil {
		return nil, mapRegistryErr(err, "object "+h.String())
	}

	// Objects are stored uncompressed, so the raw blob stream is the
	// framed object.
	rc, err := layer.Compressed()
	if err != nil {
		return nil, mapRegistryErr(err, "object "+h.String())
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read object %s: %v", fetchq.ErrIO, h, err)
	}
	return data, nil
}

func (s *Store) options(ctx context.Context) []remote.Option {
	opts := []remote.Option{remote.WithContext(ctx)}
	if s.auth != nil {
		if username, password, err := s.auth.Authenticate(s.repo.RegistryStr()); err == nil && username != "" {
			return append(opts, remote.WithAuth(&authn.Basic{
				Username: username,
				Password: password,
			}))
		}
	}
	return append(opts, remote.WithAuthFromKeychain(authn.DefaultKeychain))
}

// mapRegistryErr folds registry transport failures into the fetchq error
// taxonomy: 404s are ErrNotFound, everything else is ErrIO.
func mapRegistryErr(err error, what string) error {
	var terr *transport.Error
	if errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", fetchq.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", fetchq.ErrIO, what, err)
}
