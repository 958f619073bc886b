package fetchq

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobRoundTrip(t *testing.T) {
	content := []byte("package main\n\nfunc main() {}\n")
	h, encoded := EncodeBlob(content)

	blob, err := DecodeBlob(encoded)
	require.NoError(t, err)
	require.Equal(t, h, blob.ID)
	require.Equal(t, content, blob.Data)

	// Empty content is a valid blob.
	h2, encoded2 := EncodeBlob(nil)
	blob2, err := DecodeBlob(encoded2)
	require.NoError(t, err)
	require.Equal(t, h2, blob2.ID)
	require.Empty(t, blob2.Data)
}

func TestTreeRoundTrip(t *testing.T) {
	entries := []TreeEntry{
		{Name: "zz.txt", Mode: 0o644, Hash: Sum([]byte("z"))},
		{Name: "aa", Mode: fs.ModeDir | 0o755, Hash: Sum([]byte("a")), IsDir: true},
	}
	h, encoded := EncodeTree(entries)

	tree, err := DecodeTree(encoded)
	require.NoError(t, err)
	require.Equal(t, h, tree.ID)
	require.Len(t, tree.Entries, 2)

	// Entries come back sorted by name regardless of input order; the dir
	// bit survives the mode round trip.
	require.Equal(t, "aa", tree.Entries[0].Name)
	require.True(t, tree.Entries[0].IsDir)
	require.Equal(t, "zz.txt", tree.Entries[1].Name)
	require.False(t, tree.Entries[1].IsDir)

	// Hashing is order-insensitive because of the sort.
	h2, _ := EncodeTree([]TreeEntry{entries[1], entries[0]})
	require.Equal(t, h, h2)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := DecodeBlob([]byte("no header terminator"))
	require.ErrorIs(t, err, ErrMalformed)

	// Kind mismatch both ways.
	_, treeBytes := EncodeTree(nil)
	_, err = DecodeBlob(treeBytes)
	require.ErrorIs(t, err, ErrMalformed)

	_, blobBytes := EncodeBlob([]byte("x"))
	_, err = DecodeTree(blobBytes)
	require.ErrorIs(t, err, ErrMalformed)

	// Header size disagreeing with the payload.
	_, err = DecodeBlob([]byte("blob 99\x00short"))
	require.ErrorIs(t, err, ErrMalformed)

	// Well-formed frame whose entry record is cut short.
	short := append([]byte("tree 10\x00"), make([]byte, 10)...)
	_, err = DecodeTree(short)
	require.ErrorIs(t, err, ErrMalformed)
}
