package fetchq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Blob is raw file content addressed by its hash.
type Blob struct {
	ID   Hash
	Data []byte
}

// TreeEntry is a single child of a Tree.
type TreeEntry struct {
	Name  string
	Mode  fs.FileMode
	Hash  Hash
	IsDir bool
}

// Tree enumerates the children of a directory, sorted by name.
type Tree struct {
	ID      Hash
	Entries []TreeEntry
}

// Lookup returns the entry with the given name, if present.
func (t *Tree) Lookup(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// Object framing is git-style: an ASCII header "blob <size>\x00" or
// "tree <size>\x00" followed by the payload. The object hash is the sha256
// of the framed bytes. Tree payloads are a sequence of fixed-layout entry
// records: {mode:4 big-endian}{hash:32}{nameLen:2 big-endian}{name}.

// EncodeBlob frames content as a blob object and returns its hash together
// with the encoded bytes.
func EncodeBlob(content []byte) (Hash, []byte) {
	header := fmt.Sprintf("blob %d\x00", len(content))
	buf := make([]byte, len(header)+len(content))
	copy(buf, header)
	copy(buf[len(header):], content)
	return Sum(buf), buf
}

// EncodeTree frames directory entries as a tree object. Entries are sorted
// by name so that equal trees always hash identically.
func EncodeTree(entries []TreeEntry) (Hash, []byte) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var payload bytes.Buffer
	for _, e := range sorted {
		binary.Write(&payload, binary.BigEndian, uint32(e.Mode))
		payload.Write(e.Hash[:])
		binary.Write(&payload, binary.BigEndian, uint16(len(e.Name)))
		payload.WriteString(e.Name)
	}

	header := fmt.Sprintf("tree %d\x00", payload.Len())
	buf := make([]byte, len(header)+payload.Len())
	copy(buf, header)
	copy(buf[len(header):], payload.Bytes())
	return Sum(buf), buf
}

// DecodeBlob decodes a framed blob object. The hash is recomputed from the
// encoded bytes, not trusted from the caller.
func DecodeBlob(data []byte) (*Blob, error) {
	payload, err := splitFrame(data, "blob")
	if err != nil {
		return nil, err
	}
	return &Blob{ID: Sum(data), Data: payload}, nil
}

// DecodeTree decodes a framed tree object.
func DecodeTree(data []byte) (*Tree, error) {
	payload, err := splitFrame(data, "tree")
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry
	r := bytes.NewReader(payload)
	for r.Len() > 0 {
		var e TreeEntry

		var mode uint32
		if err := binary.Read(r, binary.BigEndian, &mode); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry", ErrMalformed)
		}
		e.Mode = fs.FileMode(mode)
		e.IsDir = e.Mode.IsDir()

		if _, err := io.ReadFull(r, e.Hash[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry hash", ErrMalformed)
		}

		var nameLen uint16
		if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry name length", ErrMalformed)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry name", ErrMalformed)
		}
		e.Name = string(name)

		entries = append(entries, e)
	}

	return &Tree{ID: Sum(data), Entries: entries}, nil
}

// splitFrame validates the "<kind> <size>\x00" header and returns the
// payload that follows it.
func splitFrame(data []byte, kind string) ([]byte, error) {
	sep := bytes.IndexByte(data, 0)
	if sep == -1 {
		return nil, fmt.Errorf("%w: missing header terminator", ErrMalformed)
	}
	header := string(data[:sep])
	payload := data[sep+1:]

	rest, ok := strings.CutPrefix(header, kind+" ")
	if !ok {
		return nil, fmt.Errorf("%w: not a %s object", ErrMalformed, kind)
	}
	size, err := strconv.Atoi(rest)
	if err != nil || size != len(payload) {
		return nil, fmt.Errorf("%w: %s header size mismatch", ErrMalformed, kind)
	}
	return payload, nil
}
