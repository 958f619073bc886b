package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fetchq"
)

// ImportDir walks dir, storing every regular file as a blob and every
// directory as a tree, and returns the root tree hash. Symlinks and other
// special files are skipped.
func (s *Local) ImportDir(dir string) (fetchq.Hash, error) {
	return s.importTree(dir)
}

// ImportCommit imports dir and records the result as commit's root tree.
func (s *Local) ImportCommit(dir string, commit fetchq.Hash) (fetchq.Hash, error) {
	root, err := s.ImportDir(dir)
	if err != nil {
		return fetchq.Hash{}, err
	}
	if err := s.PutCommit(commit, root); err != nil {
		return fetchq.Hash{}, err
	}
	return root, nil
}

func (s *Local) importTree(dir string) (fetchq.Hash, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fetchq.Hash{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var entries []fetchq.TreeEntry
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		switch {
		case de.IsDir():
			h, err := s.importTree(path)
			if err != nil {
				return fetchq.Hash{}, err
			}
			info, err := de.Info()
			if err != nil {
				return fetchq.Hash{}, fmt.Errorf("stat %s: %w", path, err)
			}
			entries = append(entries, fetchq.TreeEntry{
				Name:  de.Name(),
				Mode:  info.Mode(),
				Hash:  h,
				IsDir: true,
			})
		case de.Type().IsRegular():
			data, err := os.ReadFile(path)
			if err != nil {
				return fetchq.Hash{}, fmt.Errorf("read %s: %w", path, err)
			}
			h, err := s.PutBlob(data)
			if err != nil {
				return fetchq.Hash{}, err
			}
			info, err := de.Info()
			if err != nil {
				return fetchq.Hash{}, fmt.Errorf("stat %s: %w", path, err)
			}
			entries = append(entries, fetchq.TreeEntry{
				Name: de.Name(),
				Mode: info.Mode(),
				Hash: h,
			})
		}
	}

	return s.PutTree(entries)
}
