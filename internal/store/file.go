// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// BaseDir resolves the base cache directory.
// Precedence:
//  1. CONFDOC_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/confdoc
//
// Returns ("", false) if a base cannot be resolved.
func BaseDir() (string, bool) {
	if c, ok := os.LookupEnv("CONFDOC_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "confdoc"), true
	}
	return "", false
}

// FileStore keeps one file per entry beneath Root, in the posts/ and authors/
// subdirectories.
type FileStore struct {
	Root string

	// write fills the temp file. Swapped in tests to simulate a crash.
	write func(f *os.File, data []byte) error
}

// NewFileStore returns a FileStore rooted at root, creating the directory
// tree if needed.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("file store root is empty")
	}
	for _, k := range []Kind{KindPost, KindAuthor} {
		dir := filepath.Join(root, k.Dir())
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{Root: root, write: writeAll}, nil
}

// EntryPath returns the path where the entry for kind and id lives.
func (s *FileStore) EntryPath(kind Kind, id ID) string {
	return filepath.Join(s.Root, kind.Dir(), id.String())
}

func (s *FileStore) Exists(_ context.Context, kind Kind, id ID) (bool, error) {
	if err := kind.valid(); err != nil {
		return false, err
	}
	info, err := os.Stat(s.EntryPath(kind, id))
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s entry %s: %w", kind, id, err)
}

func (s *FileStore) Load(_ context.Context, kind Kind, id ID) (Raw, error) {
	if err := kind.valid(); err != nil {
		return nil, err
	}
	p := s.EntryPath(kind, id)
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s entry %s: %w", kind, id, err)
	}
	raw, err := ParseRaw(b)
	if err != nil {
		return nil, &CorruptEntryError{Kind: kind, ID: id, Location: p, Err: err}
	}
	log.Debugf("store hit: %s", p)
	return raw, nil
}

// Persist writes raw to a dot-prefixed temp file in the entry's directory and
// renames it into place once it is fully on disk.
func (s *FileStore) Persist(_ context.Context, kind Kind, id ID, raw Raw) error {
	if err := kind.valid(); err != nil {
		return err
	}
	data, err := raw.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Join(s.Root, kind.Dir())
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+id.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp entry: %w", err)
	}
	tmpPath := tmp.Name()

	write := s.write
	if write == nil {
		write = writeAll
	}
	if err := write(tmp, data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s entry %s: %w", kind, id, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s entry %s: %w", kind, id, err)
	}

	p := s.EntryPath(kind, id)
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to commit %s entry %s: %w", kind, id, err)
	}
	log.Debugf("store write: %s", p)
	return nil
}

// IDs lists the identifiers with a committed entry of the given kind, in
// ascending order.
func (s *FileStore) IDs(_ context.Context, kind Kind) ([]ID, error) {
	if err := kind.valid(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.Root, kind.Dir()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s entries: %w", kind, err)
	}
	ids := make([]ID, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || isTemp(e.Name()) {
			continue
		}
		id, err := ParseID(e.Name())
		if err != nil {
			log.Debugf("ignoring stray file %s", e.Name())
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids, nil
}

func (s *FileStore) String() string {
	return s.Root
}

// isTemp reports whether name is an in-flight Persist file.
func isTemp(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}

func writeAll(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
