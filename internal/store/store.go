// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ID is the remote system's identifier for a post or an author.
type ID int64

// ParseID parses the decimal form of an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Kind selects which family of records an entry belongs to.
type Kind string

const (
	KindPost   Kind = "post"
	KindAuthor Kind = "author"
)

// Dir is the subdirectory (or key segment) holding entries of this kind.
func (k Kind) Dir() string {
	switch k {
	case KindPost:
		return "posts"
	case KindAuthor:
		return "authors"
	default:
		return ""
	}
}

func (k Kind) valid() error {
	if k.Dir() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
	return nil
}

// Raw is a record exactly as the remote API returned it. Values are kept as
// raw JSON so large integers survive a round trip untouched. The empty Raw is
// the sentinel for "fetched and failed".
type Raw map[string]json.RawMessage

// Empty reports whether r is the failure sentinel.
func (r Raw) Empty() bool {
	return len(r) == 0
}

// Bytes marshals r as a single compact JSON object with sorted keys. A nil
// Raw encodes as {}. HTML characters are left unescaped.
func (r Raw) Bytes() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]json.RawMessage(r)); err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Normalize returns r in the exact form a Load of its persisted bytes would
// produce.
func (r Raw) Normalize() (Raw, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return ParseRaw(b)
}

// ParseRaw decodes a JSON object into a Raw. Anything other than an object,
// including null, is rejected.
func ParseRaw(data []byte) (Raw, error) {
	data = bytes.TrimSpace(data)
	var r Raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("not a JSON object")
	}
	return r, nil
}

// Sentinel errors. CorruptEntryError is returned as a typed error so callers
// can report the offending location.
var (
	ErrNotFound    = errors.New("entry not found")
	ErrUnknownKind = errors.New("unknown record kind")
)

// CorruptEntryError reports a persisted entry that could not be decoded.
type CorruptEntryError struct {
	Kind     Kind
	ID       ID
	Location string
	Err      error
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("corrupt %s entry %s at %s: %v", e.Kind, e.ID, e.Location, e.Err)
}

func (e *CorruptEntryError) Unwrap() error {
	return e.Err
}

// Store persists raw records by kind and identifier. Entries are write-once:
// callers check Exists before Persist, and Persist only overwrites as a
// recovery path.
type Store interface {
	// Exists reports whether an entry is present for kind and id.
	Exists(ctx context.Context, kind Kind, id ID) (bool, error)
	// Load returns the stored record, ErrNotFound if there is none, or a
	// *CorruptEntryError if the stored bytes are not a JSON object.
	Load(ctx context.Context, kind Kind, id ID) (Raw, error)
	// Persist atomically stores raw. A reader never observes a partial entry.
	Persist(ctx context.Context, kind Kind, id ID, raw Raw) error
	// String describes the store location for logs and summaries.
	String() string
}

// Lister is implemented by stores that can enumerate their entries.
type Lister interface {
	IDs(ctx context.Context, kind Kind) ([]ID, error)
}

func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
