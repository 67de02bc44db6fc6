// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"errors"
	"fmt"

	"github.com/staranto/confdoc/internal/store"
)

var (
	// ErrInvalid marks a record whose stored entry is the empty sentinel. It
	// is expected and callers skip the record.
	ErrInvalid = errors.New("record JSON is not valid")

	// ErrMalformed matches every *MalformedRecordError.
	ErrMalformed = errors.New("malformed record")
)

// MalformedRecordError reports a non-empty record that is missing a required
// field or carries a field of the wrong JSON type.
type MalformedRecordError struct {
	Kind  store.Kind
	ID    store.ID
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed %s %s: missing required field %q", e.Kind, e.ID, e.Field)
	}
	return fmt.Sprintf("malformed %s %s: field %q: %v", e.Kind, e.ID, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformed
}

func invalid(kind store.Kind, id store.ID) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrInvalid)
}
