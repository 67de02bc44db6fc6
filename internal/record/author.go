// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/staranto/confdoc/internal/hydrate"
	"github.com/staranto/confdoc/internal/store"
)

// Author is the account behind a post. Only the identifier is projected; the
// rest is reachable through Field.
type Author struct {
	ID store.ID

	raw store.Raw
	doc []byte
}

// LoadAuthor hydrates the author id and parses it. An empty entry yields
// ErrInvalid.
func LoadAuthor(ctx context.Context, h *hydrate.Hydrator, id store.ID) (*Author, error) {
	raw, err := h.Hydrate(ctx, store.KindAuthor, id)
	if err != nil {
		return nil, err
	}
	return ParseAuthor(id, raw)
}

// ParseAuthor builds an Author from raw.
func ParseAuthor(id store.ID, raw store.Raw) (*Author, error) {
	if raw.Empty() {
		return nil, invalid(store.KindAuthor, id)
	}
	a := &Author{raw: raw}
	if err := extract(a, store.KindAuthor, id, raw, authorFields); err != nil {
		return nil, err
	}
	doc, err := raw.Bytes()
	if err != nil {
		return nil, err
	}
	a.doc = doc
	return a, nil
}

// Raw returns the record as stored.
func (a *Author) Raw() store.Raw {
	return a.raw
}

// Field looks up a dotted gjson path in the raw record.
func (a *Author) Field(path string) gjson.Result {
	return gjson.GetBytes(a.doc, path)
}
