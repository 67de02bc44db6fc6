// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package hydrate decides whether a record comes from the local store or from
// the remote API, and makes sure every remote answer, including a failure, is
// persisted so it is never fetched twice.
package hydrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/confdoc/internal/store"
)

// ErrMissingSource is returned when a record is not cached and there is no
// way to fetch it.
var ErrMissingSource = errors.New("no cached entry and no fetch source")

// FetchFunc retrieves one record from the remote API.
type FetchFunc func(ctx context.Context, id store.ID) (store.Raw, error)

// Source is the remote fetch capability injected into a Hydrator.
type Source interface {
	FetchPost(ctx context.Context, id store.ID) (store.Raw, error)
	FetchAuthor(ctx context.Context, id store.ID) (store.Raw, error)
}

// Stats counts how each Hydrate call was resolved.
type Stats struct {
	Hits     int
	Fetches  int
	Failures int
	Adopted  int
}

// Hydrator resolves records through a Store, falling back to a Source.
type Hydrator struct {
	store store.Store
	src   Source
	stats Stats
}

// New returns a Hydrator. src may be nil, in which case only cached records
// can be hydrated.
func New(st store.Store, src Source) *Hydrator {
	return &Hydrator{store: st, src: src}
}

// Store returns the backing store.
func (h *Hydrator) Store() store.Store {
	return h.store
}

// Stats returns a snapshot of the resolution counters.
func (h *Hydrator) Stats() Stats {
	return h.stats
}

// Hydrate resolves kind/id using the injected Source.
func (h *Hydrator) Hydrate(ctx context.Context, kind store.Kind, id store.ID) (store.Raw, error) {
	return h.HydrateWith(ctx, kind, id, h.fetchFor(kind))
}

// HydrateWith returns the stored entry for kind/id if there is one. Otherwise
// it calls fetch and persists the result. A failed fetch is persisted as the
// empty sentinel and returned without error, so the id is never retried.
// Cancellation is the exception: the context error is returned and nothing is
// written.
func (h *Hydrator) HydrateWith(ctx context.Context, kind store.Kind, id store.ID, fetch FetchFunc) (store.Raw, error) {
	ok, err := h.store.Exists(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ok {
		raw, err := h.store.Load(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		h.stats.Hits++
		return raw, nil
	}

	if fetch == nil {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrMissingSource)
	}

	log.Debugf("fetching %s %s", kind, id)
	raw, err := fetch(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Warnf("failed to fetch %s %s; caching empty entry", kind, id)
		h.stats.Failures++
		raw = store.Raw{}
	} else {
		h.stats.Fetches++
	}
	if raw, err = raw.Normalize(); err != nil {
		return nil, err
	}

	if err := h.store.Persist(ctx, kind, id, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Adopt stores a record that arrived inline with another payload, unless an
// entry already exists. It returns whichever record is now authoritative.
func (h *Hydrator) Adopt(ctx context.Context, kind store.Kind, id store.ID, raw store.Raw) (store.Raw, error) {
	ok, err := h.store.Exists(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ok {
		return h.store.Load(ctx, kind, id)
	}
	if raw, err = raw.Normalize(); err != nil {
		return nil, err
	}
	if err := h.store.Persist(ctx, kind, id, raw); err != nil {
		return nil, err
	}
	h.stats.Adopted++
	return raw, nil
}

func (h *Hydrator) fetchFor(kind store.Kind) FetchFunc {
	if h.src == nil {
		return nil
	}
	switch kind {
	case store.KindPost:
		return h.src.FetchPost
	case store.KindAuthor:
		return h.src.FetchAuthor
	default:
		return nil
	}
}
