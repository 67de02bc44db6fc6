// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Spec selects and configures a Store for one conference hashtag.
type Spec struct {
	// Backend is "file" (default) or "s3".
	Backend string
	// Dir is the base cache directory for the file backend. Empty means
	// BaseDir().
	Dir string
	// Hashtag names the conference; entries live beneath it. A leading '#' is
	// ignored.
	Hashtag string
	S3      S3Options
}

// Open builds the Store described by spec.
func Open(ctx context.Context, spec Spec) (Store, error) {
	tag := strings.TrimPrefix(strings.TrimSpace(spec.Hashtag), "#")
	if tag == "" {
		return nil, errors.New("hashtag is required to locate the store")
	}
	if strings.ContainsAny(tag, `/\`) {
		return nil, fmt.Errorf("invalid hashtag %q", spec.Hashtag)
	}

	switch strings.ToLower(spec.Backend) {
	case "", "file":
		base := spec.Dir
		if base == "" {
			var ok bool
			if base, ok = BaseDir(); !ok {
				return nil, errors.New("unable to resolve a cache directory; set cache.dir or CONFDOC_CACHE_DIR")
			}
		}
		return NewFileStore(filepath.Join(base, tag))
	case "s3":
		opts := spec.S3
		opts.Prefix = path.Join(strings.Trim(opts.Prefix, "/"), tag)
		return NewS3Store(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", spec.Backend)
	}
}
