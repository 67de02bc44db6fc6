// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ renders the structural difference between two cached
// records.
package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	diff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/confdoc/internal/store"
)

// Diff formats.
const (
	FormatASCII = "ascii"
	FormatDelta = "delta"
)

// Options controls Diff.
type Options struct {
	// Format is FormatASCII (default) or FormatDelta.
	Format string
	Color  bool
	// Ignore lists dotted paths removed from both sides before comparing.
	Ignore []string
}

// Diff writes the difference between left and right to w. Identical records
// write nothing and return false.
func Diff(w io.Writer, left, right store.Raw, opts Options) (bool, error) {
	l, err := decode(left)
	if err != nil {
		return false, fmt.Errorf("failed to decode left record: %w", err)
	}
	r, err := decode(right)
	if err != nil {
		return false, fmt.Errorf("failed to decode right record: %w", err)
	}

	for _, p := range opts.Ignore {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		prune(l, strings.Split(p, "."))
		prune(r, strings.Split(p, "."))
	}

	d := diff.New().CompareObjects(l, r)
	if !d.Modified() {
		log.Debug("records are identical")
		return false, nil
	}

	var out string
	switch opts.Format {
	case FormatDelta:
		out, err = formatter.NewDeltaFormatter().Format(d)
	case FormatASCII, "":
		f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       opts.Color,
		})
		out, err = f.Format(d)
	default:
		return false, fmt.Errorf("unknown diff format %q", opts.Format)
	}
	if err != nil {
		return false, fmt.Errorf("failed to format diff: %w", err)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return true, err
}

func decode(raw store.Raw) (map[string]any, error) {
	b, err := raw.Bytes()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// prune deletes the value at path, descending through nested objects only.
func prune(m map[string]any, path []string) {
	for len(path) > 1 {
		next, ok := m[path[0]].(map[string]any)
		if !ok {
			return
		}
		m, path = next, path[1:]
	}
	delete(m, path[0])
}
