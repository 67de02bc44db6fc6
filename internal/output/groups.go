// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"

	"github.com/staranto/confdoc/internal/attrs"
)

// Group is one bucket of a grouped collection.
type Group struct {
	Key   string
	Count int
}

// Summary writes one row per group, titled by title and "count". Raw output
// is tab separated.
func Summary(w io.Writer, title string, groups []Group, opts Options) error {
	if opts.Format == FormatRaw {
		for _, g := range groups {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", g.Key, g.Count); err != nil {
				return err
			}
		}
		return nil
	}

	al := attrs.AttrList{
		{Key: "key", OutputKey: title, Include: true},
		{Key: "count", OutputKey: "count", Include: true},
	}

	rows := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, map[string]any{title: g.Key, "count": int64(g.Count)})
	}

	SortDataset(rows, opts.Sort)

	return Emit(w, rows, al, opts)
}
