// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/confdoc/internal/store"
)

func raw(t *testing.T, s string) store.Raw {
	t.Helper()
	r, err := store.ParseRaw([]byte(s))
	require.NoError(t, err)
	return r
}

func TestDiff(t *testing.T) {
	left := raw(t, `{"id":1,"lang":"en","user":{"screen_name":"gopher","followers_count":10}}`)
	right := raw(t, `{"id":1,"lang":"de","user":{"screen_name":"gopher","followers_count":12}}`)

	tests := []struct {
		name       string
		opts       Options
		modified   bool
		contains   []string
		notContain []string
	}{
		{
			name:     "ascii",
			opts:     Options{},
			modified: true,
			contains: []string{`"lang": "en"`, `"lang": "de"`, "followers_count"},
		},
		{
			name:       "ignore nested path",
			opts:       Options{Ignore: []string{"user.followers_count"}},
			modified:   true,
			contains:   []string{`"lang"`},
			notContain: []string{"followers_count"},
		},
		{
			name:     "ignore everything that differs",
			opts:     Options{Ignore: []string{"lang", " user.followers_count ", ""}},
			modified: false,
		},
		{
			name:     "delta",
			opts:     Options{Format: FormatDelta},
			modified: true,
			contains: []string{`"lang"`, `"en"`, `"de"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			modified, err := Diff(&buf, left, right, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.modified, modified)
			if !tt.modified {
				assert.Empty(t, buf.String())
			}
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestDiff_UnknownFormat(t *testing.T) {
	left := raw(t, `{"a":1}`)
	right := raw(t, `{"a":2}`)
	_, err := Diff(&bytes.Buffer{}, left, right, Options{Format: "html"})
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	m := map[string]any{
		"a": map[string]any{"b": 1, "c": 2},
		"d": "x",
	}
	prune(m, []string{"a", "b"})
	prune(m, []string{"d", "e"})
	prune(m, []string{"missing", "b"})
	assert.Equal(t, map[string]any{"a": map[string]any{"c": 2}, "d": "x"}, m)
}
