// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/record"
	"github.com/staranto/confdoc/internal/record/recordtest"
)

// doc is a Fielder over a literal JSON document.
type doc string

func (d doc) Field(path string) gjson.Result { return gjson.Get(string(d), path) }

func testAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("id,user.screen_name:author,lang,favorite_count:favs,truncated,entities.hashtags.#.text:tags,geo,entities,full_text:text"))
	return al
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{name: "empty spec", spec: ""},
		{
			name: "exact match",
			spec: "lang=en",
			want: []Filter{{Key: "lang", Operand: "=", Target: "en"}},
		},
		{
			name: "negated prefix",
			spec: "author!^gopher",
			want: []Filter{{Key: "author", Operand: "^", Target: "gopher", Negate: true}},
		},
		{
			name: "regex keeps the rest of the expression",
			spec: "text/^Hello.*=",
			want: []Filter{{Key: "text", Operand: "/", Target: "^Hello.*="}},
		},
		{
			name: "multiple filters",
			spec: "lang=en,favs>5",
			want: []Filter{
				{Key: "lang", Operand: "=", Target: "en"},
				{Key: "favs", Operand: ">", Target: "5"},
			},
		},
		{
			name: "invalid filters skipped",
			spec: "lang=en,nonsense,=missingkey,favs<10",
			want: []Filter{
				{Key: "lang", Operand: "=", Target: "en"},
				{Key: "favs", Operand: "<", Target: "10"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "text@a,b;lang~EN",
			delimiter: ";",
			want: []Filter{
				{Key: "text", Operand: "@", Target: "a,b"},
				{Key: "lang", Operand: "~", Target: "EN"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("CONFDOC_FILTER_DELIM", tt.delimiter)
			}
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		value  string
		filter Filter
		want   bool
	}{
		{"en", Filter{Operand: "=", Target: "en"}, true},
		{"en", Filter{Operand: "=", Target: "en", Negate: true}, false},
		{"EN", Filter{Operand: "~", Target: "en"}, true},
		{"gopher", Filter{Operand: "^", Target: "go"}, true},
		{"gopher", Filter{Operand: "@", Target: "ph"}, true},
		{"gopher", Filter{Operand: "@", Target: "xx", Negate: true}, true},
		{"b", Filter{Operand: ">", Target: "a"}, true},
		{"b", Filter{Operand: "<", Target: "a"}, false},
		{"Hello #gophercon", Filter{Operand: "/", Target: `#go\w+`}, true},
		{"Hello", Filter{Operand: "/", Target: `(`}, false},
		{"Hello", Filter{Operand: "?", Target: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.value+tt.filter.Operand+tt.filter.Target, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestApply(t *testing.T) {
	const post = `{
		"id": 9007199254740993,
		"user": {"screen_name": "gopher"},
		"lang": "en",
		"favorite_count": 12,
		"truncated": false,
		"geo": null,
		"entities": {"hashtags": [{"text": "gophercon"}, {"text": "golang"}], "urls": []},
		"full_text": "Hello #gophercon"
	}`
	al := testAttrs(t)

	tests := []struct {
		name string
		spec string
		want bool
	}{
		{name: "no filters", spec: "", want: true},
		{name: "string equal", spec: "lang=en", want: true},
		{name: "string not equal", spec: "lang!=en", want: false},
		{name: "nested path via title", spec: "author^go", want: true},
		{name: "numeric greater", spec: "favs>10", want: true},
		{name: "numeric less", spec: "favs<10", want: false},
		{name: "numeric equal", spec: "favs=12", want: true},
		{name: "numeric float target", spec: "favs>11.5", want: true},
		{name: "numeric bad target", spec: "favs>many", want: false},
		{name: "numeric text operand", spec: "favs^1", want: true},
		{name: "large id keeps precision", spec: "id=9007199254740993", want: true},
		{name: "large id off by one", spec: "id=9007199254740992", want: false},
		{name: "bool", spec: "truncated=false", want: true},
		{name: "array contains", spec: "tags@golang", want: true},
		{name: "array not contains", spec: "tags!@rust", want: true},
		{name: "object has key", spec: "entities@urls", want: true},
		{name: "object lacks key", spec: "entities!@media", want: true},
		{name: "null never matches", spec: "geo=null", want: false},
		{name: "unknown key ignored", spec: "nope=1,lang=en", want: true},
		{name: "all must match", spec: "lang=en,favs>100", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(doc(post), al, BuildFilters(tt.spec)))
		})
	}
}

func TestPredicate_OverPosts(t *testing.T) {
	ctx := context.Background()
	al := testAttrs(t)

	en, err := record.ParsePost(ctx, nil, 1, recordtest.PostRaw(1, recordtest.WithLang("en")))
	require.NoError(t, err)
	de, err := record.ParsePost(ctx, nil, 2, recordtest.PostRaw(2, recordtest.WithLang("de"), recordtest.WithAuthor(7, "gerda")))
	require.NoError(t, err)

	keep := Predicate[*record.Post](al, "lang=de")
	assert.False(t, keep(en))
	assert.True(t, keep(de))

	keep = Predicate[*record.Post](al, "author~GOPHER")
	assert.True(t, keep(en))
	assert.False(t, keep(de))
}
