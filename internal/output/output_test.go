// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/record"
	"github.com/staranto/confdoc/internal/record/recordtest"
	"github.com/staranto/confdoc/internal/store"
)

func testPosts(t *testing.T) []*record.Post {
	t.Helper()
	ctx := context.Background()
	entries := []struct {
		id  store.ID
		raw store.Raw
	}{
		{9007199254740993, recordtest.PostRaw(9007199254740993, recordtest.WithLang("en"), recordtest.WithText("b <first>"))},
		{2, recordtest.PostRaw(2, recordtest.WithLang("de"), recordtest.WithAuthor(7, "Gerda"), recordtest.With("favorite_count", "0"))},
	}

	posts := make([]*record.Post, 0, len(entries))
	for _, e := range entries {
		p, err := record.ParsePost(ctx, nil, e.id, e.raw)
		require.NoError(t, err)
		posts = append(posts, p)
	}
	return posts
}

func testAttrs(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	require.NoError(t, al.SetGlobalTransformSpec())
	return al
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	al := testAttrs(t, "id,user.screen_name:author,lang:lang:u,favorite_count:favs,!retweet_count")

	err := SliceDiceSpit(&buf, testPosts(t), al, Options{Format: FormatJSON})
	require.NoError(t, err)

	out := buf.String()
	// Keys follow attr order, ids keep full precision and HTML is not escaped.
	assert.True(t, strings.HasPrefix(out, `[{"id":9007199254740993,"author":"gopher","lang":"EN","favs":3}`), out)
	assert.NotContains(t, out, "retweet_count")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
}

func TestSliceDiceSpit_JSONKeepsHTML(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(&buf, testPosts(t)[:1], testAttrs(t, "full_text:text"), Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "[{\"text\":\"b <first>\"}]\n", buf.String())
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(&buf, testPosts(t), testAttrs(t, "id_str:id,lang"), Options{Format: FormatYAML, Sort: "lang"})
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "de", decoded[0]["lang"])
	assert.Equal(t, "9007199254740993", decoded[1]["id"])
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	var buf bytes.Buffer
	posts := testPosts(t)
	err := SliceDiceSpit(&buf, posts, nil, Options{Format: FormatRaw})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	raw, err := store.ParseRaw([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, posts[0].Raw(), raw)
}

func TestSliceDiceSpit_Text(t *testing.T) {
	var buf bytes.Buffer
	al := testAttrs(t, "user.screen_name:author,favorite_count:favs")
	err := SliceDiceSpit(&buf, testPosts(t), al, Options{Format: FormatText, Titles: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"author", "favs"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"gopher", "3"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Gerda", "0"}, strings.Fields(lines[2]))
}

func TestSliceDiceSpit_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(&buf, []*record.Post{}, testAttrs(t, "lang"), Options{Format: FormatText, Titles: true})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSliceDiceSpit_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(&buf, testPosts(t), testAttrs(t, "lang"), Options{Format: "xml"})
	assert.Error(t, err)
}

func TestRow_GlobalTransform(t *testing.T) {
	al := testAttrs(t, "*::U,user.screen_name:author,lang:lang:l")
	row := Row(testPosts(t)[0], al)
	assert.Equal(t, "GOPHER", row["author"])
	assert.Equal(t, "en", row["lang"])
	assert.NotContains(t, row, "*")
}

func TestValue(t *testing.T) {
	assert.Equal(t, int64(9007199254740993), Value(gjson.Parse(`9007199254740993`)))
	assert.Equal(t, 1.5, Value(gjson.Parse(`1.5`)))
	assert.Equal(t, "x", Value(gjson.Parse(`"x"`)))
	assert.Nil(t, Value(gjson.Parse(`null`)))
	assert.Nil(t, Value(gjson.Get(`{}`, "missing")))
}

func TestSummary(t *testing.T) {
	groups := []Group{{Key: "2019-10-20", Count: 1}, {Key: "2019-10-19", Count: 4}}

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "date", groups, Options{Format: FormatJSON, Sort: "date"}))
	assert.Equal(t, `[{"date":"2019-10-19","count":4},{"date":"2019-10-20","count":1}]`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Summary(&buf, "date", groups, Options{Format: FormatRaw}))
	assert.Equal(t, "2019-10-20\t1\n2019-10-19\t4\n", buf.String())

	buf.Reset()
	require.NoError(t, Summary(&buf, "lang", []Group{{Key: "", Count: 2}}, Options{Format: FormatText}))
	assert.Equal(t, []string{"-", "2"}, strings.Fields(buf.String()))
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]any{
		{"name": "zebra", "count": int64(3)},
		{"name": "Alpha", "count": int64(1)},
		{"name": "beta", "count": 2.0},
		{"name": "gamma"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"Alpha", "beta", "gamma", "zebra"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra", "gamma", "beta", "Alpha"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Alpha", "beta", "gamma", "zebra"}},
		{name: "nil sorts first", spec: "count", wantOrder: []string{"gamma", "Alpha", "beta", "zebra"}},
		{name: "descending by count", spec: "-count", wantOrder: []string{"zebra", "beta", "Alpha", "gamma"}},
		{name: "empty spec keeps order", spec: "", wantOrder: []string{"zebra", "Alpha", "beta", "gamma"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]any, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		emptyVal []string
		want     string
	}{
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: []string{"-"}, want: "-"},
		{name: "empty string custom", value: "", emptyVal: []string{"-"}, want: "-"},
		{name: "string", value: "gopher", want: "gopher"},
		{name: "zero int is not empty", value: int64(0), emptyVal: []string{"-"}, want: "0"},
		{name: "large int", value: int64(9007199254740993), want: "9007199254740993"},
		{name: "float", value: 1.25, want: "1.25"},
		{name: "bool", value: false, want: "false"},
		{name: "slice", value: []any{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.emptyVal...))
		})
	}
}

func TestDocument(t *testing.T) {
	raw, err := store.ParseRaw([]byte(`{"id":9007199254740993,"text":"a <b>","user":{"name":"g"}}`))
	require.NoError(t, err)

	tests := []struct {
		format string
		want   string
	}{
		{format: FormatRaw, want: `{"id":9007199254740993,"text":"a <b>","user":{"name":"g"}}` + "\n"},
		{format: FormatJSON, want: "{\n  \"id\": 9007199254740993,\n  \"text\": \"a <b>\",\n  \"user\": {\n    \"name\": \"g\"\n  }\n}\n"},
		{format: FormatText, want: "{\n  \"id\": 9007199254740993,\n  \"text\": \"a <b>\",\n  \"user\": {\n    \"name\": \"g\"\n  }\n}\n"},
		{format: FormatYAML, want: "id: 9007199254740993\ntext: a <b>\nuser:\n  name: g\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Document(&buf, raw, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	assert.Error(t, Document(&bytes.Buffer{}, raw, "xml"))
}
