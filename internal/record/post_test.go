// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package record

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/confdoc/internal/hydrate"
	"github.com/staranto/confdoc/internal/record/recordtest"
	"github.com/staranto/confdoc/internal/store"
)

func newHydrator(t *testing.T) (*hydrate.Hydrator, *store.FileStore) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return hydrate.New(st, nil), st
}

func TestParsePost_Fields(t *testing.T) {
	raw := recordtest.PostRaw(1185614382932004864,
		recordtest.WithText("Keynote starting #gophercon"),
		recordtest.With("in_reply_to_status_id", `1185614382932004000`),
		recordtest.With("in_reply_to_screen_name", `"golang"`),
		recordtest.With("possibly_sensitive", `false`),
	)

	p, err := ParsePost(context.Background(), nil, 1185614382932004864, raw)
	require.NoError(t, err)

	assert.Equal(t, store.ID(1185614382932004864), p.ID)
	assert.Equal(t, "Keynote starting #gophercon", p.FullText)
	assert.Equal(t, "Keynote starting #gophercon", p.String())
	assert.True(t, recordtest.DefaultTime.Equal(p.CreatedAt))
	assert.Equal(t, []int{0, 24}, p.DisplayTextRange)
	assert.Equal(t, 3, p.FavoriteCount)
	assert.Equal(t, 1, p.RetweetCount)
	assert.Equal(t, "en", p.Lang)
	require.NotNil(t, p.InReplyToStatusID)
	assert.Equal(t, store.ID(1185614382932004000), *p.InReplyToStatusID)
	require.NotNil(t, p.InReplyToScreenName)
	assert.Equal(t, "golang", *p.InReplyToScreenName)
	assert.Nil(t, p.InReplyToUserID)
	require.NotNil(t, p.PossiblySensitive)
	assert.False(t, *p.PossiblySensitive)

	// Absent optional fields resolve to nil, not an error.
	assert.Nil(t, p.QuotedStatusID)
	assert.Nil(t, p.PossiblySensitiveAppealable)
	assert.Nil(t, p.Quoted)

	require.NotNil(t, p.Author)
	assert.Equal(t, store.ID(1000), p.Author.ID)
	assert.Equal(t, "gopher", p.Author.Field("screen_name").String())

	assert.Equal(t, []string{"gophercon"}, p.Hashtags())
	assert.Equal(t, "gopher", p.Field("user.screen_name").String())
	assert.Equal(t, raw, p.Raw())
}

func TestParsePost_LargeIDsSurvive(t *testing.T) {
	// 2^53+1 is not representable as float64.
	raw := recordtest.PostRaw(9007199254740993, recordtest.WithAuthor(9007199254740995, "big"))

	p, err := ParsePost(context.Background(), nil, 9007199254740993, raw)
	require.NoError(t, err)
	assert.Equal(t, store.ID(9007199254740993), p.ID)
	assert.Equal(t, store.ID(9007199254740995), p.Author.ID)
}

func TestParsePost_EmptyIsInvalid(t *testing.T) {
	_, err := ParsePost(context.Background(), nil, 1, store.Raw{})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestParsePost_MissingRequiredField(t *testing.T) {
	for _, key := range []string{"full_text", "created_at", "lang", "user", "retweet_count", "in_reply_to_status_id"} {
		t.Run(key, func(t *testing.T) {
			_, err := ParsePost(context.Background(), nil, 5, recordtest.PostRaw(5, recordtest.Without(key)))
			require.ErrorIs(t, err, ErrMalformed)

			var mre *MalformedRecordError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, key, mre.Field)
			assert.Equal(t, store.ID(5), mre.ID)
			assert.Nil(t, mre.Err)
		})
	}
}

func TestParsePost_OptionalFieldsMayBeAbsent(t *testing.T) {
	raw := recordtest.PostRaw(5,
		recordtest.Without("quoted_status_id"),
		recordtest.Without("quoted_status"),
		recordtest.Without("possibly_sensitive"),
		recordtest.Without("possibly_sensitive_appealable"),
	)
	_, err := ParsePost(context.Background(), nil, 5, raw)
	assert.NoError(t, err)
}

func TestParsePost_WrongTypeIsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "count as string", key: "favorite_count", value: `"three"`},
		{name: "text as number", key: "full_text", value: `12`},
		{name: "bad timestamp", key: "created_at", value: `"yesterday"`},
		{name: "user not an object", key: "user", value: `"gopher"`},
		// Optional fields are only optional when absent.
		{name: "optional with wrong type", key: "possibly_sensitive", value: `"no"`},
		{name: "quoted_status not an object", key: "quoted_status", value: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePost(context.Background(), nil, 5, recordtest.PostRaw(5, recordtest.With(tt.key, tt.value)))
			var mre *MalformedRecordError
			require.True(t, errors.As(err, &mre), "got %v", err)
			assert.Equal(t, tt.key, mre.Field)
			assert.Error(t, mre.Err)
		})
	}
}

func TestParsePost_IDMismatch(t *testing.T) {
	_, err := ParsePost(context.Background(), nil, 6, recordtest.PostRaw(7))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParsePost_UserWithoutID(t *testing.T) {
	_, err := ParsePost(context.Background(), nil, 5, recordtest.PostRaw(5, recordtest.With("user", `{"screen_name":"x"}`)))
	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "user.id", mre.Field)
}

func TestParsePost_Quoted(t *testing.T) {
	ctx := context.Background()
	h, st := newHydrator(t)
	quoted := recordtest.PostRaw(200, recordtest.WithText("the original"), recordtest.WithAuthor(2000, "quoted"))
	raw := recordtest.PostRaw(100, recordtest.WithQuoted(quoted))

	p, err := ParsePost(ctx, h, 100, raw)
	require.NoError(t, err)

	require.NotNil(t, p.Quoted)
	assert.Equal(t, store.ID(200), p.Quoted.ID)
	assert.Equal(t, "the original", p.Quoted.FullText)
	require.NotNil(t, p.QuotedStatusID)
	assert.Equal(t, store.ID(200), *p.QuotedStatusID)
	assert.True(t, p.IsQuoteStatus)
	assert.Equal(t, store.ID(2000), p.Quoted.Author.ID)
	assert.Nil(t, p.Quoted.Quoted)

	// Inline records were adopted into the store under their own ids.
	for _, e := range []struct {
		kind store.Kind
		id   store.ID
	}{
		{store.KindPost, 200},
		{store.KindAuthor, 1000},
		{store.KindAuthor, 2000},
	} {
		ok, err := st.Exists(ctx, e.kind, e.id)
		require.NoError(t, err)
		assert.True(t, ok, "%s %s should be cached", e.kind, e.id)
	}
	assert.Equal(t, 3, h.Stats().Adopted)
}

func TestParsePost_QuotedMalformedFails(t *testing.T) {
	quoted := recordtest.PostRaw(200, recordtest.Without("full_text"))
	raw := recordtest.PostRaw(100, recordtest.WithQuoted(quoted))

	_, err := ParsePost(context.Background(), nil, 100, raw)
	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, store.ID(200), mre.ID)
	assert.Equal(t, "full_text", mre.Field)
}

func TestParsePost_InlineAuthorWinsOverCachedSentinel(t *testing.T) {
	ctx := context.Background()
	h, st := newHydrator(t)
	require.NoError(t, st.Persist(ctx, store.KindAuthor, 1000, store.Raw{}))

	p, err := ParsePost(ctx, h, 1, recordtest.PostRaw(1))
	require.NoError(t, err)
	assert.Equal(t, store.ID(1000), p.Author.ID)

	// The cached entry stays write-once.
	got, err := st.Load(ctx, store.KindAuthor, 1000)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestLoadPost(t *testing.T) {
	ctx := context.Background()
	h, st := newHydrator(t)
	require.NoError(t, st.Persist(ctx, store.KindPost, 1, recordtest.PostRaw(1)))
	require.NoError(t, st.Persist(ctx, store.KindPost, 2, store.Raw{}))

	p, err := LoadPost(ctx, h, 1)
	require.NoError(t, err)
	assert.Equal(t, store.ID(1), p.ID)

	_, err = LoadPost(ctx, h, 2)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = PostLoader(h)(ctx, 3)
	assert.ErrorIs(t, err, hydrate.ErrMissingSource)
}

func TestLoadAuthor(t *testing.T) {
	ctx := context.Background()
	h, st := newHydrator(t)
	require.NoError(t, st.Persist(ctx, store.KindAuthor, 10, recordtest.AuthorRaw(10, "gopher")))
	require.NoError(t, st.Persist(ctx, store.KindAuthor, 11, store.Raw{}))
	require.NoError(t, st.Persist(ctx, store.KindAuthor, 12, store.Raw{"name": json.RawMessage(`"no id"`)}))

	a, err := LoadAuthor(ctx, h, 10)
	require.NoError(t, err)
	assert.Equal(t, store.ID(10), a.ID)
	assert.Equal(t, "gopher", a.Field("screen_name").String())
	assert.Equal(t, "10", string(a.Raw()["id"]))

	_, err = LoadAuthor(ctx, h, 11)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = LoadAuthor(ctx, h, 12)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParsePost_CreatedAtLayout(t *testing.T) {
	ts := time.Date(2020, time.February, 29, 23, 59, 1, 0, time.FixedZone("", 0))
	p, err := ParsePost(context.Background(), nil, 1, recordtest.PostRaw(1, recordtest.WithCreatedAt(ts)))
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29 23:59:01", p.CreatedAt.Format("2006-01-02 15:04:05"))
}
