// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package recordtest builds post payloads shaped like the remote API's for use
// in tests.
package recordtest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/staranto/confdoc/internal/store"
)

// DefaultTime is the created_at of payloads built without WithCreatedAt.
var DefaultTime = time.Date(2019, time.October, 19, 17, 4, 5, 0, time.UTC)

// Option mutates a payload under construction.
type Option func(store.Raw)

// PostRaw returns a complete post payload for id.
func PostRaw(id store.ID, opts ...Option) store.Raw {
	r := store.Raw{
		"id":                      num(int64(id)),
		"id_str":                  str(id.String()),
		"contributors":            json.RawMessage(`null`),
		"coordinates":             json.RawMessage(`null`),
		"created_at":              str(DefaultTime.Format(time.RubyDate)),
		"display_text_range":      json.RawMessage(`[0,24]`),
		"entities":                json.RawMessage(`{"hashtags":[{"text":"gophercon","indices":[6,16]}],"urls":[],"user_mentions":[]}`),
		"favorite_count":          num(3),
		"favorited":               json.RawMessage(`false`),
		"full_text":               str(fmt.Sprintf("Hello #gophercon from %s", id)),
		"geo":                     json.RawMessage(`null`),
		"in_reply_to_screen_name": json.RawMessage(`null`),
		"in_reply_to_status_id":   json.RawMessage(`null`),
		"in_reply_to_user_id":     json.RawMessage(`null`),
		"is_quote_status":         json.RawMessage(`false`),
		"lang":                    str("en"),
		"place":                   json.RawMessage(`null`),
		"retweet_count":           num(1),
		"retweeted":               json.RawMessage(`false`),
		"source":                  str(`<a href="https://mobile.twitter.com">Twitter Web App</a>`),
		"truncated":               json.RawMessage(`false`),
		"user":                    AuthorJSON(1000, "gopher"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AuthorRaw returns an author payload.
func AuthorRaw(id store.ID, screenName string) store.Raw {
	r, _ := store.ParseRaw(AuthorJSON(id, screenName))
	return r
}

// AuthorJSON returns an embedded user object.
func AuthorJSON(id store.ID, screenName string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"id":%d,"id_str":"%d","screen_name":%q,"name":%q}`, id, id, screenName, screenName))
}

// WithCreatedAt sets created_at.
func WithCreatedAt(t time.Time) Option {
	return func(r store.Raw) { r["created_at"] = str(t.Format(time.RubyDate)) }
}

// WithText sets full_text.
func WithText(s string) Option {
	return func(r store.Raw) { r["full_text"] = str(s) }
}

// WithLang sets lang.
func WithLang(s string) Option {
	return func(r store.Raw) { r["lang"] = str(s) }
}

// WithAuthor replaces the embedded user.
func WithAuthor(id store.ID, screenName string) Option {
	return func(r store.Raw) { r["user"] = AuthorJSON(id, screenName) }
}

// WithQuoted embeds q as the quoted status.
func WithQuoted(q store.Raw) Option {
	return func(r store.Raw) {
		b, _ := q.Bytes()
		r["quoted_status"] = b
		r["quoted_status_id"] = q["id"]
		r["is_quote_status"] = json.RawMessage(`true`)
	}
}

// With sets key to the given raw JSON.
func With(key, value string) Option {
	return func(r store.Raw) { r[key] = json.RawMessage(value) }
}

// Without removes key.
func Without(key string) Option {
	return func(r store.Raw) { delete(r, key) }
}

func num(n int64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf("%d", n))
}

func str(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
