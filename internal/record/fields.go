// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/staranto/confdoc/internal/store"
)

// CreatedAtLayout is the timestamp layout the remote API uses for created_at.
const CreatedAtLayout = time.RubyDate

// field is one entry of a record's extraction table. Required fields must be
// present; optional ones stay at their zero value (nil) when absent. A present
// field that does not decode is always an error.
type field[T any] struct {
	key      string
	optional bool
	decode   func(dst *T, v json.RawMessage) error
}

func into[T any, V any](sel func(*T) *V) func(*T, json.RawMessage) error {
	return func(dst *T, v json.RawMessage) error {
		return json.Unmarshal(v, sel(dst))
	}
}

// postFields lists every post field that is extracted by name.
var postFields = []field[Post]{
	{key: "id", decode: into(func(p *Post) *store.ID { return &p.ID })},
	{key: "contributors", decode: into(func(p *Post) *json.RawMessage { return &p.Contributors })},
	{key: "coordinates", decode: into(func(p *Post) *json.RawMessage { return &p.Coordinates })},
	{key: "created_at", decode: decodeCreatedAt},
	{key: "display_text_range", decode: into(func(p *Post) *[]int { return &p.DisplayTextRange })},
	{key: "entities", decode: into(func(p *Post) *json.RawMessage { return &p.Entities })},
	{key: "favorite_count", decode: into(func(p *Post) *int { return &p.FavoriteCount })},
	{key: "favorited", decode: into(func(p *Post) *bool { return &p.Favorited })},
	{key: "full_text", decode: into(func(p *Post) *string { return &p.FullText })},
	{key: "geo", decode: into(func(p *Post) *json.RawMessage { return &p.Geo })},
	{key: "in_reply_to_screen_name", decode: into(func(p *Post) **string { return &p.InReplyToScreenName })},
	{key: "in_reply_to_status_id", decode: into(func(p *Post) **store.ID { return &p.InReplyToStatusID })},
	{key: "in_reply_to_user_id", decode: into(func(p *Post) **store.ID { return &p.InReplyToUserID })},
	{key: "is_quote_status", decode: into(func(p *Post) *bool { return &p.IsQuoteStatus })},
	{key: "lang", decode: into(func(p *Post) *string { return &p.Lang })},
	{key: "place", decode: into(func(p *Post) *json.RawMessage { return &p.Place })},
	{key: "retweet_count", decode: into(func(p *Post) *int { return &p.RetweetCount })},
	{key: "retweeted", decode: into(func(p *Post) *bool { return &p.Retweeted })},
	{key: "source", decode: into(func(p *Post) *string { return &p.Source })},
	{key: "truncated", decode: into(func(p *Post) *bool { return &p.Truncated })},
	{key: "user", decode: decodeObject(func(p *Post) *store.Raw { return &p.userRaw })},

	{key: "quoted_status_id", optional: true, decode: into(func(p *Post) **store.ID { return &p.QuotedStatusID })},
	{key: "quoted_status", optional: true, decode: decodeObject(func(p *Post) *store.Raw { return &p.quotedRaw })},
	{key: "possibly_sensitive", optional: true, decode: into(func(p *Post) **bool { return &p.PossiblySensitive })},
	{key: "possibly_sensitive_appealable", optional: true, decode: into(func(p *Post) **bool { return &p.PossiblySensitiveAppealable })},
}

// authorFields: authors are only projected down to their identifier.
var authorFields = []field[Author]{
	{key: "id", decode: into(func(a *Author) *store.ID { return &a.ID })},
}

func decodeCreatedAt(p *Post, v json.RawMessage) error {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return err
	}
	t, err := time.Parse(CreatedAtLayout, s)
	if err != nil {
		return err
	}
	p.CreatedAt = t
	return nil
}

// decodeObject captures a nested JSON object as a Raw for depth-first parsing.
func decodeObject[T any](sel func(*T) *store.Raw) func(*T, json.RawMessage) error {
	return func(dst *T, v json.RawMessage) error {
		r, err := store.ParseRaw(v)
		if err != nil {
			return err
		}
		*sel(dst) = r
		return nil
	}
}

// extract runs table over raw. Only a missing key counts as "absent".
func extract[T any](dst *T, kind store.Kind, id store.ID, raw store.Raw, table []field[T]) error {
	for _, f := range table {
		v, ok := raw[f.key]
		if !ok {
			if f.optional {
				continue
			}
			return &MalformedRecordError{Kind: kind, ID: id, Field: f.key}
		}
		if err := f.decode(dst, v); err != nil {
			return &MalformedRecordError{Kind: kind, ID: id, Field: f.key, Err: err}
		}
	}
	return nil
}

// rawID pulls the identifier out of an embedded object before it is parsed.
func rawID(kind store.Kind, parent store.ID, key string, raw store.Raw) (store.ID, error) {
	var id store.ID
	v, ok := raw["id"]
	if !ok {
		return 0, &MalformedRecordError{Kind: kind, ID: parent, Field: key + ".id"}
	}
	if err := json.Unmarshal(v, &id); err != nil {
		return 0, &MalformedRecordError{Kind: kind, ID: parent, Field: key + ".id", Err: fmt.Errorf("decode id: %w", err)}
	}
	return id, nil
}
