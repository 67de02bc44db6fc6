// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/staranto/confdoc/internal/hydrate"
	"github.com/staranto/confdoc/internal/store"
)

// maxQuoteDepth bounds how deep quoted posts are followed.
const maxQuoteDepth = 8

// Post is a typed view over a post record. It owns its Author and, when the
// payload embeds one, the Quoted post.
type Post struct {
	ID                  store.ID
	Contributors        json.RawMessage
	Coordinates         json.RawMessage
	CreatedAt           time.Time
	DisplayTextRange    []int
	Entities            json.RawMessage
	FavoriteCount       int
	Favorited           bool
	FullText            string
	Geo                 json.RawMessage
	InReplyToScreenName *string
	InReplyToStatusID   *store.ID
	InReplyToUserID     *store.ID
	IsQuoteStatus       bool
	Lang                string
	Place               json.RawMessage
	RetweetCount        int
	Retweeted           bool
	Source              string
	Truncated           bool

	// Optional fields are nil when the payload does not carry them.
	QuotedStatusID              *store.ID
	PossiblySensitive           *bool
	PossiblySensitiveAppealable *bool

	Author *Author
	Quoted *Post

	raw       store.Raw
	doc       []byte
	userRaw   store.Raw
	quotedRaw store.Raw
}

// PostLoader adapts LoadPost to the signature collections consume.
func PostLoader(h *hydrate.Hydrator) func(context.Context, store.ID) (*Post, error) {
	return func(ctx context.Context, id store.ID) (*Post, error) {
		return LoadPost(ctx, h, id)
	}
}

// LoadPost hydrates the post id and parses it. An empty entry yields
// ErrInvalid.
func LoadPost(ctx context.Context, h *hydrate.Hydrator, id store.ID) (*Post, error) {
	raw, err := h.Hydrate(ctx, store.KindPost, id)
	if err != nil {
		return nil, err
	}
	return ParsePost(ctx, h, id, raw)
}

// ParsePost builds a Post from raw. The embedded author and quoted post are
// parsed depth-first from the inline JSON; when h is non-nil they are also
// adopted into the store so later lookups by their own ids hit the cache.
func ParsePost(ctx context.Context, h *hydrate.Hydrator, id store.ID, raw store.Raw) (*Post, error) {
	return parsePost(ctx, h, id, raw, 0)
}

func parsePost(ctx context.Context, h *hydrate.Hydrator, id store.ID, raw store.Raw, depth int) (*Post, error) {
	if raw.Empty() {
		return nil, invalid(store.KindPost, id)
	}

	p := &Post{raw: raw}
	if err := extract(p, store.KindPost, id, raw, postFields); err != nil {
		return nil, err
	}
	if p.ID != id {
		return nil, &MalformedRecordError{
			Kind:  store.KindPost,
			ID:    id,
			Field: "id",
			Err:   fmt.Errorf("payload id %s does not match entry id", p.ID),
		}
	}

	doc, err := raw.Bytes()
	if err != nil {
		return nil, err
	}
	p.doc = doc

	authorID, err := rawID(store.KindPost, id, "user", p.userRaw)
	if err != nil {
		return nil, err
	}
	if err := adopt(ctx, h, store.KindAuthor, authorID, p.userRaw); err != nil {
		return nil, err
	}
	if p.Author, err = ParseAuthor(authorID, p.userRaw); err != nil {
		return nil, err
	}

	if p.quotedRaw != nil {
		if depth >= maxQuoteDepth {
			return nil, &MalformedRecordError{
				Kind:  store.KindPost,
				ID:    id,
				Field: "quoted_status",
				Err:   fmt.Errorf("quotes nested deeper than %d", maxQuoteDepth),
			}
		}
		quotedID, err := rawID(store.KindPost, id, "quoted_status", p.quotedRaw)
		if err != nil {
			return nil, err
		}
		if err := adopt(ctx, h, store.KindPost, quotedID, p.quotedRaw); err != nil {
			return nil, err
		}
		if p.Quoted, err = parsePost(ctx, h, quotedID, p.quotedRaw, depth+1); err != nil {
			return nil, fmt.Errorf("quoted by %s: %w", id, err)
		}
	}

	p.userRaw, p.quotedRaw = nil, nil
	return p, nil
}

func adopt(ctx context.Context, h *hydrate.Hydrator, kind store.Kind, id store.ID, raw store.Raw) error {
	if h == nil {
		return nil
	}
	_, err := h.Adopt(ctx, kind, id, raw)
	return err
}

// Raw returns the record as stored.
func (p *Post) Raw() store.Raw {
	return p.raw
}

// Field looks up a dotted gjson path in the raw record, e.g.
// "user.screen_name" or "entities.hashtags.#.text".
func (p *Post) Field(path string) gjson.Result {
	return gjson.GetBytes(p.doc, path)
}

// JSON returns the raw record encoded as a single JSON object.
func (p *Post) JSON() []byte {
	return p.doc
}

// Hashtags returns the hashtag texts from the post's entities, in order.
func (p *Post) Hashtags() []string {
	res := gjson.GetBytes(p.Entities, "hashtags.#.text").Array()
	tags := make([]string, 0, len(res))
	for _, r := range res {
		tags = append(tags, r.String())
	}
	return tags
}

func (p *Post) String() string {
	return p.FullText
}
