// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/apex/log"

	"github.com/staranto/confdoc/internal/record"
	"github.com/staranto/confdoc/internal/store"
)

// ErrIndexOutOfRange is returned by At for an index outside the collection.
var ErrIndexOutOfRange = errors.New("index out of range")

// Loader produces the post for id. It returns record.ErrInvalid for ids whose
// entry is the failure sentinel.
type Loader func(ctx context.Context, id store.ID) (*record.Post, error)

// Progress receives updates while a collection is built.
type Progress interface {
	Start(total int)
	Update(done int)
	Finish()
}

// Option configures Build.
type Option func(*options)

type options struct {
	progress Progress
}

// WithProgress reports build progress to p.
func WithProgress(p Progress) Option {
	return func(o *options) { o.progress = p }
}

// Collection is the ordered set of valid posts built from a list of ids, plus
// the reasons any ids were skipped.
type Collection struct {
	posts   []*record.Post
	skipped []string
}

// Build loads every id in order. Invalid records are skipped and noted; any
// other failure stops the build.
func Build(ctx context.Context, load Loader, ids []store.ID, opts ...Option) (*Collection, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collection{
		posts: make([]*record.Post, 0, len(ids)),
	}

	if o.progress != nil {
		o.progress.Start(len(ids))
		defer o.progress.Finish()
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := load(ctx, id)
		switch {
		case err == nil:
			c.posts = append(c.posts, p)
		case errors.Is(err, record.ErrInvalid):
			c.skipped = append(c.skipped, SkipReason(id))
			log.Debugf("skipped %s", id)
		default:
			return nil, fmt.Errorf("failed to load post %s: %w", id, err)
		}

		if o.progress != nil {
			o.progress.Update(i + 1)
		}
	}

	return c, nil
}

// SkipReason is the message recorded for an id whose JSON was not valid.
func SkipReason(id store.ID) string {
	return fmt.Sprintf("Skipped tweet id %s because its JSON was not valid.", id)
}

// Posts returns the valid posts in input order.
func (c *Collection) Posts() []*record.Post {
	return c.posts
}

// Skipped returns one reason per skipped id, in input order.
func (c *Collection) Skipped() []string {
	return c.skipped
}

// Len is the number of valid posts.
func (c *Collection) Len() int {
	return len(c.posts)
}

// At returns the i'th valid post.
func (c *Collection) At(i int) (*record.Post, error) {
	if i < 0 || i >= len(c.posts) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(c.posts))
	}
	return c.posts[i], nil
}

// Filter returns a collection holding the posts for which keep is true. The
// skipped list carries over.
func (c *Collection) Filter(keep func(*record.Post) bool) *Collection {
	out := &Collection{skipped: c.skipped}
	for _, p := range c.posts {
		if keep(p) {
			out.posts = append(out.posts, p)
		}
	}
	return out
}

// Report writes the skip reasons, if there are any.
func (c *Collection) Report(w io.Writer) error {
	if len(c.skipped) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Errors:"); err != nil {
		return err
	}
	for _, s := range c.skipped {
		if _, err := fmt.Fprintln(w, "-", s); err != nil {
			return err
		}
	}
	return nil
}

// GroupBy partitions the posts by key. Order within a group follows the
// collection.
func GroupBy[K comparable](c *Collection, key func(*record.Post) K) map[K][]*record.Post {
	groups := make(map[K][]*record.Post)
	for _, p := range c.posts {
		k := key(p)
		groups[k] = append(groups[k], p)
	}
	return groups
}

// ByDate groups posts by their creation time formatted with layout. The time
// keeps the offset the API reported.
func (c *Collection) ByDate(layout string) map[string][]*record.Post {
	return GroupBy(c, func(p *record.Post) string {
		return p.CreatedAt.Format(layout)
	})
}

// ByField groups posts by the string form of the value at path. Posts without
// the field share the "" group.
func (c *Collection) ByField(path string) map[string][]*record.Post {
	return GroupBy(c, func(p *record.Post) string {
		return p.Field(path).String()
	})
}

// Keys returns the group keys in ascending order.
func Keys(groups map[string][]*record.Post) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
