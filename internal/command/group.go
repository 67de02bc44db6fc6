// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/collection"
	"github.com/staranto/confdoc/internal/filters"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/output"
	"github.com/staranto/confdoc/internal/record"
)

// groupColumn titles the group key column when --posts is set.
const groupColumn = "group"

// GroupCommandAction is the action handler for the "group" subcommand. It
// partitions the posts by creation date or by a field and prints the count of
// each group or, with --posts, the posts themselves.
func GroupCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	al, err := BuildAttrs(cmd, attrs.DefaultList)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	coll, err := sess.build(ctx, cmd, m)
	if err != nil {
		return err
	}
	coll = coll.Filter(filters.Predicate[*record.Post](al, cmd.String("filter")))

	var (
		title  string
		groups map[string][]*record.Post
	)
	if layout := cmd.String("date"); layout != "" {
		title, groups = "date", coll.ByDate(layout)
	} else {
		title = cmd.String("key")
		groups = coll.ByField(title)
	}
	keys := collection.Keys(groups)
	opts := OutputOptions(cmd)

	if cmd.Bool("posts") {
		err = emitGroupedPosts(m.Stdout, keys, groups, al, opts)
	} else {
		summary := make([]output.Group, 0, len(keys))
		for _, k := range keys {
			summary = append(summary, output.Group{Key: k, Count: len(groups[k])})
		}
		err = output.Summary(m.Stdout, title, summary, opts)
	}
	if err != nil {
		return err
	}

	return report(m, coll)
}

// emitGroupedPosts writes every post with its group key as the first column.
func emitGroupedPosts(w io.Writer, keys []string, groups map[string][]*record.Post, al attrs.AttrList, opts output.Options) error {
	if opts.Format == output.FormatRaw {
		var posts []*record.Post
		for _, k := range keys {
			posts = append(posts, groups[k]...)
		}
		return output.SliceDiceSpit(w, posts, al, opts)
	}

	gal := append(attrs.AttrList{{Key: groupColumn, OutputKey: groupColumn, Include: true}}, al...)

	var rows []map[string]any
	for _, k := range keys {
		for _, p := range groups[k] {
			row := output.Row(p, al)
			row[groupColumn] = k
			rows = append(rows, row)
		}
	}

	output.SortDataset(rows, opts.Sort)
	return output.Emit(w, rows, gal, opts)
}

// GroupCommandBuilder constructs the cli.Command definition for "group".
func GroupCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "group",
		Usage:     "group posts by date or field",
		UsageText: `confdoc group [ids...] (--date LAYOUT | --key PATH) [--posts] [options]`,
		Description: "--date takes a Go time layout, e.g. 2006-01-02 for days or 15 for hours.\n" +
			"--key takes a field path, e.g. lang or user.screen_name. Posts without the\n" +
			"field share the empty group.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "group by creation time formatted with this layout",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
				},
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "group by the value at this field path",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "posts",
				Usage: "list the posts of each group instead of counts",
				Value: false,
			},
		},
		Collection: true,
		Action:     GroupCommandAction,
		Validator:  GroupCommandValidator,
		Meta:       meta,
	}).Build()
}
