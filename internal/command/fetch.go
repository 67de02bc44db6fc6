// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/output"
)

// FetchCommandAction is the action handler for the "fetch" subcommand. It
// hydrates every id into the cache and prints what happened.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	coll, err := sess.build(ctx, cmd, m)
	if err != nil {
		return err
	}

	stats := sess.hydrator.Stats()
	opts := OutputOptions(cmd)

	switch opts.Format {
	case output.FormatJSON, output.FormatYAML:
		al := attrs.AttrList{}
		row := map[string]any{}
		for _, kv := range []struct {
			key   string
			value any
		}{
			{"hashtag", sess.hashtag},
			{"store", sess.store.String()},
			{"posts", int64(coll.Len())},
			{"skipped", int64(len(coll.Skipped()))},
			{"hits", int64(stats.Hits)},
			{"fetched", int64(stats.Fetches)},
			{"failed", int64(stats.Failures)},
			{"adopted", int64(stats.Adopted)},
		} {
			al = append(al, attrs.Attr{Key: kv.key, OutputKey: kv.key, Include: true})
			row[kv.key] = kv.value
		}
		if err := output.Emit(m.Stdout, []map[string]any{row}, al, opts); err != nil {
			return err
		}
		return report(m, coll)
	default:
		fmt.Fprintf(m.Stdout, "#%s: %s posts, %s skipped\n", sess.hashtag,
			humanize.Comma(int64(coll.Len())), humanize.Comma(int64(len(coll.Skipped()))))
		fmt.Fprintf(m.Stdout, "%s: %s cached, %s fetched, %s failed, %s adopted\n", sess.store,
			humanize.Comma(int64(stats.Hits)), humanize.Comma(int64(stats.Fetches)),
			humanize.Comma(int64(stats.Failures)), humanize.Comma(int64(stats.Adopted)))
		return coll.Report(m.Stdout)
	}
}

// FetchCommandBuilder constructs the cli.Command definition for "fetch".
func FetchCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "fetch",
		Usage:     "fill the cache for a list of post ids",
		UsageText: `confdoc fetch [ids...] [--ids FILE] [options]`,
		Description: "Every id is loaded from the cache or, on a miss, fetched from the API and\n" +
			"cached, including failures. Posts whose JSON is not valid are reported and\n" +
			"skipped.",
		Collection: true,
		Action:     FetchCommandAction,
		Meta:       meta,
	}).Build()
}
