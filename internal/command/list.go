// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/filters"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/output"
	"github.com/staranto/confdoc/internal/record"
)

// ListCommandAction is the action handler for the "list" subcommand. It
// tabulates the posts that pass --filter.
func ListCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	al, err := BuildAttrs(cmd, attrs.DefaultList)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al.String())

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	coll, err := sess.build(ctx, cmd, m)
	if err != nil {
		return err
	}
	coll = coll.Filter(filters.Predicate[*record.Post](al, cmd.String("filter")))

	if err := output.SliceDiceSpit(m.Stdout, coll.Posts(), al, OutputOptions(cmd)); err != nil {
		return err
	}
	return report(m, coll)
}

// ListCommandBuilder constructs the cli.Command definition for "list".
func ListCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "list",
		Usage:     "tabulate posts",
		UsageText: `confdoc list [ids...] [--ids FILE] [options]`,
		Description: "Without ids every cached post is listed. Columns are chosen with --attrs as\n" +
			"path[:title[:transform]] and rows with --filter as title<op>value.",
		Collection: true,
		Action:     ListCommandAction,
		Meta:       meta,
	}).Build()
}
