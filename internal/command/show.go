// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/output"
	"github.com/staranto/confdoc/internal/record"
	"github.com/staranto/confdoc/internal/store"
)

// ShowCommandAction is the action handler for the "show" subcommand. It
// prints one post, or with --author one user, as stored.
func ShowCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	if cmd.NArg() != 1 {
		return errors.New("show takes exactly one id")
	}
	id, err := store.ParseID(cmd.Args().First())
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	raw, err := loadRaw(ctx, sess, id, cmd.Bool("author"))
	if err != nil {
		return err
	}

	return output.Document(m.Stdout, raw, cmd.String("output"))
}

// loadRaw hydrates and validates a post or an author.
func loadRaw(ctx context.Context, sess *session, id store.ID, author bool) (store.Raw, error) {
	if author {
		a, err := record.LoadAuthor(ctx, sess.hydrator, id)
		if err != nil {
			return nil, err
		}
		return a.Raw(), nil
	}

	p, err := record.LoadPost(ctx, sess.hydrator, id)
	if err != nil {
		return nil, err
	}
	return p.Raw(), nil
}

// ShowCommandBuilder constructs the cli.Command definition for "show".
func ShowCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "show",
		Usage:     "print one cached record",
		UsageText: `confdoc show ID [--author] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "author",
				Usage: "ID names a user rather than a post",
				Value: false,
			},
			NewOutputFlag("show", meta.Config.Source),
		},
		Action: ShowCommandAction,
		Meta:   meta,
	}).Build()
}
