// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/differ"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/store"
)

// DiffCommandAction is the action handler for the "diff" subcommand. It
// prints the structural difference between two posts or two users.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	if cmd.NArg() != 2 {
		return errors.New("diff takes exactly two ids")
	}
	var ids [2]store.ID
	for i, arg := range cmd.Args().Slice() {
		id, err := store.ParseID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}

	author := cmd.Bool("author")
	left, err := loadRaw(ctx, sess, ids[0], author)
	if err != nil {
		return err
	}
	right, err := loadRaw(ctx, sess, ids[1], author)
	if err != nil {
		return err
	}

	changed, err := differ.Diff(m.Stdout, left, right, differ.Options{
		Format: cmd.String("format"),
		Color:  cmd.Bool("color"),
		Ignore: splitList(cmd.String("ignore")),
	})
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintf(m.Stderr, "%s and %s do not differ\n", ids[0], ids[1])
	}
	return nil
}

// DiffCommandBuilder constructs the cli.Command definition for "diff".
func DiffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare two cached records",
		UsageText: `confdoc diff ID ID [--author] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "author",
				Usage: "the ids name users rather than posts",
				Value: false,
			},
			NewColorFlag("diff", meta.Config.Source),
			&cli.StringFlag{
				Name:  "format",
				Usage: "diff format, ascii or delta",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("diff.format", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: differ.FormatASCII,
				Validator: func(value string) error {
					return FlagValidators(value, DiffFormatValidator)
				},
			},
			NameSpacedValueChainFlagFromConfigFile("diff", meta.Config.Source, &cli.StringFlag{
				Name:    "ignore",
				Usage:   "comma-separated field paths left out of the comparison",
				Sources: cli.NewValueSourceChain(cli.EnvVar("CONFDOC_DIFF_IGNORE")),
			}),
		},
		Action: DiffCommandAction,
		Meta:   meta,
	}).Build()
}
