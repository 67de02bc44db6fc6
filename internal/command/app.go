// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/config"
	"github.com/staranto/confdoc/internal/meta"
)

// InitApp loads the config and returns the root command wired to the process
// stdio. A missing config file is fine; an unreadable one is not.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, err
	}
	log.Debugf("config: %s", cfg.Source)

	return NewApp(meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}), nil
}

// NewApp builds the command tree around m.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:      "confdoc",
		Usage:     "conference post cache",
		Writer:    m.Stdout,
		ErrWriter: m.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "confdoc version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		CompletionCommandBuilder(m),
		DiffCommandBuilder(m),
		FetchCommandBuilder(m),
		GroupCommandBuilder(m),
		ListCommandBuilder(m),
		ShowCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
