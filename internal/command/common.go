// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/collection"
	"github.com/staranto/confdoc/internal/config"
	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/output"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// OutputOptions collects the rendering flags.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format: cmd.String("output"),
		Color:  cmd.Bool("color"),
		Titles: cmd.Bool("titles"),
		Sort:   cmd.String("sort"),
	}
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value. Unset streams are
// filled with the process stdio.
func GetMeta(cmd *cli.Command) meta.Meta {
	var m meta.Meta
	if cmd != nil && cmd.Metadata != nil {
		m, _ = cmd.Metadata["meta"].(meta.Meta)
	}
	if m.Stdin == nil {
		m.Stdin = os.Stdin
	}
	if m.Stdout == nil {
		m.Stdout = os.Stdout
	}
	if m.Stderr == nil {
		m.Stderr = os.Stderr
	}
	return m
}

// report writes the skip reasons of c to stderr so stdout stays parseable.
func report(m meta.Meta, c *collection.Collection) error {
	return c.Report(m.Stderr)
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CommandBuilder constructs a cli.Command for the subcommands using a
// consistent pattern. It wires metadata, applies the store flags and, for
// collection commands, the global flags, and runs the validator before the
// action.
type CommandBuilder struct {
	Name        string
	Usage       string
	UsageText   string
	Description string
	Flags       []cli.Flag
	// Collection adds the global attrs/filter/output flags.
	Collection bool
	Action     func(context.Context, *cli.Command) error
	Validator  func(context.Context, *cli.Command) error
	Meta       meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append(cb.Flags, NewStoreFlags(cb.Name, cb.Meta.Config.Source)...)
	if cb.Collection {
		flags = append(flags, NewGlobalFlags(cb.Name, cb.Meta.Config.Source)...)
	}

	validator := cb.Validator
	if validator == nil {
		validator = GlobalFlagsValidator
	}

	return &cli.Command{
		Name:        cb.Name,
		Usage:       cb.Usage,
		UsageText:   cb.UsageText,
		Description: cb.Description,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.Config.Namespace = cb.Name
			return ctx, validator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log.Debugf("Executing action for %s %v", c.Name, c.Args().Slice())
			return cb.Action(ctx, c)
		},
	}
}
