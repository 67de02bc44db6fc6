// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/differ"
	"github.com/staranto/confdoc/internal/output"
	"github.com/staranto/confdoc/internal/store"
)

// GlobalFlagsValidator checks that every positional argument is an id.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	for _, arg := range c.Args().Slice() {
		if err := IDValidator(arg); err != nil {
			return fmt.Errorf("argument %q %w", arg, err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NotEmptyValidator(value any) error {
	if strings.TrimSpace(value.(string)) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func BackendValidator(value any) error {
	valid := []string{"file", "s3"}
	if !slices.Contains(valid, strings.ToLower(value.(string))) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func DiffFormatValidator(value any) error {
	valid := []string{differ.FormatASCII, differ.FormatDelta}
	if !slices.Contains(valid, value.(string)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

// IDValidator accepts a positive decimal post or user id.
func IDValidator(value any) error {
	id, err := store.ParseID(value.(string))
	if err != nil {
		return errors.New("must be a numeric id")
	}
	if id <= 0 {
		return errors.New("must be a positive id")
	}
	return nil
}

// GroupCommandValidator requires exactly one of --date and --key.
func GroupCommandValidator(ctx context.Context, c *cli.Command) error {
	date, key := c.String("date"), c.String("key")
	switch {
	case date == "" && key == "":
		return errors.New("one of --date or --key is required")
	case date != "" && key != "":
		return errors.New("--date and --key are mutually exclusive")
	}
	return GlobalFlagsValidator(ctx, c)
}
