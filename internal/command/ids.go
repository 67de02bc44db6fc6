// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/meta"
	"github.com/staranto/confdoc/internal/store"
)

// collectIDs returns the positional ids followed by those read from --ids.
// With neither, every post already in the store is used.
func collectIDs(ctx context.Context, cmd *cli.Command, m meta.Meta, st store.Store) ([]store.ID, error) {
	var ids []store.ID
	for _, arg := range cmd.Args().Slice() {
		id, err := store.ParseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if path := cmd.String("ids"); path != "" {
		fromFile, err := readIDsFrom(path, m.Stdin)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromFile...)
	}

	if cmd.NArg() > 0 || cmd.String("ids") != "" {
		return ids, nil
	}

	lister, ok := st.(store.Lister)
	if !ok {
		return nil, errors.New("no ids given and the store cannot list its posts")
	}
	log.Debugf("no ids given; using every cached post in %s", st)
	return lister.IDs(ctx, store.KindPost)
}

func readIDsFrom(path string, stdin io.Reader) ([]store.ID, error) {
	if path == "-" {
		return readIDs(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ids file: %w", err)
	}
	defer f.Close()

	ids, err := readIDs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ids, nil
}

// readIDs parses one id per line. Blank lines and lines starting with '#' are
// ignored.
func readIDs(r io.Reader) ([]store.ID, error) {
	var ids []store.ID

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := store.ParseID(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ids: %w", err)
	}

	return ids, nil
}
