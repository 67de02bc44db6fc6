// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/command"
	"github.com/staranto/confdoc/internal/meta"
)

// Minimal doc generator. For every subcommand of the app it generates:
//   - docs/commands/confdoc-<cmd>.md from the command's usage and flags
//   - docs/man/share/man1/confdoc-<cmd>.1 via md2man
//   - docs/tldr/confdoc-<cmd>.md from the usage line

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	mdOutDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{mdOutDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	app := command.NewApp(meta.Meta{})

	var processed int
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		name := "confdoc-" + cmd.Name

		md := renderMarkdown(app.Name, cmd)
		if err := writeFileIfChanged(filepath.Join(mdOutDir, name+".md"), []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manBytes := md2man.Render([]byte(md))
		if err := writeFileIfChanged(filepath.Join(manOutDir, name+".1"), manBytes, writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldr := buildTLDR(app.Name, cmd)
		if err := writeFileIfChanged(filepath.Join(tldrOutDir, name+".md"), []byte(tldr), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// renderMarkdown writes a man-page shaped markdown document for cmd. The
// title line follows the md2man "name 1" convention.
func renderMarkdown(app string, cmd *cli.Command) string {
	var b strings.Builder
	name := app + "-" + cmd.Name

	fmt.Fprintf(&b, "%% %s 1\n\n", strings.ToUpper(name))
	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s - %s\n\n", name, cmd.Usage)

	if cmd.UsageText != "" {
		b.WriteString("# SYNOPSIS\n\n")
		fmt.Fprintf(&b, "`%s`\n\n", cmd.UsageText)
	}

	if cmd.Description != "" {
		b.WriteString("# DESCRIPTION\n\n")
		b.WriteString(strings.Join(strings.Fields(cmd.Description), " "))
		b.WriteString("\n\n")
	}

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "**%s**\n", flagNames(f))
			if df, ok := f.(cli.DocGenerationFlag); ok && df.GetUsage() != "" {
				fmt.Fprintf(&b, ": %s\n", df.GetUsage())
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// flagNames renders "--name, -n" with a value placeholder for flags that
// take one.
func flagNames(f cli.Flag) string {
	names := make([]string, 0, len(f.Names()))
	for _, n := range f.Names() {
		if len(n) == 1 {
			names = append(names, "-"+n)
		} else {
			names = append(names, "--"+n)
		}
	}
	s := strings.Join(names, ", ")
	if df, ok := f.(cli.DocGenerationFlag); ok && df.TakesValue() {
		s += " value"
	}
	return s
}

func buildTLDR(app string, cmd *cli.Command) string {
	var b strings.Builder
	name := app + "-" + cmd.Name

	b.WriteString("# " + name + "\n\n")
	b.WriteString("> " + upperFirst(cmd.Usage) + ".\n")
	b.WriteString("> More information: https://github.com/staranto/confdoc.\n\n")

	if cmd.UsageText != "" {
		b.WriteString("- " + upperFirst(cmd.Usage) + ":\n\n")
		b.WriteString("`" + sanitizeCommand(cmd.UsageText) + "`\n\n")
	}

	b.WriteString("- Show help for the command:\n\n")
	b.WriteString("`" + app + " " + cmd.Name + " --help`\n")
	return b.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sanitizeCommand(s string) string {
	// Compress runs of whitespace.
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
