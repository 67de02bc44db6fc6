// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries the per-invocation state shared by every command.
package meta

import (
	"context"
	"io"

	"github.com/staranto/confdoc/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context

	// Streams default to the process stdio. Tests swap them for buffers.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}
