// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version holds build information stamped in with -ldflags.
package version

// Version is overridden at link time:
//
//	go build -ldflags "-X github.com/staranto/confdoc/internal/version.Version=v1.2.3"
var Version = "dev"
