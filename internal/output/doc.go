// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output sorts and renders posts, authors and group summaries as a
// text table, json, yaml or raw JSON lines.
package output
