// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package record turns raw post and author entries into typed values. Fields
// are extracted through an explicit table of required and optional keys, and
// embedded records (the author, a quoted post) are built depth-first from the
// inline JSON.
package record
