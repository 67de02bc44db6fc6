// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package store provides the write-once record store used to cache posts and
// authors fetched from the remote API. Entries are keyed by kind and numeric
// identifier and live either on the local filesystem or in S3.
package store
