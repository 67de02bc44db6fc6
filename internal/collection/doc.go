// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package collection builds an ordered set of posts from a list of ids and
// groups it by derived keys.
package collection
