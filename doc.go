// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// confdoc is the main package for the confdoc command line tool. It caches
// the posts and authors of a conference hashtag and lists, groups and diffs
// them.
package main
