// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package builtin carries the plugins that ship with the bot: karma
// (SQLite-backed score keeping), echo, and urls (recent-link
// tracking). They double as working examples of the template DSL —
// defaults, requirements, collectors, bracketed segments, and
// authorization-path overrides all appear here.
package builtin
