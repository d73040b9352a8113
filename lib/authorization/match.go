// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"path"
	"strings"
)

// Separator divides the segments of an authorization path.
const Separator = "::"

// MatchPath checks whether a "::"-separated path matches a glob
// pattern:
//
//	"for"           matches "for" exactly
//	"search::*"     matches "search::urls" but not "search::urls::all"
//	"search::**"    matches "search::urls", "search::urls::all", etc.
//	"**::delete"    matches "delete", "urls::delete", etc.
//	"**"            matches any path
//	"chan-?"        matches "chan-a" within a single segment
//
// A "**" segment matches zero or more whole segments and may appear
// in any position. Malformed patterns never match — a pattern that
// cannot be parsed must not grant access.
func MatchPath(pattern, candidate string) bool {
	if pattern == "**" {
		return true
	}
	return matchSegments(
		strings.Split(pattern, Separator),
		strings.Split(candidate, Separator),
	)
}

// MatchAnyPath checks a candidate against a pattern list, true on the
// first match.
func MatchAnyPath(patterns []string, candidate string) bool {
	for _, pattern := range patterns {
		if MatchPath(pattern, candidate) {
			return true
		}
	}
	return false
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	if pattern[0] == "**" {
		// Zero segments consumed, or one more consumed and retry.
		if matchSegments(pattern[1:], segments) {
			return true
		}
		return len(segments) > 0 && matchSegments(pattern, segments[1:])
	}

	if len(segments) == 0 {
		return false
	}

	// Single-segment glob: * and ? via path.Match, which cannot
	// cross a "/" — path segments never contain one.
	matched, err := path.Match(pattern[0], segments[0])
	if err != nil || !matched {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

// matchIdentity checks a flat identity (nick, channel name) against a
// glob pattern. Identities are not hierarchical; this is plain glob
// matching with the same malformed-pattern-denies rule.
func matchIdentity(pattern, identity string) bool {
	matched, err := path.Match(pattern, identity)
	return err == nil && matched
}
