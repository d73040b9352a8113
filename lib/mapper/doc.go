// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapper compiles command templates into matchers.
//
// A template is a human-authored grammar string for one command:
//
//	karma for :key
//	assign :issuekey :username
//	urls search :channel :limit :string
//	say [:volume] *rest
//
// Whitespace-separated tokens are literals, ":name" single-word
// parameters, or "*name" multi-word parameters that greedily consume
// the rest of the message. Square brackets mark an optional segment.
// Trailing punctuation on a parameter token ("seen :nick?") stays a
// literal suffix.
//
// [Compile] turns a template plus an [Options] bag into an immutable
// [Template]: one anchored regular expression, parameter
// specifications aligned one-to-one with its capture groups, and the
// authorization path derived from the template's literal tokens.
// Compilation errors (dynamic first token, duplicate parameter,
// malformed collector) are fatal *TemplateError values raised at
// registration, never at match time.
//
// [Template.Recognize] matches one message against the compiled
// pattern. The whole message must match — a partial match is a
// non-match with its own reason. On success it returns a [Params]
// mapping with defaults applied and collectors run; on failure it
// returns a [NoMatch] describing why. NoMatch is a result, not an
// error: the dispatcher consumes it to decide whether to try the next
// template.
//
// Multi-word parameter values are [MultiWord], carrying both the
// split word list and the original contiguous substring.
package mapper
