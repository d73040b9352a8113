// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization implements the command authorization oracle.
//
// Every compiled template carries an authorization path: a
// hierarchical "::"-separated key derived from its literal tokens
// ("for", "search::urls", "change"). Before a matched handler runs,
// the router asks the oracle whether the message's source may execute
// that path.
//
// Policies are glob patterns over paths: "*" matches one segment,
// "**" any number of segments, "?" a single character within a
// segment. A [Policy] pairs allow and deny pattern lists; deny always
// wins. The [Index] maps source-identity patterns to policies and
// answers [Index.Allow] — safe for concurrent reads while dispatch is
// running, with single-writer loading during setup.
//
// Policy files are JSONC (JSON with comments and trailing commas),
// loaded with [LoadPolicyFile]:
//
//	{
//	    // everyone may run read-only commands
//	    "default": {"allow": ["for", "search::**"]},
//	    "sources": [
//	        {"source": "admin", "allow": ["**"]},
//	        {"source": "guest-*", "deny": ["change"], "channels": ["#ops"]},
//	    ],
//	}
//
// A source entry may be restricted to specific reply targets via
// "channels"; entries without channels apply everywhere.
package authorization
