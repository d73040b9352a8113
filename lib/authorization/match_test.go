// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "testing"

func TestMatchPath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		// Exact.
		{"for", "for", true},
		{"for", "force", false},
		{"search::urls", "search::urls", true},
		{"search::urls", "search", false},

		// Single-segment wildcard.
		{"search::*", "search::urls", true},
		{"search::*", "search::urls::all", false},
		{"search::*", "search", false},

		// Recursive wildcard.
		{"**", "anything::at::all", true},
		{"search::**", "search", true},
		{"search::**", "search::urls", true},
		{"search::**", "search::urls::all", true},
		{"search::**", "find::urls", false},
		{"**::delete", "delete", true},
		{"**::delete", "urls::delete", true},
		{"**::delete", "urls::delete::now", false},

		// Interior recursive wildcard.
		{"a::**::z", "a::z", true},
		{"a::**::z", "a::b::z", true},
		{"a::**::z", "a::b::c::z", true},
		{"a::**::z", "a::b", false},

		// Character wildcard within a segment.
		{"chan-?", "chan-a", true},
		{"chan-?", "chan-ab", false},

		// Malformed patterns never match.
		{"[", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.path, func(t *testing.T) {
			if got := MatchPath(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchPath(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchAnyPath(t *testing.T) {
	patterns := []string{"for", "search::**"}
	if !MatchAnyPath(patterns, "search::urls") {
		t.Error("search::urls should match")
	}
	if MatchAnyPath(patterns, "change") {
		t.Error("change should not match")
	}
	if MatchAnyPath(nil, "anything") {
		t.Error("empty pattern list should match nothing")
	}
}
