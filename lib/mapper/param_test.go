// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import "testing"

func TestEmbeddable(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`^\d+$`, `\d+`},
		{`\Afoo\z`, `foo`},
		{`(a+)(b+)`, `(?:a+)(?:b+)`},
		{`(?:already)`, `(?:already)`},
		// Named groups capture too and must be converted.
		{`(?P<id>\d+)`, `(?:\d+)`},
		{`(?<id>\d+)`, `(?:\d+)`},
		// Escaped parens and character classes are left alone.
		{`\(literal\)`, `\(literal\)`},
		{`[(]a[)]`, `[(]a[)]`},
		// An escaped trailing dollar is not an anchor.
		{`price\$`, `price\$`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := embeddable(tt.expr); got != tt.want {
				t.Errorf("embeddable(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCollect_NoCollectorPassesThrough(t *testing.T) {
	spec := &ParamSpec{Name: "key"}
	got, ok := spec.Collect("raw text")
	if !ok || got != "raw text" {
		t.Errorf("Collect = (%q, %v), want (%q, true)", got, ok, "raw text")
	}
}
