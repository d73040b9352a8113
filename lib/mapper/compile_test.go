// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"errors"
	"regexp"
	"testing"

	"github.com/marmot-chat/marmot/messaging"
)

func mustCompile(t *testing.T, target, template string, opts Options) *Template {
	t.Helper()
	compiled, err := Compile(target, template, opts, nil)
	if err != nil {
		t.Fatalf("Compile(%q): %v", template, err)
	}
	return compiled
}

func TestCompile_RejectsMalformedTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
		opts     Options
		want     error
	}{
		{"empty", "", Options{}, ErrEmptyTemplate},
		{"first token single param", ":key for", Options{}, ErrFirstTokenDynamic},
		{"first token multi param", "*rest", Options{}, ErrFirstTokenDynamic},
		{"first token bracketed", "[karma] :key", Options{}, ErrFirstTokenOptional},
		{"duplicate param", "swap :a :a", Options{}, ErrDuplicateParam},
		{"bare colon", "karma :", Options{}, ErrBadParamToken},
		{"nested brackets", "a [b [c] d]", Options{}, ErrNestedBrackets},
		{"unopened bracket", "a b] c", Options{}, ErrUnbalancedBrackets},
		{"unclosed bracket", "a [b c", Options{}, ErrUnbalancedBrackets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("test", tt.template, tt.opts, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.template, err, tt.want)
			}
			var templateErr *TemplateError
			if err != nil && !errors.As(err, &templateErr) {
				t.Errorf("Compile(%q) error is not a *TemplateError: %v", tt.template, err)
			}
		})
	}
}

func TestCompile_RejectsBadCollectors(t *testing.T) {
	tests := []struct {
		name        string
		requirement any
		want        error
	}{
		{"wrong type", 42, ErrBadCollector},
		{"nil capture pattern", Capture{Group: 1}, ErrBadCollector},
		{"pattern without groups", Capture{Pattern: regexp.MustCompile(`\d+`), Group: 1}, ErrCollectorNoCapture},
		{"group out of range", Capture{Pattern: regexp.MustCompile(`(\d+)`), Group: 2}, ErrCollectorGroup},
		{"group zero", Capture{Pattern: regexp.MustCompile(`(\d+)`)}, ErrCollectorGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("test", "cmd :value", Options{
				Requirements: map[string]any{"value": tt.requirement},
			}, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompile_GroupAlignment(t *testing.T) {
	// A requirement pattern with its own capture groups must not
	// shift the template's group numbering.
	compiled := mustCompile(t, "test", "cmd :first :second", Options{
		Requirements: map[string]any{
			"first": regexp.MustCompile(`^(a+)(b+)$`),
		},
	})

	if got, want := len(compiled.Params()), 2; got != want {
		t.Fatalf("param count = %d, want %d", got, want)
	}
	if got := regexp.MustCompile(compiled.Pattern()).NumSubexp(); got != 2 {
		t.Errorf("capture groups = %d, want 2 (requirement groups must be non-capturing)", got)
	}
}

func TestCompile_NamedGroupRequirement(t *testing.T) {
	tmpl := mustCompile(t, "issue", "issue :id", Options{
		Requirements: map[string]any{
			"id": regexp.MustCompile(`^#(?P<number>\d+)$`),
		},
	})

	if got := regexp.MustCompile(tmpl.Pattern()).NumSubexp(); got != 1 {
		t.Errorf("capture groups = %d, want 1 (named group must be non-capturing)", got)
	}

	params, failure := tmpl.Recognize(&messaging.Message{Text: "issue #42"})
	if failure != nil {
		t.Fatalf("Recognize: %v", failure)
	}
	if got, _ := params.String("id"); got != "42" {
		t.Errorf("id = %q, want %q", got, "42")
	}
}

func TestCompile_Idempotent(t *testing.T) {
	opts := Options{
		Defaults:     map[string]any{"limit": "4"},
		Requirements: map[string]any{"limit": regexp.MustCompile(`^\d+$`)},
	}

	first := mustCompile(t, "urls", "urls search :channel :limit :string", opts)
	second := mustCompile(t, "urls", "urls search :channel :limit :string", opts)

	if first.Pattern() != second.Pattern() {
		t.Errorf("pattern text differs:\n  %s\n  %s", first.Pattern(), second.Pattern())
	}
	if first.AuthPath() != second.AuthPath() {
		t.Errorf("auth path differs: %q vs %q", first.AuthPath(), second.AuthPath())
	}
}

func TestCompile_ActionDefaultsToFirstLiteral(t *testing.T) {
	compiled := mustCompile(t, "karma", "karma for :key", Options{})
	if got, want := compiled.Action(), "karma"; got != want {
		t.Errorf("action = %q, want %q", got, want)
	}

	compiled = mustCompile(t, "karma", "karma for :key", Options{Action: "lookup"})
	if got, want := compiled.Action(), "lookup"; got != want {
		t.Errorf("action = %q, want %q", got, want)
	}
}

func TestDeriveAuthPath(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		template string
		override string
		want     string
	}{
		{"single literal after target", "karma", "karma up :key", "", "up"},
		{"two literals", "urls", "urls search all :string", "", "search::all"},
		{"target not in template", "admin", "reload config", "", "reload::config"},
		{"params and brackets excluded", "urls", "urls search [in :channel] :string", "", "search"},
		{"template equal to target", "karma", "karma :key", "", "karma"},
		{"extra spliced between", "urls", "urls search all :string", "deep", "search::deep::all"},
		{"leading colon merges post", "urls", "urls search all :string", ":", "search::all"},
		{"leading colon with extra", "urls", "urls search all :string", ":deep", "search::all::deep"},
		{"trailing colon folds next literal", "urls", "urls search all three :string", "deep:", "search::deep::all::three"},
		{"leading bang drops prefix", "karma", "karma up :key", "!change", "change"},
		{"trailing bang drops post", "urls", "urls search all :string", "deep!", "search::deep"},
		{"bang both sides", "urls", "urls search all :string", "!only!", "only"},
		{"everything suppressed", "karma", "karma up :key", "!!", "karma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := mustCompile(t, tt.target, tt.template, Options{AuthPath: tt.override})
			if got := compiled.AuthPath(); got != tt.want {
				t.Errorf("auth path = %q, want %q", got, tt.want)
			}
		})
	}
}
