// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"log/slog"
	"regexp"
	"strings"
)

// Options is the per-template configuration bag passed to Compile.
// The zero value is a plain required-everything template.
type Options struct {
	// Action is the handler name invoked on match. Defaults to the
	// template's first literal token.
	Action string

	// Defaults maps parameter names to the value used when the
	// parameter is absent. Presence of a key makes that parameter
	// optional. A nil or false value marks the parameter optional
	// without supplying a value.
	Defaults map[string]any

	// Requirements maps parameter names to validation rules: a
	// literal string, a *regexp.Regexp, or a [Capture].
	Requirements map[string]any

	// AuthPath overrides the derived authorization path. Directives:
	// a leading ":" merges the second literal into the prefix, a
	// trailing ":" folds a further literal into the suffix, a
	// leading "!" suppresses the prefix, a trailing "!" suppresses
	// the suffix. The remainder, if any, is spliced between prefix
	// and suffix.
	AuthPath string

	// Public and Private restrict the message contexts the template
	// may match. Nil means allowed.
	Public  *bool
	Private *bool
}

// Template is a compiled command template: the anchored pattern, the
// parameter specs aligned to its capture groups, and the derived
// authorization path. Immutable once built.
type Template struct {
	source   string
	params   []*ParamSpec
	anchored *regexp.Regexp
	loose    *regexp.Regexp
	action   string
	authPath string
	public   *bool
	private  *bool
	logger   *slog.Logger
}

// Source returns the original template string.
func (t *Template) Source() string { return t.source }

// Action returns the handler name this template dispatches to.
func (t *Template) Action() string { return t.action }

// AuthPath returns the authorization path checked before the handler
// runs.
func (t *Template) AuthPath() string { return t.authPath }

// Pattern returns the compiled anchored pattern text.
func (t *Template) Pattern() string { return t.anchored.String() }

// Params returns the parameter specs in capture-group order. The
// returned slice is shared; callers must not modify it.
func (t *Template) Params() []*ParamSpec { return t.params }

type itemKind int

const (
	itemLiteral itemKind = iota
	itemSingle
	itemMulti
)

// item is one token of a template in declaration order: a literal or
// a parameter reference, with the id of the bracketed optional group
// it belongs to (0 for none).
type item struct {
	kind   itemKind
	text   string // literal text, or parameter name
	suffix string // literal suffix trailing a parameter token
	group  int
}

// paramName matches the leading identifier of a ":name"/"*name"
// token; whatever follows is the literal suffix.
var paramName = regexp.MustCompile(`^[A-Za-z0-9_]+`)

// tokenize splits a template into items, honoring single-level
// "[ ... ]" optional groups. Returns a sentinel error (unwrapped; the
// caller wraps it into a *TemplateError) on malformed bracketing or
// parameter tokens.
func tokenize(template string) ([]item, error) {
	fields := strings.Fields(template)
	items := make([]item, 0, len(fields))
	group := 0
	nextGroup := 0

	for _, field := range fields {
		token := field
		if strings.HasPrefix(token, "[") {
			if group != 0 {
				return nil, ErrNestedBrackets
			}
			nextGroup++
			group = nextGroup
			token = token[1:]
		}
		closing := false
		if strings.HasSuffix(token, "]") {
			if group == 0 {
				return nil, ErrUnbalancedBrackets
			}
			closing = true
			token = token[:len(token)-1]
		}
		if strings.ContainsAny(token, "[]") {
			return nil, ErrNestedBrackets
		}

		if token != "" {
			it, err := classify(token)
			if err != nil {
				return nil, err
			}
			it.group = group
			items = append(items, it)
		}

		if closing {
			group = 0
		}
	}

	if group != 0 {
		return nil, ErrUnbalancedBrackets
	}
	return items, nil
}

// classify decides whether a bare token is a literal or a parameter
// reference, splitting off any trailing punctuation suffix.
func classify(token string) (item, error) {
	leader := token[0]
	if leader != ':' && leader != '*' {
		return item{kind: itemLiteral, text: token}, nil
	}

	name := paramName.FindString(token[1:])
	if name == "" {
		return item{}, ErrBadParamToken
	}

	kind := itemSingle
	if leader == '*' {
		kind = itemMulti
	}
	return item{kind: kind, text: name, suffix: token[1+len(name):]}, nil
}
