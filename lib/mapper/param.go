// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"regexp"
	"strings"
)

// ParamSpec describes one named slot in a compiled template. Specs
// are built during compilation and immutable afterward; their order
// matches the pattern's capture groups one-to-one.
type ParamSpec struct {
	// Name is the parameter's key in the result Params.
	Name string

	// Multi marks a "*name" slot that greedily absorbs the rest of
	// the message.
	Multi bool

	// Optional is true when the slot has a default or sits inside a
	// bracketed segment.
	Optional bool

	// Default is the value used when the slot's capture group did
	// not participate in the match. Nil and false mean "no value":
	// the parameter is omitted from the result.
	Default any

	hasDefault bool
	collector  *collector
}

// collector is the resolved extraction rule for a parameter: a
// pattern plus the capture group to select. Group 0 means "first
// participating group". A closed variant — anything that does not
// resolve to one of these shapes is rejected at compile time.
type collector struct {
	pattern *regexp.Regexp
	group   int
}

// Capture is the structured collector form for a Requirements entry:
// a validation pattern plus an explicit capture group to extract.
// Group must address an existing capture group (1-based).
type Capture struct {
	Pattern *regexp.Regexp
	Group   int
}

// Collect post-processes the raw matched text for this parameter.
// With no collector configured the text passes through unchanged.
// Otherwise the collector pattern runs against the text and the
// selected group is returned; ok is false when the pattern does not
// match or the selected group did not participate.
func (p *ParamSpec) Collect(raw string) (value string, ok bool) {
	if p.collector == nil {
		return raw, true
	}

	groups := p.collector.pattern.FindStringSubmatchIndex(raw)
	if groups == nil {
		return "", false
	}

	if p.collector.group > 0 {
		start, end := groups[2*p.collector.group], groups[2*p.collector.group+1]
		if start < 0 {
			return "", false
		}
		return raw[start:end], true
	}

	// First participating capture group.
	for g := 1; g <= p.collector.pattern.NumSubexp(); g++ {
		if groups[2*g] >= 0 {
			return raw[groups[2*g]:groups[2*g+1]], true
		}
	}
	return "", false
}

// resolveRequirement turns one Requirements entry into the pattern
// fragment embedded in the compiled template and, when the entry
// extracts a group, the parameter's collector.
//
// Accepted shapes: a literal string (matched verbatim), a
// *regexp.Regexp (validation; becomes a collector when it has
// capture groups), or a [Capture]. Anything else is a
// construction-time error.
func resolveRequirement(requirement any) (fragment string, col *collector, err error) {
	switch r := requirement.(type) {
	case string:
		return regexp.QuoteMeta(r), nil, nil

	case *regexp.Regexp:
		if r.NumSubexp() > 0 {
			col = &collector{pattern: r}
		}
		return embeddable(r.String()), col, nil

	case Capture:
		if r.Pattern == nil {
			return "", nil, ErrBadCollector
		}
		if r.Pattern.NumSubexp() == 0 {
			return "", nil, ErrCollectorNoCapture
		}
		if r.Group < 1 || r.Group > r.Pattern.NumSubexp() {
			return "", nil, ErrCollectorGroup
		}
		return embeddable(r.Pattern.String()), &collector{pattern: r.Pattern, group: r.Group}, nil
	}
	return "", nil, ErrBadCollector
}

// embeddable rewrites a requirement pattern so it can sit inside the
// template pattern without disturbing capture-group alignment:
// leading/trailing anchors are stripped and capturing groups become
// non-capturing.
func embeddable(expr string) string {
	expr = strings.TrimPrefix(expr, `\A`)
	expr = strings.TrimPrefix(expr, "^")
	if strings.HasSuffix(expr, `\z`) {
		expr = expr[:len(expr)-len(`\z`)]
	} else if strings.HasSuffix(expr, "$") && !strings.HasSuffix(expr, `\$`) {
		expr = expr[:len(expr)-1]
	}

	var out strings.Builder
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\' && i+1 < len(expr):
			out.WriteByte(c)
			i++
			out.WriteByte(expr[i])
		case inClass:
			out.WriteByte(c)
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			out.WriteByte(c)
		case c == '(' && (strings.HasPrefix(expr[i:], "(?P<") || strings.HasPrefix(expr[i:], "(?<")):
			// Named groups capture too; drop the name along with the
			// capturing behavior.
			out.WriteString("(?:")
			for i < len(expr) && expr[i] != '>' {
				i++
			}
		case c == '(' && (i+1 >= len(expr) || expr[i+1] != '?'):
			out.WriteString("(?:")
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
