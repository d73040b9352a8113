// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"log/slog"
	"regexp"
	"strings"
)

// PathSeparator joins the hierarchical segments of an authorization
// path.
const PathSeparator = "::"

// Compile parses and compiles one template for the named dispatch
// target. The returned Template is immutable; all validation errors
// (malformed template, bad collector, misaligned groups) surface here
// as *TemplateError, never at match time.
//
// Compilation is deterministic: the same target, template, and
// options always produce the same pattern text and authorization
// path. A nil logger discards the matcher's diagnostics.
func Compile(target, template string, opts Options, logger *slog.Logger) (*Template, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	items, err := tokenize(template)
	if err != nil {
		return nil, &TemplateError{Template: template, Err: err}
	}
	if len(items) == 0 {
		return nil, &TemplateError{Template: template, Err: ErrEmptyTemplate}
	}
	if items[0].kind != itemLiteral {
		return nil, &TemplateError{Template: template, Detail: items[0].text, Err: ErrFirstTokenDynamic}
	}
	if items[0].group != 0 {
		return nil, &TemplateError{Template: template, Detail: items[0].text, Err: ErrFirstTokenOptional}
	}

	var pattern strings.Builder
	var params []*ParamSpec
	seen := make(map[string]bool)
	bracket := 0 // id of the optional group currently open in the pattern

	for i, it := range items {
		separator := `\s+`
		if i == 0 {
			separator = ""
		}

		// Close the previous bracketed group and open a new one as
		// needed. The group's leading whitespace lives inside the
		// optional wrapper so the group can be absent entirely.
		if bracket != 0 && it.group != bracket {
			pattern.WriteString(")?")
			bracket = 0
		}
		if it.group != 0 && it.group != bracket {
			pattern.WriteString("(?:")
			bracket = it.group
		}

		if it.kind == itemLiteral {
			pattern.WriteString(separator)
			pattern.WriteString(regexp.QuoteMeta(it.text))
			continue
		}

		if seen[it.text] {
			return nil, &TemplateError{Template: template, Detail: it.text, Err: ErrDuplicateParam}
		}
		seen[it.text] = true

		spec := &ParamSpec{
			Name:     it.text,
			Multi:    it.kind == itemMulti,
			Optional: it.group != 0,
		}

		fragment := `\S+`
		if spec.Multi {
			fragment = `.*`
		}
		if requirement, ok := opts.Requirements[it.text]; ok {
			var col *collector
			fragment, col, err = resolveRequirement(requirement)
			if err != nil {
				return nil, &TemplateError{Template: template, Detail: it.text, Err: err}
			}
			spec.collector = col
		}

		def, hasDefault := opts.Defaults[it.text]
		if hasDefault {
			spec.Optional = true
			spec.Default = def
			spec.hasDefault = true
		}

		capture := "(" + fragment + ")" + regexp.QuoteMeta(it.suffix)
		if hasDefault && it.group == 0 {
			// Parameter-or-absent: the capture group and its leading
			// whitespace become one optional unit.
			pattern.WriteString("(?:" + separator + capture + ")?")
		} else {
			pattern.WriteString(separator)
			pattern.WriteString(capture)
		}
		params = append(params, spec)
	}
	if bracket != 0 {
		pattern.WriteString(")?")
	}

	body := pattern.String()
	anchored, err := regexp.Compile(`\A` + body + `\z`)
	if err != nil {
		return nil, &TemplateError{Template: template, Detail: err.Error(), Err: ErrBadCollector}
	}
	loose, err := regexp.Compile(body)
	if err != nil {
		return nil, &TemplateError{Template: template, Detail: err.Error(), Err: ErrBadCollector}
	}
	if anchored.NumSubexp() != len(params) {
		// A requirement pattern slipped an unconverted capture group
		// into the compiled pattern.
		return nil, &TemplateError{Template: template, Err: ErrGroupAlignment}
	}

	action := opts.Action
	if action == "" {
		action = items[0].text
	}

	return &Template{
		source:   template,
		params:   params,
		anchored: anchored,
		loose:    loose,
		action:   action,
		authPath: deriveAuthPath(target, items, opts.AuthPath),
		public:   opts.Public,
		private:  opts.Private,
		logger:   logger,
	}, nil
}

// deriveAuthPath computes the template's authorization path from its
// literal tokens. Bracketed and parameter tokens are skipped, as is
// the first literal equal to the dispatch target's own name. The
// first remaining literal is the prefix, the second the suffix; the
// override string's ":"/"!" directives then rearrange or suppress
// them. An empty result falls back to the target identity so every
// template has a non-empty path.
func deriveAuthPath(target string, items []item, override string) string {
	var words []string
	first := true
	for _, it := range items {
		if it.kind != itemLiteral || it.group != 0 {
			continue
		}
		if first && it.text == target {
			first = false
			continue
		}
		first = false
		words = append(words, it.text)
	}

	pick := func(i int) string {
		if i < len(words) {
			return words[i]
		}
		return ""
	}
	prefix, post := pick(0), pick(1)

	extra := override
	if extra != "" {
		if rest, found := strings.CutPrefix(extra, ":"); found {
			extra = rest
			if post != "" {
				prefix = prefix + PathSeparator + post
			}
			post = ""
		}
		if rest, found := strings.CutSuffix(extra, ":"); found {
			extra = rest
			if next := pick(2); next != "" && post != "" {
				post = post + PathSeparator + next
			}
		}
		if rest, found := strings.CutPrefix(extra, "!"); found {
			extra = rest
			prefix = ""
		}
		if rest, found := strings.CutSuffix(extra, "!"); found {
			extra = rest
			post = ""
		}
	}

	var parts []string
	for _, part := range []string{prefix, extra, post} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return target
	}
	return strings.Join(parts, PathSeparator)
}
