// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"strings"

	"github.com/marmot-chat/marmot/messaging"
)

// Params is the parameter mapping produced by a successful match.
// Single-word parameters are strings, multi-word parameters are
// [MultiWord], defaults keep whatever type the registration supplied.
// Absent optional parameters are omitted, never present-as-nil.
type Params map[string]any

// String returns the named parameter as a string. For MultiWord
// values it returns the original contiguous text.
func (p Params) String(name string) (string, bool) {
	switch v := p[name].(type) {
	case string:
		return v, true
	case MultiWord:
		return v.Text, true
	}
	return "", false
}

// Multi returns the named parameter as a MultiWord. A plain string
// value is split into words.
func (p Params) Multi(name string) (MultiWord, bool) {
	switch v := p[name].(type) {
	case MultiWord:
		return v, true
	case string:
		return MultiWord{Words: strings.Fields(v), Text: v}, true
	}
	return MultiWord{}, false
}

// MultiWord is the value of a "*name" parameter: the matched text
// split into whitespace-separated words, plus the original contiguous
// substring for callers that need the untokenized form.
type MultiWord struct {
	Words []string
	Text  string
}

// Recognize attempts to match a message against the template.
// On success it returns the parameter mapping; on failure it returns
// a NoMatch with the reason. Exactly one of the results is non-nil.
//
// The compiled pattern must cover the entire message: a prefix or
// substring match is reported as ReasonPartial, distinct from a plain
// ReasonPattern mismatch.
func (t *Template) Recognize(msg *messaging.Message) (Params, *NoMatch) {
	if msg.Private && t.private != nil && !*t.private {
		return nil, &NoMatch{Reason: ReasonContext, Detail: "not allowed in private"}
	}
	if !msg.Private && t.public != nil && !*t.public {
		return nil, &NoMatch{Reason: ReasonContext, Detail: "not allowed in public"}
	}

	groups := t.anchored.FindStringSubmatchIndex(msg.Text)
	if groups == nil {
		if t.loose.MatchString(msg.Text) {
			return nil, &NoMatch{Reason: ReasonPartial, Detail: t.source}
		}
		return nil, &NoMatch{Reason: ReasonPattern, Detail: t.source}
	}

	params := make(Params, len(t.params))
	for i, spec := range t.params {
		start, end := groups[2*(i+1)], groups[2*(i+1)+1]

		var value any
		if start < 0 {
			value = t.absentValue(spec)
		} else if spec.Multi {
			raw := msg.Text[start:end]
			value = MultiWord{Words: strings.Fields(raw), Text: raw}
		} else {
			collected, ok := spec.Collect(msg.Text[start:end])
			if ok {
				value = collected
			}
		}

		// Absent optionals with no usable default are omitted.
		if value == nil || value == false {
			continue
		}
		params[spec.Name] = value
	}

	return params, nil
}

// absentValue produces the value for a parameter whose capture group
// did not participate in the match.
func (t *Template) absentValue(spec *ParamSpec) any {
	if spec.Multi {
		switch def := spec.Default.(type) {
		case []string:
			return MultiWord{Words: def, Text: strings.Join(def, " ")}
		case string:
			return MultiWord{Words: strings.Fields(def), Text: def}
		default:
			return MultiWord{Words: []string{}}
		}
	}

	if !spec.hasDefault {
		t.logger.Warn("optional parameter has no default",
			"template", t.source,
			"parameter", spec.Name,
		)
	}
	return spec.Default
}
