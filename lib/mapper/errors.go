// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"errors"
	"fmt"
)

// Sentinel causes for template compilation failures. Wrapped inside
// *TemplateError; test with errors.Is.
var (
	ErrEmptyTemplate      = errors.New("empty template")
	ErrFirstTokenDynamic  = errors.New("first token is a parameter")
	ErrFirstTokenOptional = errors.New("first token is optional")
	ErrDuplicateParam     = errors.New("duplicate parameter name")
	ErrBadParamToken      = errors.New("malformed parameter token")
	ErrBadCollector       = errors.New("invalid collector")
	ErrCollectorNoCapture = errors.New("collector pattern has no capture groups")
	ErrCollectorGroup     = errors.New("collector group out of range")
	ErrNestedBrackets     = errors.New("nested optional group")
	ErrUnbalancedBrackets = errors.New("unbalanced optional group")
	ErrGroupAlignment     = errors.New("capture groups misaligned with parameters")
)

// TemplateError reports a construction-time failure for one template.
// Registration must treat it as fatal: a template that fails to
// compile is never added to a registry.
type TemplateError struct {
	// Template is the source template string.
	Template string
	// Detail names the offending token or parameter, when known.
	Detail string
	// Err is the underlying cause, usually one of the sentinel
	// errors above.
	Err error
}

func (e *TemplateError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("mapper: template %q: %s: %v", e.Template, e.Detail, e.Err)
	}
	return fmt.Sprintf("mapper: template %q: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Reason classifies why a message did not dispatch through a
// template. These are recoverable conditions, not errors: the router
// moves on to the next template (or stops, for ReasonDenied).
type Reason int

const (
	// ReasonContext: the template is restricted to public or private
	// messages and the message's context disagrees.
	ReasonContext Reason = iota + 1
	// ReasonPattern: the compiled pattern does not match the message.
	ReasonPattern
	// ReasonPartial: the pattern matches a substring but not the
	// whole message. Treated as no match.
	ReasonPartial
	// ReasonNoAction: the dispatch target has no handler registered
	// for the template's action.
	ReasonNoAction
	// ReasonDenied: the template matched but the authorization
	// oracle refused it.
	ReasonDenied
)

func (r Reason) String() string {
	switch r {
	case ReasonContext:
		return "context mismatch"
	case ReasonPattern:
		return "pattern mismatch"
	case ReasonPartial:
		return "partial match"
	case ReasonNoAction:
		return "no handler for action"
	case ReasonDenied:
		return "authorization denied"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// NoMatch describes a failed recognition attempt. It is a value
// result, not an error: dispatch logs it for diagnostics and tries
// the next template.
type NoMatch struct {
	Reason Reason
	// Detail carries context for diagnostics (the template source,
	// the action name).
	Detail string
}

func (n *NoMatch) String() string {
	if n.Detail != "" {
		return fmt.Sprintf("%s (%s)", n.Reason, n.Detail)
	}
	return n.Reason.String()
}
