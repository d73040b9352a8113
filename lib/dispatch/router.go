// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"log/slog"

	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/messaging"
)

// Oracle decides whether a matched command may execute. The path is
// the template's authorization path; source and replyTo come from the
// message being dispatched.
type Oracle interface {
	Allow(path, source, replyTo string) bool
}

// AllowAll is an Oracle that permits everything. Useful for tests and
// unrestricted console sessions.
type AllowAll struct{}

// Allow always returns true.
func (AllowAll) Allow(path, source, replyTo string) bool { return true }

// DenyAll is an Oracle that refuses everything, matched commands and
// fallbacks alike.
type DenyAll struct{}

// Allow always returns false.
func (DenyAll) Allow(path, source, replyTo string) bool { return false }

// Outcome is the result of the template-matching phase of dispatch.
type Outcome int

const (
	// Unhandled: no template structurally matched.
	Unhandled Outcome = iota
	// Handled: a template matched, was authorized, and its handler ran.
	Handled
	// Denied: a template matched but authorization refused it. The
	// dispatch attempt stops here — later templates (and, in a
	// multi-plugin setup, later plugins) are never tried.
	Denied
)

// Router dispatches messages against one registry. Stateless per
// call: all state lives in the immutable registry and the oracle.
type Router struct {
	registry *Registry
	oracle   Oracle
	logger   *slog.Logger
}

// NewRouter creates a router over a fully-registered registry. The
// registry must not be mutated after this point.
func NewRouter(registry *Registry, oracle Oracle, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{registry: registry, oracle: oracle, logger: logger}
}

// Target returns the identity of the registry this router serves.
func (r *Router) Target() string { return r.registry.target }

// Dispatch routes one message. Returns true iff a handler ran —
// matched or fallback.
//
// Templates are tried in registration order. A template whose action
// has no registered handler is skipped (recorded, not fatal). The
// first structural match settles the attempt: authorized means the
// handler runs and later templates are never tried; denied means
// dispatch returns false immediately, also without trying later
// templates. Only when nothing matches structurally does the fallback
// handler get a chance.
func (r *Router) Dispatch(msg *messaging.Message) bool {
	switch r.Match(msg) {
	case Handled:
		return true
	case Denied:
		return false
	}
	return r.Fallback(msg)
}

// Match runs the template-matching phase only: templates in
// registration order, first structural match wins or denies. Callers
// that fan a message across several routers use Match for every
// router before offering Fallback to any of them.
func (r *Router) Match(msg *messaging.Message) Outcome {
	reg := r.registry
	for _, template := range reg.templates {
		handler, ok := reg.handlers[template.Action()]
		if !ok {
			failure := &mapper.NoMatch{Reason: mapper.ReasonNoAction, Detail: template.Action()}
			r.logger.Debug("template skipped",
				"target", reg.target,
				"template", template.Source(),
				"reason", failure,
			)
			continue
		}

		params, failure := template.Recognize(msg)
		if failure != nil {
			r.logger.Debug("no match",
				"target", reg.target,
				"template", template.Source(),
				"reason", failure,
			)
			continue
		}

		if !r.oracle.Allow(template.AuthPath(), msg.Source, msg.ReplyTo) {
			r.logger.Info("authorization denied",
				"target", reg.target,
				"template", template.Source(),
				"auth_path", template.AuthPath(),
				"source", msg.Source,
			)
			return Denied
		}

		r.invoke(handler, template.Action(), msg, params)
		return Handled
	}
	return Unhandled
}

// Fallback runs the registry's fallback handler with empty
// parameters, if one is registered and the oracle allows the target
// identity as a path. Returns true iff the handler ran.
func (r *Router) Fallback(msg *messaging.Message) bool {
	reg := r.registry
	handler, ok := reg.handlers[reg.fallback]
	if !ok {
		return false
	}
	if !r.oracle.Allow(reg.target, msg.Source, msg.ReplyTo) {
		r.logger.Info("fallback denied",
			"target", reg.target,
			"source", msg.Source,
		)
		return false
	}
	r.invoke(handler, reg.fallback, msg, mapper.Params{})
	return true
}

func (r *Router) invoke(handler HandlerFunc, action string, msg *messaging.Message, params mapper.Params) {
	if err := handler(msg, params); err != nil {
		r.logger.Error("handler failed",
			"target", r.registry.target,
			"action", action,
			"error", err,
		)
	}
}
