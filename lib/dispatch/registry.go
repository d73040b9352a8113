// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/messaging"
)

// DefaultFallback is the action tried when no template structurally
// matches a message.
const DefaultFallback = "usage"

// HandlerFunc is a command handler. It receives the message that
// matched and the extracted parameters. A returned error is logged by
// the router but does not affect the dispatch result: a handler that
// ran and failed still counts as handled.
type HandlerFunc func(msg *messaging.Message, params mapper.Params) error

// Registry is the ordered template collection for one dispatch
// target. Append-only during setup via Map and Handle; read-only once
// dispatch begins. Not safe for concurrent mutation — complete
// registration before exposing the registry to a message loop.
type Registry struct {
	target    string
	logger    *slog.Logger
	templates []*mapper.Template
	handlers  map[string]HandlerFunc
	fallback  string
}

// NewRegistry creates an empty registry for the named dispatch
// target. The target name seeds authorization-path derivation and is
// excluded from each template's path.
func NewRegistry(target string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		target:   target,
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
		fallback: DefaultFallback,
	}
}

// Target returns the dispatch target's identity.
func (r *Registry) Target() string { return r.target }

// Templates returns the compiled templates in registration order. The
// returned slice is shared; callers must not modify it.
func (r *Registry) Templates() []*mapper.Template { return r.templates }

// Map compiles a template and appends it to the registry. Templates
// are tried in Map order at dispatch time. A compilation error
// rejects the template and leaves the registry unchanged.
func (r *Registry) Map(template string, opts mapper.Options) error {
	compiled, err := mapper.Compile(r.target, template, opts, r.logger)
	if err != nil {
		return fmt.Errorf("dispatch: target %s: %w", r.target, err)
	}
	r.templates = append(r.templates, compiled)
	r.logger.Debug("template registered",
		"target", r.target,
		"template", template,
		"action", compiled.Action(),
		"auth_path", compiled.AuthPath(),
	)
	return nil
}

// Handle registers the handler for an action name. Registering the
// same action twice replaces the earlier handler.
func (r *Registry) Handle(action string, fn HandlerFunc) {
	r.handlers[action] = fn
}

// SetFallback overrides the fallback action name (default "usage").
func (r *Registry) SetFallback(action string) {
	r.fallback = action
}
