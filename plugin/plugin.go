// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package plugin defines the dispatch-target API.
//
// A [Plugin] owns one template registry: during setup it maps its
// command templates and registers handlers, then never touches the
// registry again. [Set] assembles the routers for all enabled plugins
// and fans each incoming message across them in registration order —
// the first plugin that handles the message wins.
package plugin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/messaging"
)

// Plugin is one dispatch target. Setup runs once, before any message
// is dispatched; it must register every template and handler the
// plugin will ever use.
type Plugin interface {
	// Name is the plugin's identity. It seeds authorization-path
	// derivation for the plugin's templates.
	Name() string

	// Setup maps templates and registers handlers on the plugin's
	// registry. An error aborts registration of the whole plugin.
	Setup(reg *dispatch.Registry) error
}

// Set is an ordered collection of plugin routers sharing one
// authorization oracle. Register all plugins before the first
// Dispatch call; Set is not safe for concurrent mutation.
type Set struct {
	oracle  dispatch.Oracle
	logger  *slog.Logger
	routers []*dispatch.Router
}

// NewSet creates an empty plugin set.
func NewSet(oracle dispatch.Oracle, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Set{oracle: oracle, logger: logger}
}

// Register runs the plugin's setup phase and adds its router to the
// set. A setup error (typically a template compilation failure)
// rejects the plugin entirely.
func (s *Set) Register(p Plugin) error {
	reg := dispatch.NewRegistry(p.Name(), s.logger)
	if err := p.Setup(reg); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name(), err)
	}
	s.routers = append(s.routers, dispatch.NewRouter(reg, s.oracle, s.logger))
	s.logger.Debug("plugin registered",
		"plugin", p.Name(),
		"templates", len(reg.Templates()),
	)
	return nil
}

// Dispatch routes a message through each plugin in registration
// order. The first structural match settles the attempt: handled
// means done, denied means the whole attempt stops. When no plugin
// matches, the plugin addressed by the message's first word (if any)
// gets to run its fallback handler. Returns true iff some handler
// ran.
func (s *Set) Dispatch(msg *messaging.Message) bool {
	for _, router := range s.routers {
		switch router.Match(msg) {
		case dispatch.Handled:
			return true
		case dispatch.Denied:
			return false
		}
	}

	first, _, _ := strings.Cut(msg.Text, " ")
	for _, router := range s.routers {
		if router.Target() == first {
			return router.Fallback(msg)
		}
	}
	return false
}
