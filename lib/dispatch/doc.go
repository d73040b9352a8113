// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch routes messages through an ordered set of compiled
// templates.
//
// A [Registry] belongs to one dispatch target (typically a plugin):
// an append-only, ordered list of templates plus a handler table
// mapping action names to [HandlerFunc] values. Registration happens
// during a setup phase; once a [Router] starts dispatching, the
// registry is read-only.
//
// [Router.Dispatch] tries templates in registration order. The first
// template that structurally matches decides the outcome: if the
// authorization oracle allows its path, the handler runs and dispatch
// succeeds; if the oracle denies it, dispatch stops immediately
// without trying later templates. This short-circuit is deliberate —
// nearest-match-wins is predictable, best-effort fallthrough is not.
// When no template matches at all, the fallback handler (action
// "usage" unless overridden) runs with empty parameters, subject to
// its own authorization check against the target identity.
package dispatch
