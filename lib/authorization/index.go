// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"log/slog"
	"sync"
)

// Policy is one source's command permissions: glob patterns over
// authorization paths. Deny patterns always win over allow patterns.
type Policy struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// entry binds a source-identity pattern to a policy, optionally
// restricted to specific reply targets.
type entry struct {
	source   string
	channels []string
	policy   Policy
}

// Index answers authorization queries from per-source policies. Reads
// (Allow) may run concurrently with each other; writes (SetSource,
// SetDefault) must be serialized against dispatch — in practice the
// index is fully loaded before the message loop starts.
type Index struct {
	mu           sync.RWMutex
	entries      []entry
	defaultAllow []string
	defaultDeny  []string
	logger       *slog.Logger
}

// NewIndex creates an empty index. With no entries and no default
// policy, every query is denied.
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Index{logger: logger}
}

// SetDefault installs the fallback policy. Its allow patterns apply
// when no source entry permits the path; its deny patterns apply
// unconditionally — a default deny refuses the path even when a
// source entry allows it.
func (x *Index) SetDefault(policy Policy) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.defaultAllow = policy.Allow
	x.defaultDeny = policy.Deny
}

// SetSource appends a policy for sources matching the given identity
// pattern, optionally restricted to the given reply-target patterns
// (nil means everywhere). Entries are consulted in insertion order.
func (x *Index) SetSource(sourcePattern string, channels []string, policy Policy) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = append(x.entries, entry{
		source:   sourcePattern,
		channels: channels,
		policy:   policy,
	})
}

// Allow reports whether source may execute the given authorization
// path when replying to replyTo. Decision procedure: any matching
// deny pattern (entry or default) refuses; otherwise any matching
// allow pattern permits; otherwise refuse.
func (x *Index) Allow(path, source, replyTo string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()

	allowed := false
	for _, e := range x.entries {
		if !matchIdentity(e.source, source) {
			continue
		}
		if len(e.channels) > 0 && !anyIdentity(e.channels, replyTo) {
			continue
		}
		if MatchAnyPath(e.policy.Deny, path) {
			x.logger.Debug("denied by policy",
				"path", path,
				"source", source,
				"source_pattern", e.source,
			)
			return false
		}
		if MatchAnyPath(e.policy.Allow, path) {
			allowed = true
		}
	}

	// Deny always wins: a default deny refuses the path even when a
	// source entry allowed it above.
	if MatchAnyPath(x.defaultDeny, path) {
		x.logger.Debug("denied by default policy",
			"path", path,
			"source", source,
		)
		return false
	}
	if allowed {
		return true
	}
	return MatchAnyPath(x.defaultAllow, path)
}

func anyIdentity(patterns []string, identity string) bool {
	for _, pattern := range patterns {
		if matchIdentity(pattern, identity) {
			return true
		}
	}
	return false
}
