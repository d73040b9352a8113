// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "testing"

// setupIndex builds a standard scenario:
//
//   - admin may run everything
//   - guests may look things up but never change karma
//   - ops commands are allowed only in the #ops channel
//   - the default policy permits read-only search commands
func setupIndex(t *testing.T) *Index {
	t.Helper()
	index := NewIndex(nil)
	index.SetDefault(Policy{Allow: []string{"search::**", "for"}})
	index.SetSource("admin", nil, Policy{Allow: []string{"**"}})
	index.SetSource("guest-*", nil, Policy{Deny: []string{"change"}, Allow: []string{"karma"}})
	index.SetSource("*", []string{"#ops"}, Policy{Allow: []string{"ops::**"}})
	return index
}

func TestIndex_AdminAllowsEverything(t *testing.T) {
	index := setupIndex(t)
	for _, path := range []string{"change", "ops::reload", "anything::at::all"} {
		if !index.Allow(path, "admin", "#chan") {
			t.Errorf("admin %s: denied, want allowed", path)
		}
	}
}

func TestIndex_DenyWinsOverAllow(t *testing.T) {
	index := setupIndex(t)

	if !index.Allow("karma", "guest-7", "#chan") {
		t.Error("guest karma: denied, want allowed")
	}
	// The guest entry denies "change" even though another entry or
	// default might allow it.
	if index.Allow("change", "guest-7", "#chan") {
		t.Error("guest change: allowed, want denied")
	}
}

func TestIndex_ChannelScopedEntry(t *testing.T) {
	index := setupIndex(t)

	if !index.Allow("ops::reload", "bob", "#ops") {
		t.Error("ops command in #ops: denied, want allowed")
	}
	if index.Allow("ops::reload", "bob", "#general") {
		t.Error("ops command in #general: allowed, want denied")
	}
}

func TestIndex_DefaultPolicy(t *testing.T) {
	index := setupIndex(t)

	if !index.Allow("search::urls", "nobody", "#chan") {
		t.Error("default search: denied, want allowed")
	}
	if index.Allow("change", "nobody", "#chan") {
		t.Error("default change: allowed, want denied")
	}
}

func TestIndex_DefaultDenyOverridesEntryAllow(t *testing.T) {
	index := NewIndex(nil)
	index.SetDefault(Policy{Deny: []string{"change"}})
	index.SetSource("alice", nil, Policy{Allow: []string{"**"}})

	if index.Allow("change", "alice", "#chan") {
		t.Error("default deny overridden by entry allow, want denied")
	}
	// Paths outside the default deny list still honor the entry allow.
	if !index.Allow("karma", "alice", "#chan") {
		t.Error("entry allow denied without a matching deny pattern")
	}
}

func TestIndex_EmptyDeniesEverything(t *testing.T) {
	index := NewIndex(nil)
	if index.Allow("for", "anyone", "#chan") {
		t.Error("empty index allowed a command")
	}
}
