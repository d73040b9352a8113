// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"testing"

	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/messaging"
)

// fake is a minimal plugin with one command and a usage fallback.
type fake struct {
	name     string
	template string // defaults to "<name> :arg"
	authPath string
	calls    []string
}

func (f *fake) Name() string { return f.name }

func (f *fake) Setup(reg *dispatch.Registry) error {
	template := f.template
	if template == "" {
		template = f.name + " :arg"
	}
	if err := reg.Map(template, mapper.Options{Action: "run", AuthPath: f.authPath}); err != nil {
		return err
	}
	reg.Handle("run", func(msg *messaging.Message, params mapper.Params) error {
		f.calls = append(f.calls, "run")
		return nil
	})
	reg.Handle("usage", func(msg *messaging.Message, params mapper.Params) error {
		f.calls = append(f.calls, "usage")
		return nil
	})
	return nil
}

func message(text string) *messaging.Message {
	return &messaging.Message{Text: text, Source: "alice", ReplyTo: "#chan"}
}

func TestSet_RoutesToMatchingPlugin(t *testing.T) {
	first := &fake{name: "alpha"}
	second := &fake{name: "beta"}

	set := NewSet(dispatch.AllowAll{}, nil)
	for _, p := range []Plugin{first, second} {
		if err := set.Register(p); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	if !set.Dispatch(message("beta foo")) {
		t.Fatal("Dispatch = false, want true")
	}
	if len(first.calls) != 0 {
		t.Errorf("alpha calls = %v, want none", first.calls)
	}
	if len(second.calls) != 1 || second.calls[0] != "run" {
		t.Errorf("beta calls = %v, want [run]", second.calls)
	}
}

func TestSet_FallbackGoesToAddressedPlugin(t *testing.T) {
	first := &fake{name: "alpha"}
	second := &fake{name: "beta"}

	set := NewSet(dispatch.AllowAll{}, nil)
	for _, p := range []Plugin{first, second} {
		if err := set.Register(p); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	// "beta" alone matches no template; only beta's fallback runs,
	// not alpha's, even though alpha registered first.
	if !set.Dispatch(message("beta")) {
		t.Fatal("Dispatch = false, want true")
	}
	if len(first.calls) != 0 {
		t.Errorf("alpha calls = %v, want none", first.calls)
	}
	if len(second.calls) != 1 || second.calls[0] != "usage" {
		t.Errorf("beta calls = %v, want [usage]", second.calls)
	}
}

func TestSet_UnaddressedMessageUnhandled(t *testing.T) {
	first := &fake{name: "alpha"}
	set := NewSet(dispatch.AllowAll{}, nil)
	if err := set.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if set.Dispatch(message("totally unrelated chatter")) {
		t.Error("Dispatch = true, want false")
	}
	if len(first.calls) != 0 {
		t.Errorf("alpha calls = %v, want none", first.calls)
	}
}

func TestSet_DenialStopsFanOut(t *testing.T) {
	// Both plugins' templates match "alpha foo", but only the second
	// plugin's path is authorized. The denial on the first structural
	// match stops the fan-out — the second plugin is never tried.
	first := &fake{name: "alpha", authPath: "!one"}
	second := &fake{name: "beta", template: "alpha :arg", authPath: "!two"}

	oracle := pathOracle{"two": true}
	set := NewSet(oracle, nil)
	for _, p := range []Plugin{first, second} {
		if err := set.Register(p); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	if set.Dispatch(message("alpha foo")) {
		t.Fatal("Dispatch = true, want false (denied)")
	}
	if len(first.calls)+len(second.calls) != 0 {
		t.Errorf("handlers ran after denial: %v %v", first.calls, second.calls)
	}
}

type pathOracle map[string]bool

func (o pathOracle) Allow(path, source, replyTo string) bool { return o[path] }
