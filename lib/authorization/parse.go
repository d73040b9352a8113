// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tidwall/jsonc"
)

// PolicyFile is the on-disk shape of an authorization policy: a
// default policy plus ordered per-source entries.
type PolicyFile struct {
	Default *Policy       `json:"default,omitempty"`
	Sources []SourceEntry `json:"sources,omitempty"`
}

// SourceEntry is one per-source policy in a policy file.
type SourceEntry struct {
	// Source is a glob pattern over sender identities ("admin",
	// "guest-*", "*").
	Source string `json:"source"`
	// Channels restricts the entry to matching reply targets. Empty
	// means the entry applies everywhere.
	Channels []string `json:"channels,omitempty"`
	Allow    []string `json:"allow,omitempty"`
	Deny     []string `json:"deny,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a PolicyFile.
func Parse(data []byte) (*PolicyFile, error) {
	stripped := jsonc.ToJSON(data)

	var file PolicyFile
	if err := json.Unmarshal(stripped, &file); err != nil {
		return nil, fmt.Errorf("authorization: parsing policy: %w", err)
	}

	for i, source := range file.Sources {
		if source.Source == "" {
			return nil, fmt.Errorf("authorization: policy source %d: missing source pattern", i)
		}
	}
	return &file, nil
}

// LoadPolicyFile reads a JSONC policy file and builds an Index from
// it. Source entries keep their file order, which determines
// evaluation order.
func LoadPolicyFile(path string, logger *slog.Logger) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("authorization: reading %s: %w", path, err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("authorization: %s: %w", path, err)
	}

	index := NewIndex(logger)
	if file.Default != nil {
		index.SetDefault(*file.Default)
	}
	for _, source := range file.Sources {
		index.SetSource(source.Source, source.Channels, Policy{
			Allow: source.Allow,
			Deny:  source.Deny,
		})
	}
	return index, nil
}
