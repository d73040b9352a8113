// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marmot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "nick: bot\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nick != "bot" {
		t.Errorf("nick = %q, want %q", cfg.Nick, "bot")
	}
	// Unset fields keep the defaults.
	if cfg.StorePath != ":memory:" {
		t.Errorf("store path = %q, want %q", cfg.StorePath, ":memory:")
	}
	if cfg.Channel != "#marmot" {
		t.Errorf("channel = %q, want %q", cfg.Channel, "#marmot")
	}
}

func TestLoad_EnvironmentSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: production
nick: bot
log_level: debug
production:
  log_level: warn
  store_path: /var/lib/marmot/marmot.db
staging:
  log_level: error
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The production section overrides the base; staging is ignored.
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.StorePath != "/var/lib/marmot/marmot.db" {
		t.Errorf("store path = %q", cfg.StorePath)
	}
}

func TestLoad_EnvVarsWin(t *testing.T) {
	t.Setenv("MARMOT_NICK", "envbot")
	t.Setenv("MARMOT_LOG_LEVEL", "error")

	cfg, err := Load(writeConfig(t, "nick: filebot\nlog_level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nick != "envbot" {
		t.Errorf("nick = %q, want env override %q", cfg.Nick, "envbot")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("log level = %q, want env override %q", cfg.LogLevel, "error")
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("MARMOT_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nick != "marmot" {
		t.Errorf("nick = %q, want default", cfg.Nick)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown environment", "environment: testing\nnick: bot\n"},
		{"empty nick", "nick: \"\"\n"},
		{"unknown log level", "nick: bot\nlog_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}
