// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the bot.
//
// Configuration is loaded from a single YAML file specified by the
// MARMOT_CONFIG environment variable or the --config flag. There are
// no fallbacks or automatic discovery: deterministic, auditable
// configuration with no hidden overrides. The file may contain
// environment-specific sections (development, staging, production)
// that override base values, and a handful of fields can be
// overridden by MARMOT_* environment variables as a final step.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for the bot.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Nick is the bot's own identity. Templates registered by a
	// plugin named after the bot exclude the nick from their
	// authorization paths.
	Nick string `yaml:"nick" env:"MARMOT_NICK"`

	// Channel is the channel name the console transport attributes
	// public messages to.
	Channel string `yaml:"channel" env:"MARMOT_CHANNEL"`

	// LogLevel is the slog level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"MARMOT_LOG_LEVEL"`

	// StorePath is the SQLite database file for plugins that persist
	// state. ":memory:" keeps everything in RAM.
	StorePath string `yaml:"store_path" env:"MARMOT_STORE"`

	// PolicyFile is the JSONC authorization policy. Empty means
	// allow everything (development convenience).
	PolicyFile string `yaml:"policy_file" env:"MARMOT_POLICY"`

	// Plugins lists the enabled plugins in activation order. An
	// empty list enables all built-ins.
	Plugins []string `yaml:"plugins"`

	// Per-environment overrides, applied after the base config.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains the fields that can be overridden per
// environment.
type Overrides struct {
	Nick       *string  `yaml:"nick,omitempty"`
	Channel    *string  `yaml:"channel,omitempty"`
	LogLevel   *string  `yaml:"log_level,omitempty"`
	StorePath  *string  `yaml:"store_path,omitempty"`
	PolicyFile *string  `yaml:"policy_file,omitempty"`
	Plugins    []string `yaml:"plugins,omitempty"`
}

// Default returns the configuration used when no file is given: an
// in-memory development bot with every built-in plugin and no
// authorization policy.
func Default() *Config {
	return &Config{
		Environment: Development,
		Nick:        "marmot",
		Channel:     "#marmot",
		LogLevel:    "info",
		StorePath:   ":memory:",
	}
}

// Load reads the config file, applies the matching environment
// section, then applies MARMOT_* environment variables. An empty path
// falls back to the MARMOT_CONFIG environment variable; if that is
// also unset, Load returns Default with env vars applied.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MARMOT_CONFIG")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		cfg.applyOverrides()
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides merges the section matching cfg.Environment into the
// base fields.
func (c *Config) applyOverrides() {
	var o *Overrides
	switch c.Environment {
	case Development:
		o = c.Development
	case Staging:
		o = c.Staging
	case Production:
		o = c.Production
	}
	if o == nil {
		return
	}

	if o.Nick != nil {
		c.Nick = *o.Nick
	}
	if o.Channel != nil {
		c.Channel = *o.Channel
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.StorePath != nil {
		c.StorePath = *o.StorePath
	}
	if o.PolicyFile != nil {
		c.PolicyFile = *o.PolicyFile
	}
	if len(o.Plugins) > 0 {
		c.Plugins = o.Plugins
	}
}

func (c *Config) validate() error {
	switch c.Environment {
	case Development, Staging, Production, "":
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}
	if c.Nick == "" {
		return fmt.Errorf("config: nick is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
