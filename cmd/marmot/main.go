// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// marmot is the console bot: it reads chat lines from stdin, routes
// them through the command engine, and prints replies to stdout.
//
// Line format: "nick: text" for a public message in the configured
// channel, "*nick: text" for a private message. Example session:
//
//	$ marmot --allow-all
//	alice: karma up bob
//	[#marmot] karma for bob: 1
//	alice: echo hello world
//	[#marmot] hello world
//
// Configuration comes from --config (or MARMOT_CONFIG); without a
// file the bot runs with defaults, an in-memory store, and — unless
// --allow-all is set — denies every command.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/marmot-chat/marmot/lib/authorization"
	"github.com/marmot-chat/marmot/lib/config"
	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/lib/store"
	"github.com/marmot-chat/marmot/messaging"
	"github.com/marmot-chat/marmot/plugin"
	"github.com/marmot-chat/marmot/plugin/builtin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var allowAll bool

	flagSet := pflag.NewFlagSet("marmot", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: MARMOT_CONFIG)")
	flagSet.BoolVar(&allowAll, "allow-all", false, "skip authorization (every command permitted)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	oracle, err := buildOracle(cfg, allowAll, logger)
	if err != nil {
		return err
	}

	st, err := store.Open(store.Options{
		Path:   cfg.StorePath,
		Schema: builtin.Schema,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	reply := func(target, text string) {
		fmt.Printf("[%s] %s\n", target, text)
	}

	set := plugin.NewSet(oracle, logger)
	if err := registerPlugins(set, cfg, st, reply); err != nil {
		return err
	}

	logger.Info("bot ready",
		"nick", cfg.Nick,
		"channel", cfg.Channel,
		"store", cfg.StorePath,
	)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		msg, err := messaging.ParseLine(line, cfg.Channel)
		if err != nil {
			logger.Warn("unparseable line", "error", err)
			continue
		}

		if !set.Dispatch(msg) {
			logger.Debug("unhandled message",
				"source", msg.Source,
				"text", msg.Text,
			)
		}
	}
	return scanner.Err()
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func buildOracle(cfg *config.Config, allowAll bool, logger *slog.Logger) (dispatch.Oracle, error) {
	if allowAll {
		return dispatch.AllowAll{}, nil
	}
	if cfg.PolicyFile == "" {
		logger.Warn("no policy file configured; all commands will be denied (use --allow-all for an open session)")
		return authorization.NewIndex(logger), nil
	}
	return authorization.LoadPolicyFile(cfg.PolicyFile, logger)
}

func registerPlugins(set *plugin.Set, cfg *config.Config, st *store.Store, reply messaging.Replier) error {
	available := map[string]plugin.Plugin{
		"karma": builtin.NewKarma(st, reply),
		"echo":  builtin.NewEcho(reply),
		"urls":  builtin.NewURLs(reply),
	}

	enabled := cfg.Plugins
	if len(enabled) == 0 {
		enabled = []string{"karma", "echo", "urls"}
	}

	for _, name := range enabled {
		p, ok := available[name]
		if !ok {
			return fmt.Errorf("unknown plugin %q", name)
		}
		if err := set.Register(p); err != nil {
			return err
		}
	}
	return nil
}
