// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"context"
	"fmt"
	"regexp"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/lib/store"
	"github.com/marmot-chat/marmot/messaging"
)

// Schema is the SQL schema for all built-in plugins. cmd/marmot
// passes it to store.Open so every connection carries the tables.
const Schema = `
CREATE TABLE IF NOT EXISTS karma (
    key   TEXT PRIMARY KEY,
    score INTEGER NOT NULL DEFAULT 0
);
`

// karmaKey validates a karma target and strips an optional leading
// "@" mention marker.
var karmaKey = mapper.Capture{
	Pattern: regexp.MustCompile(`^@?(\w+)$`),
	Group:   1,
}

// Karma tracks per-key scores in SQLite.
type Karma struct {
	store *store.Store
	reply messaging.Replier
}

// NewKarma creates the karma plugin over an open store. The store
// must have been opened with [Schema].
func NewKarma(st *store.Store, reply messaging.Replier) *Karma {
	return &Karma{store: st, reply: reply}
}

// Name implements plugin.Plugin.
func (k *Karma) Name() string { return "karma" }

// Setup implements plugin.Plugin. The up/down templates share the
// authorization path "change" (the "!" directive suppresses the
// derived prefix), so one policy line gates both mutations while
// plain lookups stay open.
func (k *Karma) Setup(reg *dispatch.Registry) error {
	templates := []struct {
		template string
		opts     mapper.Options
	}{
		{"karma up :key", mapper.Options{
			Action:       "up",
			AuthPath:     "!change",
			Requirements: map[string]any{"key": karmaKey},
		}},
		{"karma down :key", mapper.Options{
			Action:       "down",
			AuthPath:     "!change",
			Requirements: map[string]any{"key": karmaKey},
		}},
		{"karma :key", mapper.Options{
			Defaults: map[string]any{"key": false},
		}},
	}
	for _, t := range templates {
		if err := reg.Map(t.template, t.opts); err != nil {
			return err
		}
	}

	reg.Handle("karma", k.show)
	reg.Handle("up", k.adjustBy(+1))
	reg.Handle("down", k.adjustBy(-1))
	reg.Handle("usage", k.usage)
	return nil
}

func (k *Karma) show(msg *messaging.Message, params mapper.Params) error {
	key, ok := params.String("key")
	if !ok {
		// Bare "karma": the sender asks about themselves.
		key = msg.Source
	}

	score, err := k.score(key)
	if err != nil {
		return err
	}
	k.reply(msg.ReplyTo, fmt.Sprintf("karma for %s: %d", key, score))
	return nil
}

func (k *Karma) adjustBy(delta int) dispatch.HandlerFunc {
	return func(msg *messaging.Message, params mapper.Params) error {
		key, _ := params.String("key")
		score, err := k.adjust(key, delta)
		if err != nil {
			return err
		}
		k.reply(msg.ReplyTo, fmt.Sprintf("karma for %s: %d", key, score))
		return nil
	}
}

func (k *Karma) usage(msg *messaging.Message, params mapper.Params) error {
	k.reply(msg.ReplyTo, "usage: karma [key] | karma up <key> | karma down <key>")
	return nil
}

func (k *Karma) score(key string) (int, error) {
	ctx := context.Background()
	conn, err := k.store.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer k.store.Put(conn)

	var score int
	err = sqlitex.Execute(conn, `SELECT score FROM karma WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			score = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("karma: reading %s: %w", key, err)
	}
	return score, nil
}

func (k *Karma) adjust(key string, delta int) (int, error) {
	ctx := context.Background()
	conn, err := k.store.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer k.store.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO karma (key, score) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET score = score + ?`,
		&sqlitex.ExecOptions{Args: []any{key, delta, delta}})
	if err != nil {
		return 0, fmt.Errorf("karma: adjusting %s: %w", key, err)
	}

	var score int
	err = sqlitex.Execute(conn, `SELECT score FROM karma WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			score = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("karma: reading %s: %w", key, err)
	}
	return score, nil
}
