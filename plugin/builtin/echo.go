// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"regexp"
	"strings"

	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/messaging"
)

var sayVolume = regexp.MustCompile(`^(?:loudly|quietly)$`)

// Echo repeats messages back. The "say" template demonstrates a
// bracketed optional parameter constrained by a requirement.
type Echo struct {
	reply messaging.Replier
}

// NewEcho creates the echo plugin.
func NewEcho(reply messaging.Replier) *Echo {
	return &Echo{reply: reply}
}

// Name implements plugin.Plugin.
func (e *Echo) Name() string { return "echo" }

// Setup implements plugin.Plugin.
func (e *Echo) Setup(reg *dispatch.Registry) error {
	if err := reg.Map("echo *rest", mapper.Options{}); err != nil {
		return err
	}
	if err := reg.Map("say [:volume] *rest", mapper.Options{
		Action:       "say",
		Requirements: map[string]any{"volume": sayVolume},
	}); err != nil {
		return err
	}

	reg.Handle("echo", e.echo)
	reg.Handle("say", e.say)
	reg.Handle("usage", e.usage)
	return nil
}

func (e *Echo) echo(msg *messaging.Message, params mapper.Params) error {
	rest, _ := params.Multi("rest")
	e.reply(msg.ReplyTo, rest.Text)
	return nil
}

func (e *Echo) say(msg *messaging.Message, params mapper.Params) error {
	rest, _ := params.Multi("rest")
	text := rest.Text
	switch volume, _ := params.String("volume"); volume {
	case "loudly":
		text = strings.ToUpper(text) + "!"
	case "quietly":
		text = strings.ToLower(text)
	}
	e.reply(msg.ReplyTo, text)
	return nil
}

func (e *Echo) usage(msg *messaging.Message, params mapper.Params) error {
	e.reply(msg.ReplyTo, "usage: echo <text> | say [loudly|quietly] <text>")
	return nil
}
