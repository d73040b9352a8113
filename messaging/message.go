// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"strings"
)

// Message is one incoming chat line as seen by the router. Values are
// immutable once constructed: dispatch never mutates a Message, and
// handlers receive the same value the matcher saw.
type Message struct {
	// Text is the raw message body, exactly as typed. Templates match
	// against the full text, not a prefix.
	Text string

	// Source identifies the sender (a nick or user ID). The
	// authorization oracle keys policies on this identity.
	Source string

	// ReplyTo is where a response should be sent: the channel for
	// public messages, the sender for private ones.
	ReplyTo string

	// Private reports whether the message arrived outside any shared
	// channel. Templates may restrict themselves to one context.
	Private bool
}

// Replier sends a response line to a reply target. Plugins hold a
// Replier instead of a transport handle so the same plugin code runs
// under any transport.
type Replier func(target, text string)

// ParseLine parses one console-transport line into a Message. The
// format is "nick: text" for a public message in channel, or
// "*nick: text" for a private message (the reply target becomes the
// sender). Returns an error when the nick separator is missing or the
// nick is empty.
func ParseLine(line, channel string) (*Message, error) {
	private := strings.HasPrefix(line, "*")
	if private {
		line = line[1:]
	}

	nick, text, found := strings.Cut(line, ":")
	if !found {
		return nil, fmt.Errorf("messaging: line %q: missing \"nick:\" prefix", line)
	}
	nick = strings.TrimSpace(nick)
	if nick == "" {
		return nil, fmt.Errorf("messaging: line %q: empty nick", line)
	}

	replyTo := channel
	if private {
		replyTo = nick
	}

	return &Message{
		Text:    strings.TrimSpace(text),
		Source:  nick,
		ReplyTo: replyTo,
		Private: private,
	}, nil
}
