// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/marmot-chat/marmot/lib/dispatch"
	"github.com/marmot-chat/marmot/lib/mapper"
	"github.com/marmot-chat/marmot/messaging"
)

// urlValue accepts a bare URL or one wrapped in IRC-style angle
// brackets; the capture group strips the brackets.
var urlValue = regexp.MustCompile(`^<?(https?://[^\s>]+)>?$`)

var urlsLimit = regexp.MustCompile(`^\d+$`)

// URLs keeps an in-memory list of recently shared links per channel.
// State is process-local; dispatch is single-threaded, so no locking.
type URLs struct {
	reply  messaging.Replier
	recent map[string][]string // channel → links, newest first
}

// NewURLs creates the urls plugin.
func NewURLs(reply messaging.Replier) *URLs {
	return &URLs{reply: reply, recent: make(map[string][]string)}
}

// Name implements plugin.Plugin.
func (u *URLs) Name() string { return "urls" }

// Setup implements plugin.Plugin. The add/search templates must come
// before the bare "urls :channel" listing — templates are tried in
// registration order.
func (u *URLs) Setup(reg *dispatch.Registry) error {
	if err := reg.Map("urls add :channel :url", mapper.Options{
		Action:       "add",
		Requirements: map[string]any{"url": urlValue},
	}); err != nil {
		return err
	}
	if err := reg.Map("urls search :channel :limit :string", mapper.Options{
		Action:       "search",
		Defaults:     map[string]any{"limit": "4"},
		Requirements: map[string]any{"limit": urlsLimit},
	}); err != nil {
		return err
	}
	if err := reg.Map("urls :channel", mapper.Options{}); err != nil {
		return err
	}

	reg.Handle("add", u.add)
	reg.Handle("search", u.search)
	reg.Handle("urls", u.list)
	reg.Handle("usage", u.usage)
	return nil
}

func (u *URLs) add(msg *messaging.Message, params mapper.Params) error {
	channel, _ := params.String("channel")
	url, _ := params.String("url")
	u.recent[channel] = append([]string{url}, u.recent[channel]...)
	u.reply(msg.ReplyTo, fmt.Sprintf("noted %s in %s", url, channel))
	return nil
}

func (u *URLs) search(msg *messaging.Message, params mapper.Params) error {
	channel, _ := params.String("channel")
	needle, _ := params.String("string")
	limitText, _ := params.String("limit")
	limit, err := strconv.Atoi(limitText)
	if err != nil {
		// The requirement pattern guarantees digits; a failure here
		// is a registration bug.
		return fmt.Errorf("urls: limit %q: %w", limitText, err)
	}

	var hits []string
	for _, url := range u.recent[channel] {
		if strings.Contains(url, needle) {
			hits = append(hits, url)
			if len(hits) == limit {
				break
			}
		}
	}
	if len(hits) == 0 {
		u.reply(msg.ReplyTo, fmt.Sprintf("no urls matching %q in %s", needle, channel))
		return nil
	}
	u.reply(msg.ReplyTo, strings.Join(hits, " "))
	return nil
}

func (u *URLs) list(msg *messaging.Message, params mapper.Params) error {
	channel, _ := params.String("channel")
	urls := u.recent[channel]
	if len(urls) == 0 {
		u.reply(msg.ReplyTo, fmt.Sprintf("no urls seen in %s", channel))
		return nil
	}
	u.reply(msg.ReplyTo, strings.Join(urls, " "))
	return nil
}

func (u *URLs) usage(msg *messaging.Message, params mapper.Params) error {
	u.reply(msg.ReplyTo, "usage: urls <channel> | urls add <channel> <url> | urls search <channel> [limit] <text>")
	return nil
}
