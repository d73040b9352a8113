// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging defines the message surface consumed by the
// command router.
//
// [Message] is the unit of dispatch: the raw text line, the identity
// that sent it, the target a reply should go to, and whether the
// exchange is private. The router and the template matcher read these
// four fields and nothing else — transports (IRC, Matrix, the console
// harness in cmd/marmot) construct Messages however they like.
//
// [ParseLine] implements the console transport's line format:
//
//	alice: karma for bob     (public message from alice)
//	*alice: karma for bob    (private message from alice)
//
// Public messages reply to the channel; private messages reply to the
// sender. Handlers respond through a [Replier], which keeps plugin
// code independent of the transport.
package messaging
