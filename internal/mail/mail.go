// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package mail provides the outbound mail collaborator.
package mail

import "context"

// Body content types.
const (
	ContentTypeHTML  = "text/html"
	ContentTypePlain = "text/plain"
)

// Message is a single outbound mail.
type Message struct {
	Subject     string
	Recipients  []string
	Body        string
	ContentType string
}

// Sender dispatches messages to a mail backend.
type Sender interface {
	// Send delivers the message. A nil return means the backend accepted
	// it, not that it reached an inbox.
	Send(ctx context.Context, msg Message) error
}
