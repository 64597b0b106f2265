// Package entity defines the core domain types for notification dispatch.
// It contains the message being sent, the credentials that select and authenticate
// channels, and the domain-specific errors shared by use cases and adapters.
package entity

import "strings"

// Message is a single notification to broadcast to every configured channel.
type Message struct {
	Title   string
	Content string
}

// Validate checks that the message has something to send.
// A title alone is enough; several vendors accept an empty body.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Title) == "" && strings.TrimSpace(m.Content) == "" {
		return &ValidationError{Field: "message", Message: "title or content is required"}
	}
	return nil
}

// DoubledNewlines returns the content with every newline doubled.
// Markdown renderers used by some vendors collapse single line breaks.
func (m Message) DoubledNewlines() string {
	return strings.ReplaceAll(m.Content, "\n", "\n\n")
}
