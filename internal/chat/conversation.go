// Package chat implements conversation state and the interactive session
// loop.
package chat

import (
	"github.com/cgault/parley/internal/chatlog"
)

// Conversation holds the in-memory turn history plus the one-time seed
// messages, and computes the exact ordered message sequence to transmit
// each turn.
type Conversation struct {
	style        []chatlog.Message
	systemPrompt string
	tailPrompt   string

	history   []chatlog.Message
	firstTurn bool
}

// NewConversation creates a conversation seeded with a style transcript, an
// optional system prompt, and an optional tail prompt. history is the turn
// history replayed from the log. The seed messages are sent on the first
// turn of every session, including sessions resuming an existing log.
func NewConversation(style []chatlog.Message, systemPrompt, tailPrompt string, history []chatlog.Message) *Conversation {
	return &Conversation{
		style:        style,
		systemPrompt: systemPrompt,
		tailPrompt:   tailPrompt,
		history:      history,
		firstTurn:    true,
	}
}

// RecordUser appends the user's message to the turn history.
func (c *Conversation) RecordUser(content string) {
	c.history = append(c.history, chatlog.Message{Role: chatlog.RoleUser, Content: content})
}

// RecordAssistant appends the assistant's reply to the turn history and
// ends the first turn.
func (c *Conversation) RecordAssistant(content string) {
	c.history = append(c.history, chatlog.Message{Role: chatlog.RoleAssistant, Content: content})
	c.firstTurn = false
}

// RollbackLastUser removes the most recent user message from history after
// a failed backend call. The already-written log line is left alone: the
// log is an append-only audit trail, not a mirror of in-memory history.
func (c *Conversation) RollbackLastUser() {
	if n := len(c.history); n > 0 && c.history[n-1].Role == chatlog.RoleUser {
		c.history = c.history[:n-1]
	}
}

// BuildOutgoing computes the ordered message list for the next backend
// request. On the first turn the style transcript and the system prompt
// lead; afterwards only history is sent. A non-empty tail prompt is
// appended last on every turn. The result is computed fresh per request
// and never stored back into history.
func (c *Conversation) BuildOutgoing() []chatlog.Message {
	var out []chatlog.Message
	if c.firstTurn {
		out = append(out, c.style...)
		if c.systemPrompt != "" {
			out = append(out, chatlog.Message{Role: chatlog.RoleSystem, Content: c.systemPrompt})
		}
	}
	out = append(out, c.history...)
	if c.tailPrompt != "" {
		out = append(out, chatlog.Message{Role: chatlog.RoleSystem, Content: c.tailPrompt})
	}
	return out
}

// History returns the current turn history.
func (c *Conversation) History() []chatlog.Message {
	return c.history
}
