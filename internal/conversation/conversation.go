// Package conversation holds the ordered, append-only message history sent
// to the remote assistant.
package conversation

import (
	"routineshell/pkg/routinetypes"
)

// Log is an append-only sequence of messages. Entries are never edited or
// removed. A Log is not safe for concurrent use.
type Log struct {
	entries []routinetypes.Message
}

// New creates a Log. A non-empty systemPrompt becomes the first entry.
func New(systemPrompt string) *Log {
	l := &Log{}
	if systemPrompt != "" {
		l.Append(routinetypes.RoleSystem, systemPrompt)
	}
	return l
}

// Append adds an entry at the end of the log.
func (l *Log) Append(role routinetypes.Role, content string) {
	l.entries = append(l.entries, routinetypes.Message{Role: role, Content: content})
}

// Snapshot returns a copy of the entries in order.
func (l *Log) Snapshot() []routinetypes.Message {
	out := make([]routinetypes.Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}
