// Package chatlog reads and writes the append-only conversation log format:
// one entry per line, shaped "[<timestamp>] <TAG>: <content>". The log is
// both the persistence layer and a human-auditable transcript, so parsing
// anchors only on the fixed prefix and tolerates free-form content.
package chatlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Role is the semantic sender category sent to the backend, distinct from
// the literal tag written in a log line.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged unit of conversation content. Immutable once
// created.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Tags written to the primary conversation log.
const (
	TagUser = "USER"
	TagLLM  = "LLM"
)

// primaryRoles maps tags when replaying the primary conversation log.
// Lookups are case-sensitive; entries with any other tag are dropped so
// that future annotation tags do not corrupt replay.
var primaryRoles = map[string]Role{
	TagUser: RoleUser,
	TagLLM:  RoleAssistant,
}

const timestampLayout = "2006-01-02T15:04:05"

// Append durably writes one entry to the log at path, creating parent
// directories as needed. The log only ever grows; nothing is rewritten.
func Append(path, tag, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log for append: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format(timestampLayout), tag, content)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log: %w", err)
	}
	return nil
}

// ParseLog reconstructs conversation history from the log at path. A
// missing file is an empty conversation. Entries with unrecognized tags
// are silently skipped.
func ParseLog(path string) ([]Message, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	for _, e := range entries {
		role, ok := primaryRoles[e.tag]
		if !ok {
			continue
		}
		msgs = append(msgs, Message{Role: role, Content: e.content})
	}
	return msgs, nil
}

// entry is a raw log entry before tag mapping.
type entry struct {
	tag     string
	content string
}

// readEntries scans the file at path into raw entries. A line matching the
// entry prefix starts a new entry; any other line continues the previous
// entry's content, so content written with embedded newlines round-trips.
// Lines before the first entry are dropped.
func readEntries(path string) ([]entry, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// No file yet means no history
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(string(b), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		// Drop the artifact of the trailing newline
		lines = lines[:n-1]
	}

	var entries []entry
	for _, line := range lines {
		if tag, content, ok := scanEntryStart(line); ok {
			entries = append(entries, entry{tag: tag, content: content})
			continue
		}
		if len(entries) > 0 {
			entries[len(entries)-1].content += "\n" + line
		}
	}
	return entries, nil
}

// scanEntryStart matches the fixed entry prefix: a bracketed timestamp, a
// word tag, and a colon. It returns the tag and the remainder-of-line
// content, which may itself contain further colons or bracketed text.
func scanEntryStart(line string) (tag, content string, ok bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") {
		return "", "", false
	}
	end := strings.Index(s, "]")
	if end < 0 {
		return "", "", false
	}
	rest := strings.TrimLeft(s[end+1:], " \t")

	i := 0
	for i < len(rest) && isWordByte(rest[i]) {
		i++
	}
	if i == 0 || i >= len(rest) || rest[i] != ':' {
		return "", "", false
	}
	return rest[:i], strings.TrimLeft(rest[i+1:], " \t"), true
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}
