package chatlog

import "strings"

// styleRoles maps tags when loading a style transcript. Lookups are
// case-insensitive. Unlike the primary log, unknown tags are not dropped:
// they fall back to the system role, so annotation-like lines in a style
// file surface as additional system guidance.
var styleRoles = map[string]Role{
	"SYS":    RoleSystem,
	"SYSTEM": RoleSystem,
	TagUser:  RoleUser,
	TagLLM:   RoleAssistant,
}

// ParseStyle loads a style transcript: seed messages injected ahead of the
// first turn and never persisted to the live log. An empty path or a
// missing file yields no messages.
func ParseStyle(path string) ([]Message, error) {
	if path == "" {
		return nil, nil
	}
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	for _, e := range entries {
		role, ok := styleRoles[strings.ToUpper(e.tag)]
		if !ok {
			role = RoleSystem
		}
		msgs = append(msgs, Message{Role: role, Content: e.content})
	}
	return msgs, nil
}
