package chatlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "conversation.log")
}

func TestAppendParseRoundTrip(t *testing.T) {
	path := tempLogPath(t)

	writes := []struct {
		tag     string
		content string
	}{
		{TagUser, "hello there"},
		{TagLLM, "hi, how can I help?"},
		{TagUser, "content with a colon: and [brackets] inside"},
		{TagLLM, ""},
	}
	for _, w := range writes {
		require.NoError(t, Append(path, w.tag, w.content))
	}

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, len(writes))

	expectedRoles := []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant}
	for i, w := range writes {
		assert.Equal(t, expectedRoles[i], msgs[i].Role)
		assert.Equal(t, w.content, msgs[i].Content)
	}
}

func TestAppendCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "conversation.log")

	require.NoError(t, Append(path, TagUser, "first"))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Content)
}

func TestParseLogMissingFile(t *testing.T) {
	msgs, err := ParseLog(filepath.Join(t.TempDir(), "does-not-exist.log"))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseLogDropsUnknownTags(t *testing.T) {
	path := tempLogPath(t)
	content := "[2024-01-01T10:00:00] USER: hello\n" +
		"[2024-01-01T10:00:01] NOTE: an annotation invisible to replay\n" +
		"[2024-01-01T10:00:02] LLM: hi\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, msgs[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hi"}, msgs[1])
}

func TestParseLogTagsAreCaseSensitive(t *testing.T) {
	path := tempLogPath(t)
	content := "[2024-01-01T10:00:00] user: lowercase tag\n" +
		"[2024-01-01T10:00:01] USER: uppercase tag\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "uppercase tag", msgs[0].Content)
}

func TestParseLogMultilineEntry(t *testing.T) {
	path := tempLogPath(t)
	require.NoError(t, Append(path, TagUser, "line one\nline two\nline three"))
	require.NoError(t, Append(path, TagLLM, "reply"))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "line one\nline two\nline three", msgs[0].Content)
	assert.Equal(t, "reply", msgs[1].Content)
}

func TestParseLogContinuationOfDroppedEntryIsDropped(t *testing.T) {
	path := tempLogPath(t)
	content := "[2024-01-01T10:00:00] NOTE: first line\n" +
		"continuation of the note\n" +
		"[2024-01-01T10:00:01] USER: hello\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, msgs[0])
}

func TestParseLogIgnoresLeadingStrayLines(t *testing.T) {
	path := tempLogPath(t)
	content := "not a log line at all\n" +
		"[2024-01-01T10:00:00] USER: hello\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	msgs, err := ParseLog(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestScanEntryStart(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantTag     string
		wantContent string
		wantOK      bool
	}{
		{"simple", "[2024-01-01T10:00:00] USER: hello", "USER", "hello", true},
		{"content with colons and brackets", "[t] LLM: see [ref]: x:y", "LLM", "see [ref]: x:y", true},
		{"empty content", "[t] USER:", "USER", "", true},
		{"no brackets", "USER: hello", "", "", false},
		{"unclosed bracket", "[2024-01-01 USER: hello", "", "", false},
		{"no colon after tag", "[t] USER hello", "", "", false},
		{"leading whitespace", "  [t] USER: hi", "USER", "hi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, content, ok := scanEntryStart(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantContent, content)
		})
	}
}
