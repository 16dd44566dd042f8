package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLogs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	return dir
}

func TestResolveLogPathForceNew(t *testing.T) {
	dir := makeLogs(t, "old.log")

	path, err := resolveLogPath(dir, "explicit.log", true, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)

	// --new wins over --log and skips the chooser
	assert.Equal(t, dir, filepath.Dir(path))
	assert.NotEqual(t, "old.log", filepath.Base(path))
	assert.True(t, strings.HasSuffix(path, ".log"))
	assert.NotContains(t, filepath.Base(path), ":")
}

func TestResolveLogPathExplicit(t *testing.T) {
	path, err := resolveLogPath("logs", "mine.log", false, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "mine.log", path)
}

func TestChooseLogPathNoLogs(t *testing.T) {
	dir := t.TempDir()

	path, err := chooseLogPath(dir, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestChooseLogPathSelectsExisting(t *testing.T) {
	dir := makeLogs(t, "a.log", "b.log", "c.log")
	out := &bytes.Buffer{}

	path, err := chooseLogPath(dir, strings.NewReader("2\n"), out)
	require.NoError(t, err)

	assert.Equal(t, "b.log", filepath.Base(path))
	assert.Contains(t, out.String(), "1. a.log")
	assert.Contains(t, out.String(), "0. New conversation")
}

func TestChooseLogPathZeroStartsNew(t *testing.T) {
	dir := makeLogs(t, "a.log")

	path, err := chooseLogPath(dir, strings.NewReader("0\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotEqual(t, "a.log", filepath.Base(path))
}

func TestChooseLogPathRepromptsOnInvalidInput(t *testing.T) {
	dir := makeLogs(t, "a.log")
	out := &bytes.Buffer{}

	path, err := chooseLogPath(dir, strings.NewReader("9\nnope\n1\n"), out)
	require.NoError(t, err)

	assert.Equal(t, "a.log", filepath.Base(path))
	assert.Contains(t, out.String(), "Invalid selection")
}

func TestChooseLogPathInputClosed(t *testing.T) {
	dir := makeLogs(t, "a.log")

	_, err := chooseLogPath(dir, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
}
