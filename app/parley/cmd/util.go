package cmd

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// resolveLogPath applies the command-line precedence: --new always creates
// a fresh log, an explicit --log is used as-is, and otherwise the user
// picks interactively from the logs directory.
func resolveLogPath(logsDir, explicit string, forceNew bool, in io.Reader, out io.Writer) (string, error) {
	switch {
	case forceNew:
		return newLogPath(logsDir), nil
	case explicit != "":
		return explicit, nil
	default:
		return chooseLogPath(logsDir, in, out)
	}
}

// newLogPath names a fresh log after the current time, with colons made
// filename-safe.
func newLogPath(logsDir string) string {
	stamp := strings.ReplaceAll(time.Now().Format("2006-01-02T15:04:05"), ":", "-")
	return filepath.Join(logsDir, stamp+".log")
}

// chooseLogPath presents a numbered menu of existing logs, with 0 starting
// a new conversation. It re-prompts until the selection is valid. When no
// logs exist yet, a fresh log is created without prompting.
func chooseLogPath(logsDir string, in io.Reader, out io.Writer) (string, error) {
	logs, err := filepath.Glob(filepath.Join(logsDir, "*.log"))
	if err != nil {
		return "", fmt.Errorf("failed to list logs in %s: %w", logsDir, err)
	}
	if len(logs) == 0 {
		return newLogPath(logsDir), nil
	}
	sort.Strings(logs)

	fmt.Fprintln(out, "Choose a conversation log to load:")
	for i, fp := range logs {
		fmt.Fprintf(out, "  %d. %s\n", i+1, filepath.Base(fp))
	}
	fmt.Fprintln(out, "  0. New conversation")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "number> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read selection: %w", err)
			}
			return "", fmt.Errorf("input closed before a log was chosen")
		}
		sel := strings.TrimSpace(scanner.Text())
		if sel == "0" {
			return newLogPath(logsDir), nil
		}
		if n, err := strconv.Atoi(sel); err == nil && n >= 1 && n <= len(logs) {
			return logs[n-1], nil
		}
		fmt.Fprintln(out, "Invalid selection, try again.")
	}
}
