package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cgault/parley/internal/chatlog"
	"github.com/cgault/parley/internal/telemetry"
)

// Completer produces an assistant reply for an ordered message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []chatlog.Message) (string, error)
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Session drives the strictly sequential turn loop for one conversation.
// It owns the log file for its lifetime; no other writer is expected.
type Session struct {
	conversation *Conversation
	completer    Completer
	logPath      string

	in  *bufio.Scanner
	out io.Writer

	tracer    trace.Tracer
	sessionID string
	turnIndex int
}

// NewSession creates a session over the given conversation. in and out are
// the line-buffered console streams.
func NewSession(conversation *Conversation, completer Completer, logPath string, in io.Reader, out io.Writer, tracer trace.Tracer) *Session {
	return &Session{
		conversation: conversation,
		completer:    completer,
		logPath:      logPath,
		in:           bufio.NewScanner(in),
		out:          out,
		tracer:       tracer,
		sessionID:    telemetry.NewSessionID(),
	}
}

// Run reads turns until input ends or the user types an exit keyword.
// A failed backend call is reported and rolled back from history without
// ending the session; the user's line stays in the log, which is the
// append-only record of what was said. A log write failure ends the
// session, since the log is the system of record.
func (s *Session) Run(ctx context.Context) error {
	for {
		fmt.Fprint(s.out, promptStyle.Render("you>")+" ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}
		input := strings.TrimSpace(s.in.Text())
		if isExitKeyword(input) {
			return nil
		}

		s.conversation.RecordUser(input)
		if err := chatlog.Append(s.logPath, chatlog.TagUser, input); err != nil {
			return fmt.Errorf("failed to persist user message: %w", err)
		}

		reply, err := s.complete(ctx, s.conversation.BuildOutgoing())
		if err != nil {
			fmt.Fprintln(s.out, warnStyle.Render(fmt.Sprintf("request failed: %v", err)))
			s.conversation.RollbackLastUser()
			continue
		}

		fmt.Fprintf(s.out, "%s %s\n\n", replyStyle.Render("llm>"), reply)
		s.conversation.RecordAssistant(reply)
		if err := chatlog.Append(s.logPath, chatlog.TagLLM, reply); err != nil {
			return fmt.Errorf("failed to persist assistant message: %w", err)
		}
	}
}

// complete wraps one backend call in a trace span carrying the turn's
// identity and size.
func (s *Session) complete(ctx context.Context, outgoing []chatlog.Message) (string, error) {
	s.turnIndex++
	ctx, span := s.tracer.Start(ctx, "chat.turn", trace.WithAttributes(
		attribute.String("session.id", s.sessionID),
		attribute.String("turn.id", telemetry.NewTurnID()),
		attribute.Int("turn.index", s.turnIndex),
		attribute.Int("turn.outgoing_messages", len(outgoing)),
	))
	defer span.End()

	reply, err := s.completer.Complete(ctx, outgoing)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.Int("turn.reply_bytes", len(reply)))
	return reply, nil
}

func isExitKeyword(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
