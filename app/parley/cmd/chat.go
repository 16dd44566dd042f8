package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/cgault/parley/internal/backend"
	"github.com/cgault/parley/internal/chat"
	"github.com/cgault/parley/internal/chatlog"
	appconfig "github.com/cgault/parley/internal/config"
	"github.com/cgault/parley/internal/telemetry"
)

var (
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := appconfig.Load(config.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      config.TelemetryEnabled,
		OTLPEndpoint: config.OTLPEndpoint,
		Version:      versionInfo.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(ctx); err != nil {
			log.Printf("failed to shut down telemetry: %v", err)
		}
	}()

	logPath, err := resolveLogPath(config.LogsDir, config.LogPath, config.NewConversation, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	styleMsgs, err := chatlog.ParseStyle(cfg.PromptConfig.StyleLog)
	if err != nil {
		return fmt.Errorf("failed to load style transcript: %w", err)
	}
	history, err := chatlog.ParseLog(logPath)
	if err != nil {
		return fmt.Errorf("failed to replay conversation log: %w", err)
	}

	printBanner(os.Stdout, cfg, logPath, len(styleMsgs))

	ollama := cfg.Ollama()
	client := backend.New(backend.Config{
		BaseURL:     ollama.BaseURL,
		Model:       ollama.Model,
		Temperature: ollama.Temperature,
		KeepAlive:   ollama.KeepAlive,
	}, httpClientFor(ctx, ollama.APIKey))

	conversation := chat.NewConversation(styleMsgs, cfg.PromptConfig.SystemPrompt, cfg.PromptConfig.TailPrompt, history)
	session := chat.NewSession(conversation, client, logPath, os.Stdin, os.Stdout, provider.Tracer())
	if err := session.Run(ctx); err != nil {
		return err
	}

	resolved, err := filepath.Abs(logPath)
	if err != nil {
		resolved = logPath
	}
	fmt.Printf("Conversation ended, log saved -> %s\n", resolved)
	return nil
}

// httpClientFor returns the HTTP client for the backend: the default when
// no API key is configured, or a bearer-token client otherwise.
func httpClientFor(ctx context.Context, apiKey string) *http.Client {
	if apiKey == "" {
		return nil
	}
	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: apiKey},
	)
	return oauth2.NewClient(ctx, tokenSource)
}

func printBanner(w io.Writer, cfg appconfig.Config, logPath string, styleCount int) {
	fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("model: %s | log: %s", cfg.Ollama().Model, filepath.Base(logPath))))
	if styleCount > 0 {
		fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("style transcript: %d seed messages", styleCount)))
	}
	if cfg.PromptConfig.SystemPrompt != "" {
		fmt.Fprintln(w, noteStyle.Render("system prompt will be injected on the first turn"))
	}
	if cfg.PromptConfig.TailPrompt != "" {
		fmt.Fprintln(w, noteStyle.Render("tail prompt will be appended to every request"))
	}
}
