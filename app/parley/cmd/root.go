package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Persistent command-line chat with a local LLM endpoint",
	Long: `Parley is a command-line conversational client for OpenAI-compatible
chat endpoints such as Ollama. Conversations are persisted to plain-text,
replayable log files; a style transcript, a one-time system prompt, and a
per-turn tail prompt shape each outgoing request.`,
	PreRun: loadRootConfig,
	RunE:   runChat,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(cmd *cobra.Command, _ []string) {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if path := os.Getenv("PARLEY_CONFIG"); path != "" && !cmd.Flags().Changed("config") {
		config.ConfigPath = path
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.ConfigPath, "config", "config.yaml", "Path to the YAML configuration file")
	rootCmd.Flags().StringVar(&config.LogPath, "log", "", "Use an explicit conversation log file")
	rootCmd.Flags().BoolVar(&config.NewConversation, "new", false, "Start a new conversation, ignoring existing logs")
	rootCmd.Flags().StringVar(&config.LogsDir, "logs-dir", "logs", "Directory holding conversation logs")
	rootCmd.Flags().BoolVar(&config.TelemetryEnabled, "trace", false, "Enable OpenTelemetry tracing")
	rootCmd.Flags().StringVar(&config.OTLPEndpoint, "otlp-endpoint", "", "OTLP/HTTP endpoint for trace export")
}
