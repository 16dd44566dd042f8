package cmd

var config = Config{}

// Config holds command-line options, populated by flags and environment
// variables.
type Config struct {
	ConfigPath string

	// Log selection options
	LogPath         string
	NewConversation bool
	LogsDir         string

	// Telemetry config
	TelemetryEnabled bool
	OTLPEndpoint     string
}
