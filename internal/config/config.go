// Package config loads the fixed YAML configuration schema for parley.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
type Config struct {
	CharacterConfig CharacterConfig `yaml:"character_config"`
	PromptConfig    PromptConfig    `yaml:"prompt_config"`
}

type CharacterConfig struct {
	AgentConfig AgentConfig `yaml:"agent_config"`
}

type AgentConfig struct {
	LLMConfigs LLMConfigs `yaml:"llm_configs"`
}

type LLMConfigs struct {
	OllamaLLM OllamaLLM `yaml:"ollama_llm"`
}

// OllamaLLM holds backend connection parameters. APIKey is optional; when
// set, requests carry it as a bearer token.
type OllamaLLM struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	KeepAlive   int     `yaml:"keep_alive"`
	APIKey      string  `yaml:"api_key"`
}

// PromptConfig holds the prompt policy: a system prompt injected on the
// first turn only, a path to a style transcript seeded ahead of it, and a
// tail prompt appended to every outgoing request.
type PromptConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
	StyleLog     string `yaml:"style_log"`
	TailPrompt   string `yaml:"tail_prompt"`
}

// Load reads and parses the configuration file at path. Fields absent from
// the file keep their defaults: temperature 1.0, keep_alive -1, prompts
// empty.
func Load(path string) (Config, error) {
	cfg := Config{}
	cfg.CharacterConfig.AgentConfig.LLMConfigs.OllamaLLM.Temperature = 1.0
	cfg.CharacterConfig.AgentConfig.LLMConfigs.OllamaLLM.KeepAlive = -1

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Ollama returns the backend connection section.
func (c Config) Ollama() OllamaLLM {
	return c.CharacterConfig.AgentConfig.LLMConfigs.OllamaLLM
}

// Validate checks that the required backend fields are present.
func (c Config) Validate() error {
	if c.Ollama().BaseURL == "" {
		return fmt.Errorf("missing required config field: character_config.agent_config.llm_configs.ollama_llm.base_url")
	}
	if c.Ollama().Model == "" {
		return fmt.Errorf("missing required config field: character_config.agent_config.llm_configs.ollama_llm.model")
	}
	return nil
}
