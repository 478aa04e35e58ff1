package provider

import (
	"fmt"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 2000
)

// Config holds the provider configuration
type Config struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Provider  string // "anthropic" or "openai"
	MaxTokens int64
	DebugAPI  bool
}

// Validate checks the provider type and fills defaults. A missing API key is
// not an error: the client reports itself unavailable instead.
func (c *Config) Validate() error {
	if c.Provider == "" {
		c.Provider = "anthropic"
	}
	if c.Provider != "anthropic" && c.Provider != "openai" {
		return fmt.Errorf("unknown provider type: %s (supported: anthropic, openai)", c.Provider)
	}
	if c.Provider == "openai" && c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.ModelName == "" {
		c.ModelName = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return nil
}

// CredentialName names the environment variable that holds the key for c
func (c Config) CredentialName() string {
	if c.Provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}
