package config

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"github.com/wallacegibbon/stopgate/internal/logging"
	"github.com/wallacegibbon/stopgate/internal/provider"
	"github.com/wallacegibbon/stopgate/internal/skills"
	"github.com/wallacegibbon/stopgate/internal/state"
)

const Version = "0.1.0"

// Env holds everything the hooks read from the environment
type Env struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	Provider        string `env:"STOPGATE_PROVIDER,default=anthropic"`
	BaseURL         string `env:"STOPGATE_BASE_URL"`
	Model           string `env:"STOPGATE_MODEL,default=claude-sonnet-4-20250514"`
	MaxTokens       int64  `env:"STOPGATE_MAX_TOKENS,default=2000"`
	DebugAPI        bool   `env:"STOPGATE_DEBUG_API,default=false"`

	Transcript string `env:"CLAUDE_TRANSCRIPT"`
	SkillFile  string `env:"STOPGATE_SKILL_FILE"`
	StateFile  string `env:"STOPGATE_STATE_FILE"`

	LogFile   string `env:"STOPGATE_LOG_FILE"`
	LogLevel  string `env:"STOPGATE_LOG_LEVEL,default=info"`
	LogFormat string `env:"STOPGATE_LOG_FORMAT,default=json"`
}

// LoadEnv reads Env through lookuper, or the process environment when nil
func LoadEnv(ctx context.Context, lookuper envconfig.Lookuper) (Env, error) {
	var env Env
	cfg := &envconfig.Config{Target: &env}
	if lookuper != nil {
		cfg.Lookuper = lookuper
	}
	if err := envconfig.ProcessWith(ctx, cfg); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// ProviderConfig selects the credential matching the configured provider
func (e Env) ProviderConfig() (provider.Config, error) {
	cfg := provider.Config{
		Provider:  e.Provider,
		BaseURL:   e.BaseURL,
		ModelName: e.Model,
		MaxTokens: e.MaxTokens,
		DebugAPI:  e.DebugAPI,
	}
	if err := cfg.Validate(); err != nil {
		return provider.Config{}, err
	}
	if cfg.Provider == "openai" {
		cfg.APIKey = e.OpenAIAPIKey
	} else {
		cfg.APIKey = e.AnthropicAPIKey
	}
	return cfg, nil
}

// SkillPath resolves the skill document, relative paths against projectRoot
func (e Env) SkillPath(projectRoot string) string {
	p := e.SkillFile
	if p == "" {
		p = skills.DefaultPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectRoot, p)
}

// StatePath resolves the reflection state file
func (e Env) StatePath() string {
	if e.StateFile != "" {
		return e.StateFile
	}
	return state.DefaultPath()
}

// Logging returns the logger configuration
func (e Env) Logging() logging.Config {
	return logging.Config{File: e.LogFile, Level: e.LogLevel, Format: e.LogFormat}
}

// Settings holds the gate binary's CLI configuration
type Settings struct {
	ShowVersion bool
	ShowHelp    bool
	DebugAPI    bool
	Dir         string
}

// Parse parses CLI flags and returns settings
func Parse(args []string, output io.Writer) (*Settings, error) {
	fs := flag.NewFlagSet("stopgate", flag.ContinueOnError)
	fs.SetOutput(output)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help information")
	debugAPI := fs.Bool("debug-api", false, "Log raw API requests and responses")
	dir := fs.String("dir", ".", "Project directory to check")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Settings{
		ShowVersion: *showVersion,
		ShowHelp:    *showHelp,
		DebugAPI:    *debugAPI,
		Dir:         *dir,
	}, nil
}
