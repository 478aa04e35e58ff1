package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"charm.land/fantasy"
	"go.uber.org/zap"
)

// ErrNoCredential is reported when no API key is configured
var ErrNoCredential = errors.New("no API key configured")

// Generator sends a single prompt and returns the model's text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Completion is the outcome of a call. Unavailable means the model could not
// be reached and the caller should skip its step without blocking; Err says
// why. A reachable model may still return empty Text.
type Completion struct {
	Text        string
	Unavailable bool
	Err         error
}

// Client wraps a completion service with a fixed model and token budget
type Client struct {
	Config    Config
	Generator Generator
	Logger    *zap.Logger
}

// New creates a client that talks to the configured provider through
// fantasy. httpClient may be nil.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		Config:    cfg,
		Generator: &fantasyGenerator{cfg: cfg, httpClient: httpClient},
		Logger:    logger,
	}
}

// Available reports whether a credential is configured
func (c *Client) Available() bool {
	return c != nil && c.Config.APIKey != ""
}

// Complete sends prompt to the model. It never returns a raw error or
// panics; every failure comes back as an unavailable Completion.
func (c *Client) Complete(ctx context.Context, prompt string) (res Completion) {
	if !c.Available() {
		return Completion{Unavailable: true, Err: ErrNoCredential}
	}

	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("completion panicked", zap.Any("panic", r))
			res = Completion{Unavailable: true, Err: fmt.Errorf("completion panicked: %v", r)}
		}
	}()

	c.Logger.Debug("completion request",
		zap.String("provider", c.Config.Provider),
		zap.String("model", c.Config.ModelName),
		zap.Int("prompt_chars", len(prompt)))

	text, err := c.Generator.Generate(ctx, prompt)
	if err != nil {
		c.Logger.Warn("completion failed", zap.Error(err))
		return Completion{Unavailable: true, Err: err}
	}
	// Callers decide what an empty answer means
	if strings.TrimSpace(text) == "" {
		c.Logger.Warn("completion returned no text")
	}
	return Completion{Text: text}
}

type fantasyGenerator struct {
	cfg        Config
	httpClient *http.Client
}

func (g *fantasyGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	provider, err := CreateProvider(g.cfg, g.httpClient)
	if err != nil {
		return "", fmt.Errorf("failed to create provider: %w", err)
	}
	model, err := provider.LanguageModel(ctx, g.cfg.ModelName)
	if err != nil {
		return "", fmt.Errorf("failed to create language model: %w", err)
	}

	agent := fantasy.NewAgent(model)
	maxTokens := g.cfg.MaxTokens

	var text strings.Builder
	call := fantasy.AgentStreamCall{
		Prompt:          prompt,
		MaxOutputTokens: &maxTokens,
	}
	call.OnTextDelta = func(id, delta string) error {
		text.WriteString(delta)
		return nil
	}

	if _, err := agent.Stream(ctx, call); err != nil {
		return "", err
	}
	return text.String(), nil
}
