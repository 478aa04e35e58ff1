package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{APIKey: "k"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, DefaultModel, cfg.ModelName)
	assert.Equal(t, int64(DefaultMaxTokens), cfg.MaxTokens)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.CredentialName())

	cfg = Config{Provider: "openai"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.CredentialName())
}

func TestConfigValidateUnknownProvider(t *testing.T) {
	cfg := Config{Provider: "gemini"}
	assert.Error(t, cfg.Validate())
}

func TestCompleteWithoutCredential(t *testing.T) {
	called := false
	c := &Client{Generator: GeneratorFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})}

	res := c.Complete(context.Background(), "hi")
	assert.True(t, res.Unavailable)
	assert.ErrorIs(t, res.Err, ErrNoCredential)
	assert.False(t, called, "no call may be attempted without a credential")
}

func TestCompleteSuccess(t *testing.T) {
	c := New(Config{APIKey: "k"}, nil, nil)
	c.Generator = GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	res := c.Complete(context.Background(), "hi")
	assert.False(t, res.Unavailable)
	assert.NoError(t, res.Err)
	assert.Equal(t, "echo: hi", res.Text)
}

func TestCompleteFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		gen  GeneratorFunc
	}{
		{"transport error", func(context.Context, string) (string, error) { return "", errors.New("429 rate limited") }},
		{"panic", func(context.Context, string) (string, error) { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{APIKey: "k"}, nil, nil)
			c.Generator = tt.gen
			res := c.Complete(context.Background(), "hi")
			assert.True(t, res.Unavailable)
			assert.Error(t, res.Err)
		})
	}
}

func TestCompleteEmptyTextIsReturned(t *testing.T) {
	c := New(Config{APIKey: "k"}, nil, nil)
	c.Generator = GeneratorFunc(func(context.Context, string) (string, error) {
		return "  ", nil
	})

	res := c.Complete(context.Background(), "hi")
	assert.False(t, res.Unavailable)
	assert.NoError(t, res.Err)
	assert.Equal(t, "  ", res.Text)
}

func TestCreateProvider(t *testing.T) {
	for _, cfg := range []Config{
		{Provider: "anthropic", APIKey: "k"},
		{Provider: "openai", APIKey: "k", BaseURL: "https://api.openai.com/v1"},
		{Provider: "openai", APIKey: "k", BaseURL: "http://localhost:11434/v1"},
	} {
		p, err := CreateProvider(cfg, nil)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
}
