package config

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallacegibbon/stopgate/internal/provider"
	"github.com/wallacegibbon/stopgate/internal/skills"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", env.Provider)
	assert.Equal(t, provider.DefaultModel, env.Model)
	assert.Equal(t, int64(2000), env.MaxTokens)
	assert.Equal(t, "info", env.LogLevel)
	assert.Empty(t, env.AnthropicAPIKey)

	cfg, err := env.ProviderConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.CredentialName())
}

func TestLoadEnvValues(t *testing.T) {
	env, err := LoadEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"ANTHROPIC_API_KEY":   "ant",
		"OPENAI_API_KEY":      "oai",
		"STOPGATE_PROVIDER":   "openai",
		"STOPGATE_MODEL":      "gpt-4o",
		"STOPGATE_MAX_TOKENS": "512",
		"CLAUDE_TRANSCRIPT":   "user: hi",
		"STOPGATE_DEBUG_API":  "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "user: hi", env.Transcript)

	cfg, err := env.ProviderConfig()
	require.NoError(t, err)
	assert.Equal(t, "oai", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.ModelName)
	assert.Equal(t, int64(512), cfg.MaxTokens)
	assert.True(t, cfg.DebugAPI)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
}

func TestLoadEnvInvalid(t *testing.T) {
	_, err := LoadEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"STOPGATE_MAX_TOKENS": "lots",
	}))
	assert.Error(t, err)
}

func TestProviderConfigUnknown(t *testing.T) {
	_, err := Env{Provider: "bard"}.ProviderConfig()
	assert.Error(t, err)
}

func TestSkillPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", skills.DefaultPath), Env{}.SkillPath("/proj"))
	assert.Equal(t, "/abs/SKILL.md", Env{SkillFile: "/abs/SKILL.md"}.SkillPath("/proj"))
	assert.Equal(t, "/proj/docs/SKILL.md", Env{SkillFile: "docs/SKILL.md"}.SkillPath("/proj"))
}

func TestStatePath(t *testing.T) {
	assert.Equal(t, "/tmp/s.yaml", Env{StateFile: "/tmp/s.yaml"}.StatePath())
	assert.Equal(t, "reflect-state.yaml", filepath.Base(Env{}.StatePath()))
}

func TestParse(t *testing.T) {
	s, err := Parse([]string{"-debug-api", "-dir", "/work"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, s.DebugAPI)
	assert.Equal(t, "/work", s.Dir)
	assert.False(t, s.ShowVersion)

	_, err = Parse([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}
