package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallacegibbon/stopgate/internal/skills"
)

func TestSetupOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	a, err := Setup(context.Background(), Options{Dir: dir, Lookuper: envconfig.MapLookuper(map[string]string{})})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dir, a.Dir)
	assert.False(t, a.Repo.Available())
	assert.Equal(t, dir, a.ProjectRoot())
	assert.False(t, a.Client.Available())

	o := a.Gate()
	assert.Equal(t, dir, o.Dir)
	assert.Equal(t, "ANTHROPIC_API_KEY", a.Verifier().CredentialName)
}

func TestSetupInRepository(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	sub := filepath.Join(root, "cmd")
	require.NoError(t, os.Mkdir(sub, 0o755))

	state := filepath.Join(t.TempDir(), "state.yaml")
	a, err := Setup(context.Background(), Options{Dir: sub, Lookuper: envconfig.MapLookuper(map[string]string{
		"ANTHROPIC_API_KEY":   "k",
		"CLAUDE_TRANSCRIPT":   "user: always run tests",
		"STOPGATE_STATE_FILE": state,
	})})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Repo.Available())
	assert.Equal(t, root, a.ProjectRoot())
	assert.True(t, a.Client.Available())

	p := a.Reflection(nil, &bytes.Buffer{})
	assert.Equal(t, "user: always run tests", p.Transcript)
	assert.Equal(t, filepath.Join(root, skills.DefaultPath), p.Skill.Path)
	assert.NotNil(t, p.VCS)
	assert.Equal(t, state, a.StateStore().Path)
}

func TestSetupInvalidProvider(t *testing.T) {
	_, err := Setup(context.Background(), Options{Dir: t.TempDir(), Lookuper: envconfig.MapLookuper(map[string]string{
		"STOPGATE_PROVIDER": "bard",
	})})
	assert.Error(t, err)
}

func TestSetupDebugAPI(t *testing.T) {
	a, err := Setup(context.Background(), Options{
		Dir:      t.TempDir(),
		DebugAPI: true,
		Lookuper: envconfig.MapLookuper(map[string]string{"STOPGATE_LOG_FILE": filepath.Join(t.TempDir(), "log")}),
	})
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.Client.Config.DebugAPI)
}
