package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingIsDisabled(t *testing.T) {
	r, err := Store{Path: filepath.Join(t.TempDir(), "state.yaml")}.Load()
	require.NoError(t, err)
	assert.False(t, r.Enabled)
	assert.Zero(t, r.Count)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "nested", "state.yaml")}
	r := Reflection{Enabled: true}
	r.Record(2, "2026-10-17")
	r.Record(1, "2026-10-18")
	require.NoError(t, store.Save(r))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, r, loaded)
	assert.Equal(t, 2, loaded.Count)
	assert.Equal(t, "2026-10-18", loaded.LastReflection)
	assert.Equal(t, 3, loaded.TotalApplied())
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enabled: [unclosed"), 0o644))

	_, err := Store{Path: path}.Load()
	assert.Error(t, err)
}

func TestSetEnabled(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "state.yaml")}

	r, err := store.SetEnabled(true)
	require.NoError(t, err)
	assert.True(t, r.Enabled)

	r, err = store.SetEnabled(false)
	require.NoError(t, err)
	assert.False(t, r.Enabled)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded.Enabled)
}

func TestRecordBoundsHistory(t *testing.T) {
	var r Reflection
	for i := 0; i < maxHistory+5; i++ {
		r.Record(1, fmt.Sprintf("day-%d", i))
	}
	assert.Len(t, r.History, maxHistory)
	assert.Equal(t, "day-5", r.History[0].Date)
	assert.Equal(t, maxHistory+5, r.Count)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "reflect-state.yaml", filepath.Base(DefaultPath()))
}
