package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "model_ensemble_voting.json", cfg.Artifacts.Ensemble)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: 9090
model_dir: artifacts
language: id
cache_size: 0
log:
  level: debug
  file: logs/app.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, filepath.Join(dir, "artifacts"), cfg.ModelDir)
	assert.Equal(t, "id", cfg.Language)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "logs/app.log"), cfg.Log.File)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultArtifactNames(), cfg.Artifacts)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "port: 70000\n"},
		{"bad language", "language: fr\n"},
		{"negative cache", "cache_size: -1\n"},
		{"empty artifact", "artifacts:\n  ensemble: \"\"\n"},
		{"unknown key", "colour: blue\n"},
		{"not yaml", "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
