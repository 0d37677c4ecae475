package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should create a default config when none exists", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg, err := LoadConfig(tmpDir)

		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, defaultMaxPages, cfg.MaxPages)
		assert.Equal(t, defaultPerPage, cfg.PerPage)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout())

		_, err = os.Stat(filepath.Join(tmpDir, ".github-review", "config.json"))
		assert.NoError(t, err)
	})

	t.Run("should load an existing config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"language": "es",
			"max_pages": 3,
			"per_page": 50,
			"request_timeout_seconds": 5
		}`), 0644))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, 3, cfg.MaxPages)
		assert.Equal(t, 50, cfg.PerPage)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("should fill missing fields with defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"max_pages": 2}`), 0644))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.MaxPages)
		assert.Equal(t, defaultPerPage, cfg.PerPage)
		assert.Equal(t, "en", cfg.Language)
	})

	t.Run("should reject invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := LoadConfig(path)

		assert.Error(t, err)
	})

	t.Run("should reject out-of-range values", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"per_page": 500}`), 0644))

		_, err := LoadConfig(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "per_page")
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("should round-trip a config", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.json")

		cfg := &Config{
			Language:              "en",
			MaxPages:              4,
			PerPage:               25,
			RequestTimeoutSeconds: 10,
			PathFile:              path,
		}
		require.NoError(t, SaveConfig(cfg))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("should refuse to save without a path", func(t *testing.T) {
		cfg := &Config{
			Language:              "en",
			MaxPages:              4,
			PerPage:               25,
			RequestTimeoutSeconds: 10,
		}
		assert.Error(t, SaveConfig(cfg))
	})

	t.Run("should refuse to save an invalid config", func(t *testing.T) {
		cfg := &Config{Language: "", MaxPages: 1, PerPage: 1, RequestTimeoutSeconds: 1, PathFile: "x.json"}
		assert.Error(t, SaveConfig(cfg))
	})
}
