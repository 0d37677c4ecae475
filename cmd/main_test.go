package main

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/lucasromero/github-review/internal/config"
	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLanguageOverride(t *testing.T) {
	newConfig := func(t *testing.T) *cfg.Config {
		t.Helper()
		config, err := cfg.LoadConfig(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)
		return config
	}

	t.Run("should switch and persist the override", func(t *testing.T) {
		localesDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(localesDir, "active.es.toml"), []byte(`
			[tool.get_pr_summary.description]
			other = "Obtiene solo el resumen de un pull request"
		`), 0644))

		trans, err := i18n.NewTranslations("en", localesDir)
		require.NoError(t, err)
		config := newConfig(t)

		require.NoError(t, applyLanguageOverride(config, trans, "es"))

		assert.Equal(t, "es", config.Language)
		assert.Contains(t, trans.GetMessage("tool.get_pr_summary.description", 0, nil), "Obtiene")

		reloaded, err := cfg.LoadConfig(config.PathFile)
		require.NoError(t, err)
		assert.Equal(t, "es", reloaded.Language)
	})

	t.Run("should do nothing without an override", func(t *testing.T) {
		trans, err := i18n.NewTranslations("en", t.TempDir())
		require.NoError(t, err)
		config := newConfig(t)

		require.NoError(t, applyLanguageOverride(config, trans, ""))

		assert.Equal(t, "en", config.Language)
	})

	t.Run("should reject a language without translations", func(t *testing.T) {
		trans, err := i18n.NewTranslations("en", t.TempDir())
		require.NoError(t, err)
		config := newConfig(t)

		require.Error(t, applyLanguageOverride(config, trans, "fr"))

		assert.Equal(t, "en", config.Language)
		reloaded, err := cfg.LoadConfig(config.PathFile)
		require.NoError(t, err)
		assert.Equal(t, "en", reloaded.Language)
	})
}
