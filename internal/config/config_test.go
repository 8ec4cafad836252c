package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Vault.Root)
	assert.Equal(t, "Articles", cfg.Vault.ArticlesDir)
	assert.Equal(t, "Authors", cfg.Vault.AuthorsDir)
	assert.Equal(t, "Inbox", cfg.Vault.InboxDir)
	assert.Equal(t, 5, cfg.Enrich.MaxTags)
	assert.Equal(t, 5, cfg.Enrich.MaxRelated)
	assert.True(t, cfg.CreateAuthors())
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipmark.yaml")
	content := `
vault:
  root: /vault
  articles_dir: Clippings
ai:
  provider: openai
  model: gpt-4o-mini
  api_key: from-file
enrich:
  tag_prefix: research/
  max_tags: 3
  create_authors: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("CLIPMARK_API_KEY", "from-env")
	t.Setenv("CLIPMARK_AI_PROVIDER", "gemini")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/vault", cfg.Vault.Root)
	assert.Equal(t, "Clippings", cfg.Vault.ArticlesDir)
	// Unset fields still get defaults.
	assert.Equal(t, "Authors", cfg.Vault.AuthorsDir)
	assert.Equal(t, 3, cfg.Enrich.MaxTags)
	assert.Equal(t, "research/", cfg.Enrich.TagPrefix)
	assert.False(t, cfg.CreateAuthors())

	// Environment wins over the file.
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}
