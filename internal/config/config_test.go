package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DENYLIST_URL", "https://lists.example/deny.txt")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDenylistURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DENYLIST_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
discord_token: from-file
mode: AUDIT
default_language: de
denylist:
  url: https://lists.example/file.txt
  refresh_seconds: 0
  expand_idn: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DENYLIST_URL", "https://lists.example/env.txt")
	t.Setenv("DENYLIST_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.DiscordToken)
	assert.Equal(t, "https://lists.example/env.txt", cfg.Denylist.URL, "env should override file url")
	assert.Equal(t, 3600, cfg.Denylist.RefreshSeconds)
	assert.Equal(t, 5, cfg.Denylist.MaxRetries)
	assert.True(t, cfg.Denylist.ExpandIDN)
	assert.Equal(t, "audit", cfg.Mode)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}
