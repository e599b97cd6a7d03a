package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://pouch-account.oreem.com", cfg.FrontAccounting.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.FrontAccounting.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
frontaccounting:
  base_url: http://localhost:9000
server:
  port: 9090
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.FrontAccounting.BaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.FrontAccounting.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POUCH_GEMINI_API_KEY", "test-key")
	t.Setenv("POUCH_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
	require.NoError(t, cfg.ValidateGemini())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.FrontAccounting.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg, err = Load("")
	require.NoError(t, err)
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateGemini(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateGemini())

	cfg.Gemini.APIKey = "key"
	assert.NoError(t, cfg.ValidateGemini())
}
