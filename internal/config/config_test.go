package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archrouter/gateway/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "arch_config_rendered.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesRoutingDefaults(t *testing.T) {
	path := writeConfig(t, `
llm_providers:
  - name: chat
    model: gpt-4o
    usage: general chat
`)
	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Arch-Router", settings.RouterModel)
	assert.Equal(t, "arch-router", settings.RouterProvider)
	require.Len(t, settings.Providers, 1)
	assert.Equal(t, "chat", settings.Providers[0].Name)
}

func TestLoadHonorsExplicitRoutingConfig(t *testing.T) {
	path := writeConfig(t, `
llm_providers: []
routing:
  model: custom-router
  llm_provider: custom-provider
`)
	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-router", settings.RouterModel)
	assert.Equal(t, "custom-provider", settings.RouterProvider)
}

func TestLoadExpandsEnvVarsWithDefault(t *testing.T) {
	t.Setenv("GATEWAY_TEST_MODEL", "")
	path := writeConfig(t, `
llm_providers:
  - name: chat
    model: ${GATEWAY_TEST_MODEL:-gpt-4o}
    usage: general chat
`)
	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.Providers[0].Model)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
