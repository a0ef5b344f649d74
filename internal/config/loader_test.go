package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.NotEmpty(t, cfg.RedactorPolicies)
	assert.NotEmpty(t, cfg.PricingTable)
}

func TestLoad_UserYAMLOverridesServerAddr(t *testing.T) {
	dir := t.TempDir()
	yamlContent := "server:\n  addr: \":9999\"\n  store_path: \"./custom\"\n  workdir_root: \"./custom-workdir\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "governor.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "./custom", cfg.Server.StorePath)
}

func TestLoad_UserPolicyOverridesBuiltinByID(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `redactor:
  policies:
    - id: builtin-pii-low-ipv4
      name: "IPv4 addresses"
      type: pii
      enabled: true
      patterns:
        - '\b(?:\d{1,3}\.){3}\d{1,3}\b'
      action: redact
      severity: low
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "governor.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	var found bool
	for _, p := range cfg.RedactorPolicies {
		if p.ID == "builtin-pii-low-ipv4" {
			found = true
			assert.True(t, p.Enabled) // default is disabled; user override enables it
			assert.Equal(t, "redact", string(p.Action))
		}
	}
	assert.True(t, found)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("GOVERNOR_ADDR", ":7777")
	dir := t.TempDir()
	yamlContent := "server:\n  addr: \"${GOVERNOR_ADDR}\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "governor.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestLoad_InvalidPolicyType_FailsValidation(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `redactor:
  policies:
    - id: custom-bad
      name: "bad"
      type: nonsense
      enabled: true
      patterns: ["x"]
      action: redact
      severity: low
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "governor.yaml"), []byte(yamlContent), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
