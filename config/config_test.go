package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `env:
  env: test
  serviceName: tienda
  debug: true
  log:
    pretty: true
    level: debug

http:
  port: 5000
  timeouts:
    readTimeout: 10s

jwt:
  key: test-signing-key
  issuer: TiendaApi
  audience: TiendaApiUser
  durationInMinutes: 15
  refreshDays: 10
`

func writeConfigFile(t *testing.T, name, content string) {
	t.Helper()
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	writeConfigFile(t, "test.yaml", testYAML)

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "tienda", cfg.Env.ServiceName)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, "10s", cfg.HTTP.Timeouts.ReadTimeout.String())
	require.NotNil(t, cfg.JWT)
	assert.Equal(t, "test-signing-key", cfg.JWT.Key)
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	writeConfigFile(t, "test.yaml", testYAML)
	t.Setenv("JWT_ISSUER", "OverriddenApi")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "OverriddenApi", cfg.JWT.Issuer)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("nonexistent")
	require.Error(t, err)
}

func TestNew_AppliesDefaults(t *testing.T) {
	writeConfigFile(t, "test.yaml", testYAML)
	t.Setenv("ENV", "test")

	cfg, err := New()
	require.NoError(t, err)

	// No auth section in the file: the default role still applies.
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, "Administrador", cfg.Auth.DefaultRole)
}

func TestNew_RequiresJWTSection(t *testing.T) {
	writeConfigFile(t, "test.yaml", "env:\n  env: test\n")
	t.Setenv("ENV", "test")

	_, err := New()
	require.Error(t, err)
}
