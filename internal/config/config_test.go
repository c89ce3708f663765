package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYML = `api:
  environment: development
  port: "8080"
  base_url: http://localhost:8080
  jwt_signing_key: test-key
gin:
  mode: debug
postgres:
  host: localhost
  port: "5432"
  user: postgres
  password: secret
  db: guildops
  ssl_mode: disable
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, configYML))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "test-key", conf.API.JWTSigningKey)
	assert.Equal(t, "guildops", conf.Postgres.DB)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GUILDOPS_API_PORT", "9090")

	conf, err := Load(writeConfig(t, configYML))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
}

func TestLoadMissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))
	assert.Error(t, err)
}

func TestLoadWatchesFile(t *testing.T) {
	path := writeConfig(t, configYML)

	reloaded := make(chan *AppConfig, 1)
	conf, err := Load(path, func(next *AppConfig) {
		select {
		case reloaded <- next:
		default:
		}
	})
	require.NoError(t, err)
	require.Equal(t, "8080", conf.API.Port)

	next := strings.Replace(configYML, `port: "8080"`, `port: "8081"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(next), 0o600))

	select {
	case got := <-reloaded:
		assert.Equal(t, "8081", got.API.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was never delivered")
	}
}
