package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leandrowaltz/provavida/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "administrador", cfg.Auth.AdminUsername)
	assert.Equal(t, "plaintext", cfg.Auth.PasswordMode)
	assert.Equal(t, "memory", cfg.RateLimit.Type)
	assert.Equal(t, time.Minute, cfg.RateLimit.LoginPeriod)
	assert.Equal(t, "America/Maceio", cfg.Locale.Timezone)

	loc, err := cfg.Locale.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Maceio", loc.String())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9090
database:
  driver: postgres
  dsn: postgres://arquivo
auth:
  passwordMode: bcrypt
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	t.Run("file values", func(t *testing.T) {
		cfg, err := config.LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "postgres://arquivo", cfg.Database.DSN)
		assert.Equal(t, "bcrypt", cfg.Auth.PasswordMode)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PV_SERVER_PORT", "7070")
		t.Setenv("DATABASE_URL", "postgres://ambiente")

		cfg, err := config.LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "postgres://ambiente", cfg.Database.DSN)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"driver desconhecido", map[string]string{"PV_DATABASE_DRIVER": "oracle"}},
		{"modo de senha desconhecido", map[string]string{"PV_AUTH_PASSWORDMODE": "md5"}},
		{"rate limit desconhecido", map[string]string{"PV_RATELIMIT_TYPE": "memcached"}},
		{"fuso inválido", map[string]string{"PV_LOCALE_TIMEZONE": "Marte/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestDefaultSettings_RoundTrip(t *testing.T) {
	data, err := yaml.Marshal(config.DefaultSettings())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 12*time.Hour, cfg.CORS.MaxAge)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Maceió", cfg.Locale.City)
}
