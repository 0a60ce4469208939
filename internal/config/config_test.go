package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  env: dev
server:
  addr: ":9090"
storage:
  connections:
    accounts: "postgres://localhost:5432/cuentas"
    reporting: "postgres://localhost:5432/reporting"
blob:
  local_endpoint: "http://localhost:9100"
email:
  smtp:
    host: "localhost"
    port: 1025
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost:5432/cuentas", cfg.ConnString("accounts"))
	assert.Equal(t, "postgres://localhost:5432/reporting", cfg.ConnString("reporting"))
	assert.Equal(t, "http://localhost:9100", cfg.Blob.LocalEndpoint)

	// Defaults donde el YAML calla.
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, 5, cfg.Storage.Postgres.MaxOpenConns)
	assert.Equal(t, "cuentas", cfg.App.Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("SERVER_ADDR", ":7070")
	os.Setenv("SMTP_HOST", "smtp.real.example")
	defer os.Unsetenv("SERVER_ADDR")
	defer os.Unsetenv("SMTP_HOST")

	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "smtp.real.example", cfg.Email.SMTP.Host)
}

func TestConnString_UnknownNameIsEmpty(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.ConnString("nope"))
}

func TestLoad_BadYAMLFails(t *testing.T) {
	_, err := Load(writeTemp(t, "storage: [esto no es un map"))
	require.Error(t, err)
}

func TestDefault_UsableWithoutFile(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NotNil(t, cfg.Storage.Connections)
	assert.Equal(t, "migrations/postgres", cfg.Migrations.Dir)
}
