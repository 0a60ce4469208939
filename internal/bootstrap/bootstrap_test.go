package bootstrap

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/cuentas/internal/config"
	"github.com/dropDatabas3/cuentas/internal/provision"
	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/repository"
	pgrepos "github.com/dropDatabas3/cuentas/internal/repository/pg"
	"github.com/dropDatabas3/cuentas/internal/runtime"
)

type stubMigrateDB struct {
	connString string
	err        error
	calls      int
}

func (s *stubMigrateDB) ConnString() string { return s.connString }
func (s *stubMigrateDB) Apply(context.Context) error {
	s.calls++
	return s.err
}

func forceLocal(t *testing.T) {
	t.Helper()
	runtime.UnsafeResetForTests()
	os.Unsetenv(runtime.EnvCloudMarker)
	t.Cleanup(runtime.UnsafeResetForTests)
}

func TestRun_LocalEndToEnd(t *testing.T) {
	forceLocal(t)

	cfg := config.Default()
	cfg.Storage.Connections["accounts"] = "postgres://localhost/cuentas"

	db := &stubMigrateDB{connString: "postgres://localhost/cuentas"}
	c, err := Run(context.Background(), Options{
		Config:   cfg,
		Database: provision.DatabaseSpec{ConnectionName: "accounts"},
		Blobs:    []provision.NamedConnection{{Name: "media", EnvKey: "BLOB_BUCKET_MEDIA"}},
		RegisterRepositories: func(m *registry.Manifest) {
			pgrepos.Register(m)
		},
		MigrateDB: db,
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, runtime.Local, c.Context)
	assert.Nil(t, c.Secrets, "secret store deshabilitado en local")
	assert.IsType(t, &provision.CaptureSender{}, c.Email)
	assert.NotNil(t, c.Cache)
	assert.Len(t, c.Blobs, 1)

	assert.Equal(t, 1, db.calls)
	assert.Equal(t, 1, c.Migration.Attempts)

	// Las tres capacidades del manifest pg, ordenadas.
	assert.Equal(t, []string{
		repository.CapCredentialRepository,
		repository.CapEmailTokenRepository,
		repository.CapUserRepository,
	}, c.Registry.Capabilities())
}

func TestRun_AmbiguousBindingAbortsStartup(t *testing.T) {
	forceLocal(t)

	_, err := Run(context.Background(), Options{
		Config: config.Default(),
		RegisterRepositories: func(m *registry.Manifest) {
			m.Add(registry.Provider{Capability: "repository.UserRepository", Impl: "pg.UserRepo", New: func(*registry.Scope) any { return nil }})
			m.Add(registry.Provider{Capability: "repository.UserRepository", Impl: "mem.UserRepo", New: func(*registry.Scope) any { return nil }})
		},
		MigrateDB: &stubMigrateDB{},
	})
	require.ErrorIs(t, err, registry.ErrAmbiguousBinding)
}

// La migración degradada NO es fatal: el proceso arranca igual y el
// resultado queda expuesto en el Container.
func TestRun_MigrationAbortIsAbsorbed(t *testing.T) {
	forceLocal(t)

	cfg := config.Default()
	// Sin DSN declarada: el runner corta con Aborted.
	c, err := Run(context.Background(), Options{
		Config:    cfg,
		Database:  provision.DatabaseSpec{ConnectionName: "accounts"},
		MigrateDB: &stubMigrateDB{connString: ""},
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "aborted", c.Migration.Outcome.String())
	assert.Equal(t, "no connection string", c.Migration.Reason)
}

func TestRun_MigrationErrorIsAbsorbed(t *testing.T) {
	forceLocal(t)

	boom := errors.New("ERROR: permission denied for schema public (SQLSTATE 42501)")
	c, err := Run(context.Background(), Options{
		Config:    config.Default(),
		MigrateDB: &stubMigrateDB{connString: "postgres://localhost/x", err: boom},
	})
	require.NoError(t, err, "los errores de migración no abortan el startup")
	defer c.Close()

	assert.Equal(t, "aborted", c.Migration.Outcome.String())
	require.ErrorIs(t, c.Migration.Err, boom)
}
