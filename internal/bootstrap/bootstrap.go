// Package bootstrap orquesta la secuencia de arranque del proceso:
//
//	resolver contexto -> provisionar recursos -> descubrir repositorios
//	-> migrar esquema
//
// Corre bloqueante en el path de arranque, antes de servir tráfico.
// La única falla fatal es un binding ambiguo (error de programación);
// los resultados de migración (Aborted/GaveUp) se absorben y quedan
// expuestos en el Container para el health check.
package bootstrap

import (
	"context"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/cuentas/internal/config"
	"github.com/dropDatabas3/cuentas/internal/metrics"
	"github.com/dropDatabas3/cuentas/internal/migrate"
	"github.com/dropDatabas3/cuentas/internal/observability/logger"
	"github.com/dropDatabas3/cuentas/internal/provision"
	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/runtime"
)

// Options declara qué recursos necesita la aplicación.
type Options struct {
	Config *config.Config

	// Database es la conexión relacional principal.
	Database provision.DatabaseSpec

	// Blobs son los endpoints de blob storage nombrados.
	Blobs []provision.NamedConnection

	// RegisterRepositories puebla el manifest de repositorios
	// (la lista de registración explícita en compile time).
	RegisterRepositories func(*registry.Manifest)

	// MigrationsFS/MigrationsDir: migraciones SQL embebidas.
	MigrationsFS  fs.FS
	MigrationsDir string

	// MigrateDB permite reemplazar la frontera de migración (tests).
	// Default: migrate.Applier sobre el handle + MigrationsFS.
	MigrateDB migrate.Database
}

// Container agrupa los recursos provisionados y el resultado de la
// migración. Es el estado compartido read-mostly del proceso; los
// repositorios NO viven acá, se construyen por scope via Registry.
type Container struct {
	Context   runtime.Context
	DB        *provision.DatabaseHandle
	Blobs     map[string]*provision.BlobHandle
	Secrets   *provision.SecretHandle // nil en local
	Email     provision.Sender
	Cache     provision.Cache
	Registry  *registry.Registry
	Bindings  []registry.Binding
	Migration migrate.Result
}

// Run ejecuta la secuencia completa. El contexto de despliegue se
// resuelve UNA vez acá y se pasa por valor a todo lo demás.
func Run(ctx context.Context, opts Options) (*Container, error) {
	rc := runtime.Resolve()
	log := logger.Named("bootstrap")
	log.Info("arrancando", logger.DeployContext(rc.String()))

	_ = metrics.Register(nil)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	p := provision.New(rc, cfg)

	// Registrar: el binding ambiguo es el ÚNICO error que aborta el
	// startup — error de programación, no ambiental.
	manifest := &registry.Manifest{}
	if opts.RegisterRepositories != nil {
		opts.RegisterRepositories(manifest)
	}
	bindings, err := registry.Discover(manifest)
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		log.Debug("binding registrado", logger.Capability(b.Capability))
	}

	c := &Container{
		Context:  rc,
		Registry: registry.NewRegistry(bindings),
		Bindings: bindings,
	}

	// DB primero: el runner de migración necesita el handle.
	c.DB = p.Database(opts.Database)

	migrateDB := opts.MigrateDB
	if migrateDB == nil {
		migrateDB = migrate.NewApplier(c.DB, opts.MigrationsFS, opts.MigrationsDir)
	}

	// Los recursos laterales no dependen del resultado de la migración;
	// se provisionan en paralelo con ella. La migración corre con el
	// ctx original: un error acá no la cancela a mitad de camino.
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		c.Blobs, err = p.BlobStores(opts.Blobs)
		if err != nil {
			return err
		}
		c.Secrets, err = p.SecretStore()
		if err != nil {
			return err
		}
		c.Email = p.EmailTransport()
		c.Cache = p.CacheStore()
		return nil
	})
	g.Go(func() error {
		c.Migration = migrate.NewRunner(migrateDB).Run(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("bootstrap completo",
		logger.DeployContext(rc.String()),
		logger.Op(c.Migration.Outcome.String()),
		logger.Count(len(bindings)),
	)
	return c, nil
}

// Close libera los recursos del proceso (pool de DB, cache).
func (c *Container) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
