package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/cuentas/internal/bootstrap"
	"github.com/dropDatabas3/cuentas/internal/config"
	httpserver "github.com/dropDatabas3/cuentas/internal/http"
	"github.com/dropDatabas3/cuentas/internal/observability/logger"
	"github.com/dropDatabas3/cuentas/internal/provision"
	"github.com/dropDatabas3/cuentas/internal/registry"
	pgrepos "github.com/dropDatabas3/cuentas/internal/repository/pg"
	migrations "github.com/dropDatabas3/cuentas/migrations/postgres"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path al YAML de config (opcional en cloud)")
	flag.Parse()

	// .env si existe (dev). En cloud las vars vienen del entorno real.
	_ = godotenv.Load()

	cfg := loadConfig(*configPath)

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: cfg.App.Name,
	})
	defer logger.Sync()

	log := logger.Named("main")

	c, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   cfg,
		Database: provision.DatabaseSpec{ConnectionName: "accounts"},
		Blobs: []provision.NamedConnection{
			{Name: "media", EnvKey: "BLOB_BUCKET_MEDIA"},
			{Name: "exports", EnvKey: "BLOB_BUCKET_EXPORTS"},
		},
		RegisterRepositories: func(m *registry.Manifest) {
			pgrepos.Register(m)
		},
		MigrationsFS:  migrations.FS,
		MigrationsDir: migrations.Dir,
	})
	if err != nil {
		// Binding ambiguo u otro error de wiring: esto sí es fatal.
		log.Fatal("bootstrap falló", logger.Err(err))
	}
	defer c.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpserver.NewRouter(c),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.Info("sirviendo superficie de observación", logger.Op(cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server falló", logger.Err(err))
	}
}

// loadConfig carga el YAML si existe; si no, defaults + entorno.
// Que falte el archivo no es error: en cloud no se shipea config local.
func loadConfig(path string) *config.Config {
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		cfg, err := config.Load(path)
		if err == nil {
			return cfg
		}
	}
	return config.Default()
}
