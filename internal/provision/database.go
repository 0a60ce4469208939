package provision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseSpec declara la conexión relacional que pide la aplicación.
type DatabaseSpec struct {
	// ConnectionName es la key del lookup local (storage.connections).
	// En cloud se ignora: la DSN viene de DATABASE_URL.
	ConnectionName string
}

// DatabaseHandle es un handle lazy sobre un pgxpool. Construirlo no abre
// ninguna conexión; el pool se crea recién en el primer Pool(ctx).
//
// ConnString() puede ser vacío legítimamente (builds de tooling sin
// entorno real). Ese caso NO es un error del Provisioner: lo detecta el
// migrate.Runner y corta con Aborted.
type DatabaseHandle struct {
	connString string
	cloud      bool

	maxOpenConns    int
	minConns        int
	connMaxLifetime time.Duration

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// Database construye el handle de DB según el contexto.
//
// Cloud: DSN desde DATABASE_URL + defaults de resiliencia (reciclado de
// conexiones, health check del pool). Local: DSN desde el YAML por
// connectionName, sin enriquecimiento extra.
func (p *Provisioner) Database(spec DatabaseSpec) *DatabaseHandle {
	h := &DatabaseHandle{
		cloud:        p.rc.IsCloud(),
		maxOpenConns: p.cfg.Storage.Postgres.MaxOpenConns,
		minConns:     p.cfg.Storage.Postgres.MaxIdleConns,
	}
	if d, err := time.ParseDuration(p.cfg.Storage.Postgres.ConnMaxLifetime); err == nil {
		h.connMaxLifetime = d
	}

	if p.rc.IsCloud() {
		h.connString, _ = getEnv(EnvDatabaseURL)
	} else {
		h.connString = p.cfg.ConnString(spec.ConnectionName)
	}

	p.provisioned("database")
	return h
}

// ConnString retorna la DSN resuelta. Vacío si no hay ninguna configurada.
func (h *DatabaseHandle) ConnString() string { return h.connString }

// Configured indica si hay una connection string disponible.
func (h *DatabaseHandle) Configured() bool { return h.connString != "" }

// Pool crea (una vez) y retorna el pgxpool. Las llamadas siguientes
// retornan la misma instancia o el mismo error.
func (h *DatabaseHandle) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	h.once.Do(func() {
		if h.connString == "" {
			h.err = fmt.Errorf("database: no connection string configured")
			return
		}
		cfg, err := pgxpool.ParseConfig(h.connString)
		if err != nil {
			h.err = fmt.Errorf("database: parse pool config: %w", err)
			return
		}
		if h.maxOpenConns > 0 {
			cfg.MaxConns = int32(h.maxOpenConns)
		}
		// Mapear MaxIdleConns -> MinConns (pgxpool)
		if h.minConns > 0 {
			cfg.MinConns = int32(h.minConns)
		}
		if h.cloud {
			// Defaults de resiliencia para DB administrada: reciclar
			// conexiones y chequear salud del pool. El retry de
			// operaciones individuales lo maneja el propio driver.
			lifetime := h.connMaxLifetime
			if lifetime == 0 {
				lifetime = 30 * time.Minute
			}
			cfg.MaxConnLifetime = lifetime
			cfg.MaxConnIdleTime = 5 * time.Minute
			cfg.HealthCheckPeriod = time.Minute
		} else if h.connMaxLifetime > 0 {
			cfg.MaxConnLifetime = h.connMaxLifetime
		}

		h.pool, h.err = pgxpool.NewWithConfig(ctx, cfg)
	})
	return h.pool, h.err
}

// Close cierra el pool si fue creado.
func (h *DatabaseHandle) Close() {
	if h.pool != nil {
		h.pool.Close()
	}
}
