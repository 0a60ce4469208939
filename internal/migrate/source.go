package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/cuentas/internal/observability/logger"
	"github.com/dropDatabas3/cuentas/internal/provision"
)

// Applier implementa Database sobre un DatabaseHandle y un FS de
// migraciones embebidas (*_up.sql, orden ascendente por nombre).
// Lleva registro de lo aplicado en schema_migrations, así Apply es
// "aplicar pendientes" y re-ejecutarlo es no-op.
type Applier struct {
	handle *provision.DatabaseHandle
	fsys   fs.FS
	dir    string
}

// NewApplier crea el applier para el handle y el FS embebido dado.
func NewApplier(h *provision.DatabaseHandle, fsys fs.FS, dir string) *Applier {
	return &Applier{handle: h, fsys: fsys, dir: dir}
}

// ConnString delega en el handle.
func (a *Applier) ConnString() string { return a.handle.ConnString() }

// Apply aplica todas las migraciones pendientes como una operación
// lógica única. El pool se abre lazy acá: este es el primer (y único)
// punto del bootstrap que toca la red de la DB.
func (a *Applier) Apply(ctx context.Context) error {
	pool, err := a.handle.Pool(ctx)
	if err != nil {
		return err
	}

	files, err := a.listUp()
	if err != nil {
		return fmt.Errorf("migrate: list: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("migrate: ensure tracking table: %w", err)
	}

	applied := map[string]bool{}
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("migrate: read tracking table: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("migrate: scan tracking row: %w", err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("migrate: read tracking table: %w", err)
	}

	log := logger.Named("migrate")
	for _, f := range files {
		name := path.Base(f)
		if applied[name] {
			continue
		}
		sql, err := fs.ReadFile(a.fsys, f)
		if err != nil {
			return fmt.Errorf("migrate: read %s: %w", f, err)
		}

		start := time.Now()
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("migrate: begin %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migrate: exec %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migrate: record %s: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("migrate: commit %s: %w", name, err)
		}
		log.Info("migración aplicada",
			logger.Op(name),
			logger.Duration(time.Since(start).Truncate(time.Millisecond)))
	}
	return nil
}

// listUp enumera los *_up.sql del directorio, ordenados ascendente.
func (a *Applier) listUp() ([]string, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			out = append(out, path.Join(a.dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
