// CLI de migraciones para operar a mano: aplica *_up.sql o *_down.sql
// desde el directorio de migraciones contra la DSN de la config.
// El path normal de producción es el runner del bootstrap; esto es para
// dev y para bajar esquema (down) que el runner no hace nunca.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/cuentas/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.example.yaml", "Path al YAML de config")
		dir        = flag.String("dir", "migrations/postgres", "Directorio de migraciones (*_up.sql y *_down.sql)")
		connName   = flag.String("conn", "accounts", "Nombre de la conexión en storage.connections")
	)
	flag.Parse()

	// Args posicionales: [action] [steps]
	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			steps = n
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	dsn := cfg.ConnString(*connName)
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		dsn = v
	}
	if dsn == "" {
		log.Fatalf("sin DSN: declarar storage.connections.%s o DATABASE_URL", *connName)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	switch action {
	case "up":
		run(ctx, pool, *dir, "_up.sql", steps, false)
	case "down":
		run(ctx, pool, *dir, "_down.sql", steps, true)
	default:
		log.Fatalf("acción desconocida %q. Usar: up | down [steps]", action)
	}
}

func run(ctx context.Context, pool *pgxpool.Pool, dir, suffix string, steps int, reverse bool) {
	files, err := listSQL(dir, suffix)
	if err != nil {
		log.Fatalf("list %s: %v", suffix, err)
	}
	if len(files) == 0 {
		log.Printf("No hay migraciones %s. Nada que hacer.", suffix)
		return
	}
	sort.Strings(files)
	if reverse {
		reverseInPlace(files)
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	log.Printf("Aplicando %d migración(es)...", len(files))
	for _, f := range files {
		if err := execSQLFile(ctx, pool, f); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
	}
	log.Println("Listo.")
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func reverseInPlace(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	start := time.Now()
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	log.Printf("OK %s (%s)", filepath.Base(path), time.Since(start).Truncate(time.Millisecond))
	return nil
}
