// Package migrate ejecuta las migraciones de esquema al arranque con un
// loop de retry acotado que distingue fallas transitorias de arranque
// (DB todavía no acepta conexiones) de fallas reales.
//
// Política, deliberada y a preservar:
//   - sin connection string => Aborted inmediato, NO fatal (builds de
//     tooling/docs corren sin entorno real)
//   - falla transitoria => retry cada ~1s hasta 20 intentos; al agotar,
//     GaveUp y el proceso sigue arrancando degradado
//   - cualquier otra falla => Aborted con log completo, NO se propaga;
//     disponibilidad del proceso gana sobre garantía de esquema migrado.
//     El health check es quien expone el estado (internal/http).
package migrate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/cuentas/internal/metrics"
	"github.com/dropDatabas3/cuentas/internal/observability/logger"
)

// Database es la frontera opaca con el handle de DB: una query de
// connection string y una operación "aplicar migraciones pendientes".
// El retry fino de operaciones individuales es del driver, no nuestro.
type Database interface {
	ConnString() string
	Apply(ctx context.Context) error
}

// Outcome es el estado final del runner.
type Outcome int

const (
	// Applied: todas las migraciones pendientes aplicadas.
	Applied Outcome = iota
	// Aborted: corte sin retry (sin DSN, o error no-transitorio).
	Aborted
	// GaveUp: se agotaron los intentos contra fallas transitorias.
	GaveUp
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Aborted:
		return "aborted"
	default:
		return "gave_up"
	}
}

// Result describe cómo terminó la corrida. Err es nil salvo en Aborted
// por error; Reason siempre está seteado para Aborted.
type Result struct {
	Outcome  Outcome
	Attempts int
	Reason   string
	Err      error
}

const (
	// DefaultMaxAttempts acota el peor caso de arranque a ~20s.
	DefaultMaxAttempts = 20

	// DefaultInterval es la espera fija entre intentos.
	DefaultInterval = time.Second

	// noticeEvery: cada cuántos intentos se loguea el aviso de espera.
	noticeEvery = 5

	// flushPause da tiempo a que el sink de logs drene antes de
	// abandonar por error no-transitorio.
	flushPause = time.Second
)

// Runner es la máquina de estados Attempting -> Applied|Aborted|GaveUp.
// Sleep y Classify son inyectables para simular los 20 intentos en tests
// sin tiempo real ni errores de socket reales.
type Runner struct {
	DB          Database
	Log         *zap.Logger
	MaxAttempts int
	Interval    time.Duration
	Sleep       func(time.Duration)
	Classify    func(error) bool // true => transitorio de arranque
}

// NewRunner arma un Runner con los defaults de producción.
func NewRunner(db Database) *Runner {
	return &Runner{
		DB:          db,
		Log:         logger.Named("migrate"),
		MaxAttempts: DefaultMaxAttempts,
		Interval:    DefaultInterval,
		Sleep:       time.Sleep,
		Classify:    IsTransientStartup,
	}
}

// Run ejecuta el loop. Nunca retorna error ni panickea: el resultado es
// siempre un Result, y el caller decide qué hacer con él (nada, según
// la política actual; el readyz lo expone).
//
// ctx es un agregado de hardening: con context.Background() el
// comportamiento es el de referencia (sin cancelación externa).
func (r *Runner) Run(ctx context.Context) Result {
	log := r.Log
	if log == nil {
		log = logger.Named("migrate")
	}

	log.Info("aplicando migraciones de esquema")

	if r.DB.ConnString() == "" {
		// Esperado en builds offline (generación de docs, etc).
		// Crítico en cualquier otro escenario, pero jamás fatal acá.
		log.Error("sin connection string: se omiten las migraciones (esperado solo en tooling offline)")
		res := Result{Outcome: Aborted, Attempts: 0, Reason: "no connection string"}
		metrics.MigrationOutcome.WithLabelValues(res.Outcome.String()).Set(1)
		return res
	}

	for n := 1; n <= r.MaxAttempts; n++ {
		metrics.MigrationAttempts.Inc()

		err := r.DB.Apply(ctx)
		if err == nil {
			log.Info("migraciones aplicadas", logger.Attempt(n))
			metrics.MigrationOutcome.WithLabelValues(Applied.String()).Set(1)
			return Result{Outcome: Applied, Attempts: n}
		}

		if !r.Classify(err) {
			// No-transitorio: log completo, pausa para drenar el sink,
			// y seguimos el arranque sin esquema garantizado.
			log.Error("migración falló con error no-transitorio; el proceso continúa sin esquema migrado",
				logger.Attempt(n), logger.Err(err))
			r.Sleep(flushPause)
			metrics.MigrationOutcome.WithLabelValues(Aborted.String()).Set(1)
			return Result{Outcome: Aborted, Attempts: n, Reason: "non-transient error", Err: err}
		}

		if n%noticeEvery == 0 {
			log.Info("esperando que la base de datos acepte conexiones",
				logger.Attempt(n), logger.MaxAttempts(r.MaxAttempts))
		}

		if n == r.MaxAttempts {
			log.Warn("se agotaron los intentos de migración; el proceso continúa degradado",
				logger.MaxAttempts(r.MaxAttempts))
			metrics.MigrationOutcome.WithLabelValues(GaveUp.String()).Set(1)
			return Result{Outcome: GaveUp, Attempts: n, Reason: "retry budget exhausted", Err: err}
		}

		r.Sleep(r.Interval)

		if ctx.Err() != nil {
			log.Warn("migración cancelada por contexto", logger.Err(ctx.Err()))
			metrics.MigrationOutcome.WithLabelValues(Aborted.String()).Set(1)
			return Result{Outcome: Aborted, Attempts: n, Reason: "canceled", Err: ctx.Err()}
		}
	}

	// Unreachable: el loop siempre retorna adentro.
	return Result{Outcome: GaveUp, Attempts: r.MaxAttempts, Reason: "retry budget exhausted"}
}
