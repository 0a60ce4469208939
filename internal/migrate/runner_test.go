package migrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	errNotReady = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	errBroken   = errors.New("ERROR: relation \"schema_migrations\" is corrupt (SQLSTATE XX000)")
)

// fakeDB programa una secuencia de errores por intento; nil = éxito.
type fakeDB struct {
	connString string
	errs       []error
	calls      int
}

func (f *fakeDB) ConnString() string { return f.connString }

func (f *fakeDB) Apply(context.Context) error {
	f.calls++
	if f.calls <= len(f.errs) {
		return f.errs[f.calls-1]
	}
	return nil
}

func newTestRunner(db Database) (*Runner, *observer.ObservedLogs, *int) {
	core, logs := observer.New(zapcore.DebugLevel)
	sleeps := 0
	r := NewRunner(db)
	r.Log = zap.New(core)
	r.Sleep = func(time.Duration) { sleeps++ }
	r.Classify = func(err error) bool { return errors.Is(err, errNotReady) }
	return r, logs, &sleeps
}

// Escenario A: sin connection string.
func TestRun_NoConnString_AbortsWithoutRetries(t *testing.T) {
	db := &fakeDB{connString: ""}
	r, logs, sleeps := newTestRunner(db)

	res := r.Run(context.Background())

	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, 0, res.Attempts)
	assert.Equal(t, "no connection string", res.Reason)
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, *sleeps)
	assert.Equal(t, 0, db.calls, "no debe intentar aplicar nada")

	require.NotEmpty(t, logs.FilterLevelExact(zapcore.InfoLevel).All())
	require.Len(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), 1)
}

// Escenario B: 3 fallas transitorias, éxito en el 4to intento.
func TestRun_TransientThenSuccess(t *testing.T) {
	db := &fakeDB{
		connString: "postgres://localhost/cuentas",
		errs:       []error{errNotReady, errNotReady, errNotReady},
	}
	r, logs, sleeps := newTestRunner(db)

	res := r.Run(context.Background())

	assert.Equal(t, Applied, res.Outcome)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, 3, *sleeps, "un sleep por cada retry")
	assert.Empty(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(),
		"transitorios no loguean a nivel error")
}

// Escenario C: las 20 fallan transitorio => GaveUp, avisos en 5/10/15/20.
func TestRun_AllTransient_GivesUp(t *testing.T) {
	errs := make([]error, DefaultMaxAttempts)
	for i := range errs {
		errs[i] = errNotReady
	}
	db := &fakeDB{connString: "postgres://localhost/cuentas", errs: errs}
	r, logs, sleeps := newTestRunner(db)

	res := r.Run(context.Background())

	assert.Equal(t, GaveUp, res.Outcome)
	assert.Equal(t, DefaultMaxAttempts, res.Attempts)
	assert.Equal(t, DefaultMaxAttempts, db.calls)
	// Sin sleep después del último intento.
	assert.Equal(t, DefaultMaxAttempts-1, *sleeps)

	notices := logs.FilterMessageSnippet("esperando").All()
	require.Len(t, notices, 4, "aviso en los intentos 5, 10, 15 y 20")
	assert.Empty(t, logs.FilterLevelExact(zapcore.ErrorLevel).All())
}

// Escenario D: error no-transitorio en el primer intento.
func TestRun_NonTransient_AbortsImmediately(t *testing.T) {
	db := &fakeDB{connString: "postgres://localhost/cuentas", errs: []error{errBroken}}
	r, logs, _ := newTestRunner(db)

	res := r.Run(context.Background())

	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	require.ErrorIs(t, res.Err, errBroken)

	errLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errLogs, 1)
	// El detalle del error tiene que quedar en el log.
	var found bool
	for _, f := range errLogs[0].Context {
		if f.Key == "error" {
			found = true
		}
	}
	assert.True(t, found, "el log de error lleva el campo error con detalle")
}

// Hardening: la cancelación externa corta el loop entre intentos.
func TestRun_ContextCancelStopsRetrying(t *testing.T) {
	errs := make([]error, DefaultMaxAttempts)
	for i := range errs {
		errs[i] = errNotReady
	}
	db := &fakeDB{connString: "postgres://localhost/cuentas", errs: errs}
	r, _, _ := newTestRunner(db)

	ctx, cancel := context.WithCancel(context.Background())
	r.Sleep = func(time.Duration) { cancel() }

	res := r.Run(ctx)

	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	require.ErrorIs(t, res.Err, context.Canceled)
}
