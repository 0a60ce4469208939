package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Scope es un unit-of-work: una transacción lógica dentro de la cual
// viven las instancias de repositorio. Se crea por request/operación y
// se descarta al final; nunca se comparte entre units concurrentes.
type Scope struct {
	id   string
	pool *pgxpool.Pool
	tx   pgx.Tx
}

// NewScope abre un unit-of-work sobre el pool dado.
func NewScope(ctx context.Context, pool *pgxpool.Pool) (*Scope, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("scope: begin: %w", err)
	}
	return &Scope{
		id:   uuid.NewString(),
		pool: pool,
		tx:   tx,
	}, nil
}

// ID retorna el identificador del scope (para logs).
func (s *Scope) ID() string { return s.id }

// Tx retorna la transacción del unit-of-work.
func (s *Scope) Tx() pgx.Tx { return s.tx }

// Commit confirma el unit-of-work.
func (s *Scope) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit(ctx)
	s.tx = nil
	return err
}

// Rollback descarta el unit-of-work. Seguro de llamar con defer aunque
// ya se haya hecho Commit.
func (s *Scope) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback(ctx)
	s.tx = nil
	if err == pgx.ErrTxClosed {
		return nil
	}
	return err
}
