package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/repository"
)

// CredentialRepo implementa repository.CredentialRepository sobre Postgres.
type CredentialRepo struct {
	scope *registry.Scope
}

func NewCredentialRepo(scope *registry.Scope) *CredentialRepo {
	return &CredentialRepo{scope: scope}
}

func (r *CredentialRepo) ListByUser(ctx context.Context, userID string) ([]repository.Credential, error) {
	rows, err := r.scope.Tx().Query(ctx, `
		SELECT id, user_id, provider, subject, created_at
		FROM user_credential WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: list credentials: %w", err)
	}
	defer rows.Close()

	var out []repository.Credential
	for rows.Next() {
		var c repository.Credential
		if err := rows.Scan(&c.ID, &c.UserID, &c.Provider, &c.Subject, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pg: scan credential: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CredentialRepo) Link(ctx context.Context, c *repository.Credential) error {
	err := r.scope.Tx().QueryRow(ctx, `
		INSERT INTO user_credential (id, user_id, provider, subject)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		c.ID, c.UserID, c.Provider, c.Subject,
	).Scan(&c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("pg: link credential: %w", err)
	}
	return nil
}

func (r *CredentialRepo) Unlink(ctx context.Context, id string) error {
	tag, err := r.scope.Tx().Exec(ctx, `DELETE FROM user_credential WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pg: unlink credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
