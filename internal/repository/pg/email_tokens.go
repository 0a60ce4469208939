package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/repository"
)

// EmailTokenRepo implementa repository.EmailTokenRepository sobre Postgres.
type EmailTokenRepo struct {
	scope *registry.Scope
}

func NewEmailTokenRepo(scope *registry.Scope) *EmailTokenRepo {
	return &EmailTokenRepo{scope: scope}
}

func (r *EmailTokenRepo) Create(ctx context.Context, t *repository.EmailToken) error {
	_, err := r.scope.Tx().Exec(ctx, `
		INSERT INTO email_token (token, user_id, kind, expires_at)
		VALUES ($1, $2, $3, $4)`,
		t.Token, t.UserID, string(t.Kind), t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pg: create email token: %w", err)
	}
	return nil
}

// Consume marca el token como usado y lo retorna. Token inexistente,
// vencido o ya usado => ErrTokenInvalid.
func (r *EmailTokenRepo) Consume(ctx context.Context, token string, kind repository.EmailTokenKind, now time.Time) (*repository.EmailToken, error) {
	var t repository.EmailToken
	var k string
	err := r.scope.Tx().QueryRow(ctx, `
		UPDATE email_token SET used_at = $3
		WHERE token = $1 AND kind = $2 AND used_at IS NULL AND expires_at > $3
		RETURNING token, user_id, kind, expires_at, used_at`,
		token, string(kind), now,
	).Scan(&t.Token, &t.UserID, &k, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTokenInvalid
		}
		return nil, fmt.Errorf("pg: consume email token: %w", err)
	}
	t.Kind = repository.EmailTokenKind(k)
	return &t, nil
}

func (r *EmailTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.scope.Tx().Exec(ctx,
		`DELETE FROM email_token WHERE expires_at <= $1 OR used_at IS NOT NULL`, now)
	if err != nil {
		return 0, fmt.Errorf("pg: purge email tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
