package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/repository"
)

// UserRepo implementa repository.UserRepository sobre Postgres,
// scoped al unit-of-work que lo creó.
type UserRepo struct {
	scope *registry.Scope
}

func NewUserRepo(scope *registry.Scope) *UserRepo {
	return &UserRepo{scope: scope}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	return r.getBy(ctx, `SELECT id, email, password_hash, name, created_at, updated_at, disabled_at
		FROM app_user WHERE id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.getBy(ctx, `SELECT id, email, password_hash, name, created_at, updated_at, disabled_at
		FROM app_user WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) getBy(ctx context.Context, q string, arg any) (*repository.User, error) {
	var u repository.User
	err := r.scope.Tx().QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.DisabledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("pg: get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *repository.User) error {
	err := r.scope.Tx().QueryRow(ctx, `
		INSERT INTO app_user (id, email, password_hash, name)
		VALUES ($1, lower($2), $3, $4)
		RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.Name,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("pg: create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u *repository.User) error {
	tag, err := r.scope.Tx().Exec(ctx, `
		UPDATE app_user SET email = lower($2), password_hash = $3, name = $4, updated_at = now()
		WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Name,
	)
	if err != nil {
		return fmt.Errorf("pg: update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Disable(ctx context.Context, id string, at time.Time) error {
	tag, err := r.scope.Tx().Exec(ctx,
		`UPDATE app_user SET disabled_at = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("pg: disable user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
