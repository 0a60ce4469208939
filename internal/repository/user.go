package repository

import (
	"context"
	"time"
)

// User representa una cuenta del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DisabledAt   *time.Time
}

// UserRepository maneja la persistencia de cuentas.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Disable(ctx context.Context, id string, at time.Time) error
}

// CapUserRepository es el nombre de capacidad para el binding.
const CapUserRepository = "repository.UserRepository"
