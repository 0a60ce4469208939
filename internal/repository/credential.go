package repository

import (
	"context"
	"time"
)

// Credential es una credencial externa asociada a una cuenta
// (social login, API key, etc).
type Credential struct {
	ID        string
	UserID    string
	Provider  string
	Subject   string
	CreatedAt time.Time
}

// CredentialRepository maneja credenciales externas.
type CredentialRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Credential, error)
	Link(ctx context.Context, c *Credential) error
	Unlink(ctx context.Context, id string) error
}

// CapCredentialRepository es el nombre de capacidad para el binding.
const CapCredentialRepository = "repository.CredentialRepository"
