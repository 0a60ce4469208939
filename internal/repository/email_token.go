package repository

import (
	"context"
	"time"
)

// EmailTokenKind clasifica los tokens de flujos de email.
type EmailTokenKind string

const (
	EmailTokenVerify EmailTokenKind = "verify"
	EmailTokenReset  EmailTokenKind = "reset"
)

// EmailToken es un token de un solo uso para verificación o reset.
type EmailToken struct {
	Token     string
	UserID    string
	Kind      EmailTokenKind
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// EmailTokenRepository maneja tokens de flujos de email.
type EmailTokenRepository interface {
	Create(ctx context.Context, t *EmailToken) error
	Consume(ctx context.Context, token string, kind EmailTokenKind, now time.Time) (*EmailToken, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// CapEmailTokenRepository es el nombre de capacidad para el binding.
const CapEmailTokenRepository = "repository.EmailTokenRepository"
