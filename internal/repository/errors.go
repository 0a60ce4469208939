package repository

import "errors"

var (
	// ErrNotFound: la entidad no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicate: violación de unicidad (email ya registrado, etc).
	ErrDuplicate = errors.New("repository: duplicate")

	// ErrTokenInvalid: token inexistente, vencido o ya usado.
	ErrTokenInvalid = errors.New("repository: token invalid")
)
