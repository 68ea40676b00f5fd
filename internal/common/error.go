// Package common defines shared constants and sentinel errors used across
// client and server layers of taskkeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorValidation         = errors.New("validation error")

	// ErrorIntegrity reports corrupted persisted data, e.g. a stored password
	// hash that cannot be parsed.
	ErrorIntegrity = errors.New("data integrity fault")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. An expired token is also an invalid one.
	ErrTokenExpired = fmt.Errorf("token expired: %w", ErrInvalidToken)
)
