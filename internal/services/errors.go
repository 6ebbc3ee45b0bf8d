package services

import "errors"

// Domain errors surfaced by the services. Handlers map these onto HTTP
// statuses; nothing is retried.
var (
	// ErrAuthFailure covers unknown email, wrong password and invalid
	// tokens alike, so callers cannot enumerate accounts.
	ErrAuthFailure = errors.New("incorrect email or password")

	// ErrInactiveAccount is returned after credentials succeed for a
	// deactivated account.
	ErrInactiveAccount = errors.New("inactive user")

	ErrConflict        = errors.New("already exists")
	ErrForbidden       = errors.New("not enough permissions")
	ErrNotFound        = errors.New("not found")
	ErrExternalService = errors.New("external service failure")
)
