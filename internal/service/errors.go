package service

import "errors"

// Sentinels for the handler boundary. Handlers translate these with
// errors.Is; anything else becomes a generic 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSearchUnavailable  = errors.New("search is not available")
)
