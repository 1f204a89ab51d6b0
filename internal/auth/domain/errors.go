package domain

import "errors"

// Domain-specific errors for the auth module.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDeleted        = errors.New("user no longer exists")
)
