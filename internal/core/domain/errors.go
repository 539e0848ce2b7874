package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrTaxfreeProjection means a row carries the tax-free marker column
	// without the rest of the tax-free columns.
	ErrTaxfreeProjection = errors.New("broken taxfree projection")
)
