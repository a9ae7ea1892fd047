package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrUserExists         = errors.New("account already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenReuse signals presentation of a refresh token that is no
	// longer the user's stored one. The session is revoked before this
	// error is returned; the caller must force a fresh login.
	ErrTokenReuse = errors.New("refresh token reuse detected")
)
