package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown emails and wrong secrets alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactive is returned when the account has been deactivated.
	ErrInactive = errors.New("account is inactive")
	// ErrEmailTaken is returned by registration when the email is in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrThrottled is returned after too many failed attempts for one email.
	ErrThrottled = errors.New("too many failed login attempts")
	// ErrInvalidInput is returned for malformed registration input.
	ErrInvalidInput = errors.New("invalid registration input")
)
