// Package domain defines domain-level errors for the identity feature.
package domain

import "errors"

// Domain errors for the identity workflow.
// These errors represent business rule failures and are mapped to HTTP
// status codes by the transport layer.
var (
	// ErrValidation indicates that a required field was missing or malformed.
	ErrValidation = errors.New("all fields are required")

	// ErrPasswordTooShort indicates that the password did not meet the minimum length.
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")

	// ErrUserAlreadyExists indicates that a user with the given email already exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound indicates that no user was found with the given email.
	// Returned by login and forgot-password lookups.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrInvalidToken indicates that no user holds the presented token.
	// It is deliberately opaque: it does not reveal whether the account exists.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAccountNotVerified indicates a login attempt before email verification.
	ErrAccountNotVerified = errors.New("account has not been verified yet")

	// ErrInvalidCredentials indicates that the password check failed.
	ErrInvalidCredentials = errors.New("incorrect password")

	// ErrForbidden indicates that the caller lacks the admin flag.
	ErrForbidden = errors.New("action not allowed")
)
