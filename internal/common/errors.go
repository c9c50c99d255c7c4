// Package common defines shared sentinel errors and small helpers used across
// the draft store layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Draft-level errors.
	ErrUnknownNamespace = errors.New("unknown draft namespace")
	ErrUnknownStatus    = errors.New("unknown draft status")
	ErrInvalidDraftID   = errors.New("invalid draft id")

	// Input errors (CLI and query parsing).
	ErrorIncorrectFieldValue = errors.New("field value must be name=value")
	ErrEmptyExpression       = errors.New("expression must not be empty")

	// Storage bootstrap errors.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// Encryption errors.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrSealedValue     = errors.New("sealed value is malformed")
)
