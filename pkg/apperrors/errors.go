package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrKeyNotFound        = errors.New("no active service credential")
	ErrCredentialMismatch = errors.New("service credential was encrypted with a different key")
)
