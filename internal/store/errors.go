package store

import "errors"

// Sentinel errors shared by all stores. Handlers translate these to HTTP
// status codes; the stores themselves never see HTTP.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrDuplicateUsername = errors.New("username already taken")
)
