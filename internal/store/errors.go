package store

import "errors"

// Sentinel errors returned by Entity operations. Callers test them with
// errors.Is; the resolver layer translates them into domain errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)
