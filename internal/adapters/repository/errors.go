package repository

import "errors"

// Sentinel kinds for table errors.
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingSetting = errors.New("missing storage setting")
)
