package record

import "errors"

// ErrNotFound is matched by both lookup failures.
var ErrNotFound = errors.New("not found")

// Lookup failures.
var (
	ErrNoEvents      error = notFoundError("no events found")
	ErrEventNotFound error = notFoundError("event not found")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

// Is lets errors.Is(err, ErrNotFound) match either lookup failure.
func (e notFoundError) Is(target error) bool { return target == ErrNotFound }
