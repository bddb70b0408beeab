package service

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingField  = errors.New("missing required field")
	ErrNotConfigured = errors.New("service dependency not configured")
)

// MissingFieldError names the first required request field that was blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Unwrap lets errors.Is match ErrMissingField.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Upstream services.
const (
	UpstreamStore     = "store"
	UpstreamGenerator = "generator"
)

// UpstreamError is a failed call to the table store or the generation
// service. Its message is the upstream message unchanged so it can be shown
// to clients as-is.
type UpstreamError struct {
	Service string
	Op      string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(service, op string, err error) error {
	return &UpstreamError{Service: service, Op: op, Err: err}
}
