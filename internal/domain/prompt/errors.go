package prompt

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrTemplate    = errors.New("prompt template failed")
	ErrUnknownMode = errors.New("unknown prompt mode")
)

// TemplateError reports a structural field that was blank.
type TemplateError struct {
	Field string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template: missing %s", e.Field)
}

// Unwrap lets errors.Is match ErrTemplate.
func (e *TemplateError) Unwrap() error { return ErrTemplate }
