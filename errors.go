package zfinder

import (
	"errors"
	"fmt"
)

// Configuration error kinds. A *ConfigurationError matches its kind with
// errors.Is.
var (
	ErrMismatchedCuts     = errors.New("cut lists have different lengths")
	ErrInvertedMassWindow = errors.New("mass window minimum exceeds maximum")
	ErrMalformedThreshold = errors.New("malformed cut threshold")
	ErrEmptyCut           = errors.New("empty cut token")
	ErrMissingName        = errors.New("selection has no name")
	ErrDuplicateName      = errors.New("duplicate selection name")
)

// ConfigurationError is returned when a selection cannot be built. It is
// fatal: a run must not start with a selection that failed to construct.
type ConfigurationError struct {
	Kind      error
	Selection string
	Detail    string
}

func (e *ConfigurationError) Error() string {
	msg := e.Kind.Error()
	if e.Selection != "" {
		msg = fmt.Sprintf("selection %q: %s", e.Selection, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Kind
}
