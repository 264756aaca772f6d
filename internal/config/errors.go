package config

import (
	"errors"
	"fmt"
)

// ErrHelp is returned by Load when usage was requested with -h or --help.
var ErrHelp = errors.New("help requested")

// ParseFailure reports an option the grammar could not accept: an unknown
// option, a malformed value, a missing argument, or an unreadable config file.
type ParseFailure struct {
	Option string
	Value  string
	Err    error
}

func (e *ParseFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse option %q with argument %q", e.Option, e.Value)
	}
	return fmt.Sprintf("parse option %q with argument %q: %v", e.Option, e.Value, e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// ValidationError reports a recognized option whose value is unusable.
type ValidationError struct {
	Option string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("option %q with argument %q: %s", e.Option, e.Value, e.Reason)
}

func invalid(option, value, reason string) *ValidationError {
	return &ValidationError{Option: option, Value: value, Reason: reason}
}
