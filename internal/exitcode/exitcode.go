package exitcode

import (
	"errors"
	"strconv"
)

// Exit codes for term-chat commands
const (
	Success     = 0
	Error       = 1
	Usage       = 2   // bad flag or configuration value
	Interrupted = 130 // 128 + SIGINT
)

// ExitError is an error that carries a specific exit code
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

// Convenience constructors
func UsageError(err error) ExitError { return ExitError{Code: Usage, Err: err} }
func Interrupt(err error) ExitError  { return ExitError{Code: Interrupted, Err: err} }

// Code returns the process exit code for err.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return Error
}
