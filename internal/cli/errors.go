// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/config"
	"github.com/jeranaias/skybot-tui/internal/skybot"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// Process exit codes. Scripts can tell a bad invocation from an
// unreachable backend from a backend that answered with an error.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2 // bad arguments, rejected file, empty query
	ExitConfigError  = 3
	ExitNetworkError = 5 // backend unreachable
	ExitBackendError = 6 // backend answered with an error
	ExitTimeoutError = 8
)

// ValidationError is bad command-line input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string // optional usage line
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Value)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "\nUsage: %s", e.Example)
	}
	return b.String()
}

// ErrMissingArgument reports a required positional argument that was not
// given.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// DisplayError prints err as "[ERROR] msg", or as a JSON error envelope
// when jsonMode is set.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	switch {
	case err == nil:
	case jsonMode:
		_ = NewJSONErrorResponse(command, err).Write(w)
	default:
		fmt.Fprintln(w, errorLabel("[ERROR]"), err)
	}
}

// GetExitCode maps err to one of the Exit* codes.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var connErr *skybot.ConnectionError
	switch {
	case isUsageError(err):
		return ExitUsageError
	case errorAs[config.ValidateErrors](err):
		return ExitConfigError
	case errorAs[*skybot.APIError](err):
		return ExitBackendError
	case errors.As(err, &connErr) && errors.Is(connErr, context.DeadlineExceeded):
		return ExitTimeoutError
	case connErr != nil:
		return ExitNetworkError
	}
	return ExitGeneralError
}

func isUsageError(err error) bool {
	return errors.Is(err, skybot.ErrEmptyQuery) ||
		errorAs[*ValidationError](err) ||
		errorAs[*upload.ValidationError](err) ||
		errorAs[*skybot.FileTooLargeError](err)
}

func errorAs[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
