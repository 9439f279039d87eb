// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package skybot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jeranaias/skybot-tui/internal/util"
)

// ErrEmptyQuery is returned when a chat query is empty after trimming.
var ErrEmptyQuery = errors.New("query is empty")

// APIError is a non-success response from the backend.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned HTTP %d", e.Status)
}

// ConnectionError means the backend could not be reached or the exchange
// broke down before a status code was received.
type ConnectionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(e.Err, context.Canceled) {
		return "request cancelled"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// FileTooLargeError is returned by Ingest before transmission when a file
// exceeds the upload cap.
type FileTooLargeError struct {
	Name  string
	Size  int64
	Limit int64
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is %s, larger than the %s upload limit",
		e.Name, util.FormatBytes(e.Size), util.FormatBytes(e.Limit))
}

// IsConnection reports whether err is a transport failure.
func IsConnection(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// DetailOf returns the backend-provided detail when err is an APIError.
func DetailOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error(), true
	}
	return "", false
}

// errorFromBody classifies a non-success response. A body that is not JSON
// came from something other than the backend, such as a proxy error page,
// and is reported as a *ConnectionError.
func errorFromBody(op string, status int, body []byte, fallback string) error {
	if !json.Valid(body) {
		return &ConnectionError{
			Op:  op,
			Err: fmt.Errorf("malformed %d response from %s", status, op),
		}
	}
	return newAPIError(status, parseDetail(body), fallback)
}

func newAPIError(status int, detail, fallback string) *APIError {
	if detail == "" {
		detail = fallback
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &APIError{Status: status, Detail: detail}
}
