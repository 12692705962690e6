/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrAuthentication is raised when credentials cannot be exchanged for a token.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnexpectedStatus is raised when a response status code does not match.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrSchemaValidation is raised when a body does not conform to a schema.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrFieldAssertion is raised when a body field does not hold the expected value.
	ErrFieldAssertion = errors.New("field assertion failed")

	// ErrNetwork is raised when a request never produced a response.
	ErrNetwork = errors.New("network error")

	// ErrRequestTimeout is raised when a request exceeded its deadline.
	ErrRequestTimeout = errors.New("request timed out")

	ErrSchemaNotFound = errors.New("schema not found")

	ErrInvalidDate = errors.New("invalid date: must be formatted as YYYY-MM-DD")

	ErrInvalidDateRange = errors.New("invalid date range: checkin is after checkout")

	ErrMissingConfig = errors.New("missing required configuration")
)

// AuthenticationError describes a failed credential exchange.
type AuthenticationError struct {
	StatusCode int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%v: status=%d reason=%q", ErrAuthentication, e.StatusCode, e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// UnexpectedStatusError records a status code mismatch along with the body and
// trace ID so the request can be found in the remote logs.
type UnexpectedStatusError struct {
	Method   string
	Path     string
	Expected []int
	Actual   int
	Body     string
	TraceID  string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %s %s expected %v, got %d, body: %s (trace ID: %s)", ErrUnexpectedStatus, e.Method, e.Path, e.Expected, e.Actual, e.Body, e.TraceID)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// SchemaValidationError records which schema rejected a body and why.
type SchemaValidationError struct {
	Schema string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%v: schema %q: %s", ErrSchemaValidation, e.Schema, e.Reason)
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// FieldAssertionError reports the field, the expectation and what was actually seen.
type FieldAssertionError struct {
	Field    string
	Expected any
	Actual   any
}

func (e *FieldAssertionError) Error() string {
	return fmt.Sprintf("%v: field %q expected %v, got %v", ErrFieldAssertion, e.Field, e.Expected, e.Actual)
}

func (e *FieldAssertionError) Unwrap() error {
	return ErrFieldAssertion
}

// NetworkError wraps a transport level failure.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	kind := "network error"
	if e.Timeout() {
		kind = "request timed out"
	}

	return fmt.Sprintf("%s: %s %s: %v", kind, e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Timeout() {
		return []error{ErrNetwork, ErrRequestTimeout, e.Err}
	}

	return []error{ErrNetwork, e.Err}
}

// Timeout is true when the request failed because its deadline passed.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
