/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
)

type APIClient struct {
	baseURL     string
	client      *http.Client
	tokenSource TokenSource
	config      *TestConfig
	endpoints   *Endpoints
	logger      logr.Logger
}

// Request describes a single call, Body is JSON encoded unless it is already
// a []byte or string in which case it is sent verbatim.
type Request struct {
	Method        string
	Path          string
	Body          any
	Authenticated bool
	Header        http.Header
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Cookies    []*http.Cookie
	Body       []byte
	TraceID    string
	Duration   time.Duration
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return newAPIClientWithConfig(config, config.BaseURL)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		logger:    ginkgo.GinkgoLogr.WithName("booker"),
	}
}

// SetTokenSource sets where authenticated requests get their token from.
func (c *APIClient) SetTokenSource(source TokenSource) {
	c.tokenSource = source
}

// SetAuthToken pins a fixed token, mostly useful for sending invalid ones.
func (c *APIClient) SetAuthToken(token AuthToken) {
	c.tokenSource = StaticToken(token)
}

func (c *APIClient) SetLogger(logger logr.Logger) {
	c.logger = logger
}

// createTraceParent creates a W3C traceparent header value.
// A new trace ID per request means a failure can be found in the remote logs.
func createTraceParent() string {
	traceID := strings.ReplaceAll(uuid.NewString(), "-", "")
	spanID := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func encodeBody(body any) ([]byte, error) {
	switch t := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		return data, nil
	}
}

// Do issues a request and returns the response whatever its status code.
// Only transport failures are errors.
func (c *APIClient) Do(ctx context.Context, request Request) (*Response, error) {
	body, err := encodeBody(request.Body)
	if err != nil {
		return nil, err
	}

	var cookie *http.Cookie

	if request.Authenticated && c.tokenSource != nil {
		token, err := c.tokenSource.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquiring session token: %w", err)
		}

		if token != "" {
			cookie = &http.Cookie{Name: TokenCookieName, Value: string(token)}
		}
	}

	attempt := func() (*Response, error) {
		resp, err := c.roundTrip(ctx, request, body, cookie)
		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) {
				return nil, err
			}

			return nil, backoff.Permanent(err)
		}

		return resp, nil
	}

	if c.config.RetryAttempts == 0 {
		return c.roundTrip(ctx, request, body, cookie)
	}

	//nolint:gosec // retry attempts are validated to be non-negative
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.config.RetryAttempts)), ctx)

	resp, err := backoff.RetryWithData(attempt, policy)
	if err != nil {
		var netErr *NetworkError
		if !errors.As(err, &netErr) && ctx.Err() != nil {
			return nil, &NetworkError{Method: request.Method, Path: request.Path, Err: err}
		}

		return nil, err
	}

	return resp, nil
}

func (c *APIClient) roundTrip(ctx context.Context, request Request, body []byte, cookie *http.Cookie) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, c.baseURL+request.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, values := range request.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")

	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	log := c.logger.WithValues("method", request.Method, "path", request.Path, "traceID", traceID)

	if c.config.LogRequests && body != nil {
		log.Info("request body", "body", string(body))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		netErr := &NetworkError{Method: request.Method, Path: request.Path, Err: err}
		log.Error(netErr, "http request failed", "duration", duration, "timeout", netErr.Timeout())

		return nil, netErr
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := &NetworkError{Method: request.Method, Path: request.Path, Err: fmt.Errorf("reading response body: %w", err)}
		log.Error(netErr, "reading response body", "status", resp.StatusCode, "duration", duration)

		return nil, netErr
	}

	if c.config.LogRequests {
		log.Info("request complete", "status", resp.StatusCode, "duration", duration)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		log.Info("response body", "body", string(respBody))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Cookies:    resp.Cookies(),
		Body:       respBody,
		TraceID:    traceID,
		Duration:   duration,
	}, nil
}

// doRequest issues a request and fails unless the status is one of those expected.
func (c *APIClient) doRequest(ctx context.Context, request Request, expectedStatus ...int) (*Response, error) {
	resp, err := c.Do(ctx, request)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp, expectedStatus...); err != nil {
		var statusErr *UnexpectedStatusError
		if errors.As(err, &statusErr) {
			statusErr.Method = request.Method
			statusErr.Path = request.Path
		}

		c.logger.Info("UNEXPECTED STATUS", "method", request.Method, "path", request.Path, "expected", expectedStatus, "got", resp.StatusCode, "body", string(resp.Body), "traceID", resp.TraceID)

		return resp, err
	}

	return resp, nil
}

// Authenticate exchanges credentials for a session token.
func (c *APIClient) Authenticate(ctx context.Context, username, password string) (AuthToken, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   c.endpoints.CreateToken(),
		Body:   authRequest{Username: username, Password: password},
	})
	if err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: string(resp.Body)}
	}

	var body authResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: fmt.Sprintf("malformed token response: %v", err)}
	}

	if body.Token == "" {
		reason := body.Reason
		if reason == "" {
			reason = "response has no token field"
		}

		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: reason}
	}

	c.logger.V(1).Info("authenticated", "user", username)

	return AuthToken(body.Token), nil
}

// Ping checks the API is up, it answers 201.
func (c *APIClient) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Ping()}, http.StatusCreated); err != nil {
		return fmt.Errorf("pinging api: %w", err)
	}

	return nil
}

// ListBookingIDs lists booking IDs, optionally filtered.
func (c *APIClient) ListBookingIDs(ctx context.Context, filter *BookingFilter) ([]BookingID, error) {
	path, err := c.endpoints.ListBookingIDs(filter)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, Request{Method: http.MethodGet, Path: path}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	entries, err := unmarshal[[]BookingIDEntry](resp.Body)
	if err != nil {
		return nil, err
	}

	ids := make([]BookingID, len(*entries))

	for i, entry := range *entries {
		ids[i] = entry.BookingID
	}

	return ids, nil
}

// GetBooking reads a single booking.
func (c *APIClient) GetBooking(ctx context.Context, id BookingID) (*BookingRecord, error) {
	path, err := c.endpoints.GetBooking(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, Request{Method: http.MethodGet, Path: path}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("getting booking %s: %w", id, err)
	}

	return unmarshal[BookingRecord](resp.Body)
}

// CreateBooking creates a booking, the response echoes what was stored.
func (c *APIClient) CreateBooking(ctx context.Context, record BookingRecord) (*CreatedBooking, error) {
	resp, err := c.doRequest(ctx, Request{Method: http.MethodPost, Path: c.endpoints.CreateBooking(), Body: record}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	return unmarshal[CreatedBooking](resp.Body)
}

// UpdateBooking replaces every field of a booking.
func (c *APIClient) UpdateBooking(ctx context.Context, id BookingID, record BookingRecord) (*BookingRecord, error) {
	path, err := c.endpoints.UpdateBooking(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, Request{Method: http.MethodPut, Path: path, Body: record, Authenticated: true}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("updating booking %s: %w", id, err)
	}

	return unmarshal[BookingRecord](resp.Body)
}

// PatchBooking updates only the fields present in the patch.
func (c *APIClient) PatchBooking(ctx context.Context, id BookingID, patch BookingPatch) (*BookingRecord, error) {
	path, err := c.endpoints.PatchBooking(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, Request{Method: http.MethodPatch, Path: path, Body: patch, Authenticated: true}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("patching booking %s: %w", id, err)
	}

	return unmarshal[BookingRecord](resp.Body)
}

// DeleteBooking deletes a booking. The API answers 201 Created on success.
func (c *APIClient) DeleteBooking(ctx context.Context, id BookingID) error {
	path, err := c.endpoints.DeleteBooking(id)
	if err != nil {
		return err
	}

	if _, err := c.doRequest(ctx, Request{Method: http.MethodDelete, Path: path, Authenticated: true}, http.StatusCreated); err != nil {
		return fmt.Errorf("deleting booking %s: %w", id, err)
	}

	return nil
}

// IsNotFound reports whether a client error came from a 404 response.
func IsNotFound(err error) bool {
	var statusErr *UnexpectedStatusError

	return errors.As(err, &statusErr) && statusErr.Actual == http.StatusNotFound
}
