// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package upstream implements the typed HTTP client for the Litbooks catalog
backend.

All persistence, credential verification, and business-rule enforcement live
behind this client; the gateway only mirrors what it returns.

Architecture:

  - Client: shared transport with bearer injection, outbound rate limiting,
    and a circuit breaker around every call.
  - AuthAPI / BooksAPI surface: one method per backend endpoint, typed
    request and response structs, no leaked *http.Response.
  - Errors: every failure is converted to an [apperr.AppError] whose message
    is safe to surface verbatim on a view's error banner.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
)

// Client is the shared transport for all catalog backend calls.
//
// # Concurrency
//
// Client is safe for concurrent use; the limiter and breaker serialize
// internally.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient constructs a catalog client rooted at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.UpstreamRequestTimeout,
		},
		limiter: rate.NewLimiter(
			rate.Limit(constants.UpstreamRateLimitRPS),
			constants.UpstreamRateLimitBurst,
		),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "catalog-api",
		}),
		logger: logger,
	}
}

// Ping performs an unauthenticated reachability probe for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/books/?limit=1", nil)
	if err != nil {
		return fmt.Errorf("upstream: failed to build ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("upstream: ping returned status %d", resp.StatusCode)
	}
	return nil
}

// # Request Plumbing

// call describes one backend round trip.
type call struct {
	method string
	path   string
	query  url.Values
	// jsonBody is marshaled when non-nil; formBody wins when both are set.
	jsonBody any
	formBody url.Values
	// token is attached as a bearer Authorization header when non-empty.
	token string
	// want is the expected success status (e.g. 200, 201, 204).
	want int
}

// do executes a call through the rate limiter and circuit breaker, decoding
// a successful response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, call call, out any) error {

	// Outbound throttle: a traffic burst on the gateway must not become a
	// traffic burst on the catalog service.
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.ServiceUnavailable("The catalog service is temporarily unavailable", err)
	}

	body, err := c.breaker.Execute(func() (any, error) {
		return c.roundTrip(ctx, call)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperr.ServiceUnavailable("The catalog service is temporarily unavailable", err)
		}
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return apperr.Upstream("The catalog service returned an unreadable response", err)
	}
	return nil
}

// roundTrip performs the HTTP exchange and maps non-success statuses to
// [apperr.AppError] values.
func (c *Client) roundTrip(ctx context.Context, call call) ([]byte, error) {
	var reqBody io.Reader
	contentType := ""

	switch {
	case call.formBody != nil:
		reqBody = strings.NewReader(call.formBody.Encode())
		contentType = "application/x-www-form-urlencoded"
	case call.jsonBody != nil:
		encoded, err := json.Marshal(call.jsonBody)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("upstream: failed to encode request body: %w", err))
		}
		reqBody = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	target := c.baseURL + call.path
	if len(call.query) > 0 {
		target += "?" + call.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, call.method, target, reqBody)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upstream: failed to build request: %w", err))
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if call.token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+call.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream_unreachable",
			slog.String("method", call.method),
			slog.String("path", call.path),
			slog.Any("error", err),
		)
		return nil, apperr.ServiceUnavailable("Unable to reach the catalog service", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("The catalog service returned an unreadable response", err)
	}

	if resp.StatusCode != call.want {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	return raw, nil
}

// statusError converts an upstream error response into an [apperr.AppError].
//
// The backend reports errors as {"detail": "..."} (FastAPI convention);
// validation failures carry a structured detail array instead of a string.
func (c *Client) statusError(status int, raw []byte) error {
	detail := extractDetail(raw)

	switch {
	case status == http.StatusBadRequest:
		if detail == "" {
			detail = "The catalog service rejected the request"
		}
		return apperr.ValidationError(detail)
	case status == http.StatusUnauthorized:
		if detail == "" {
			detail = "Invalid or expired credentials"
		}
		return apperr.Unauthorized(detail)
	case status == http.StatusForbidden:
		if detail == "" {
			detail = "You do not have permission to do this"
		}
		return apperr.Forbidden(detail)
	case status == http.StatusNotFound:
		if detail == "" {
			detail = "Resource not found"
		}
		return &apperr.AppError{Code: "NOT_FOUND", Message: detail, HTTPStatus: http.StatusNotFound}
	case status == http.StatusConflict:
		if detail == "" {
			detail = "The resource already exists"
		}
		return apperr.Conflict(detail)
	case status == http.StatusUnprocessableEntity:
		if detail == "" {
			detail = "The catalog service rejected the submitted data"
		}
		return apperr.Unprocessable(detail)
	case status == http.StatusTooManyRequests:
		if detail == "" {
			detail = "Too many requests, slow down"
		}
		return apperr.RateLimited(detail)
	default:
		if detail == "" {
			detail = fmt.Sprintf("The catalog service failed with status %d", status)
		}
		return apperr.Upstream(detail, nil)
	}
}

// extractDetail pulls a human-readable message out of an upstream error body.
func extractDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Detail == nil {
		return ""
	}

	// Plain string detail.
	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return message
	}

	// Structured validation detail: surface the first message.
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}

	return ""
}
