// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package postapi provides the client for the remote posts resource.
//
// Every operation returns a [result.Result]. Failures are always reported
// as one of the [result.NetworkError] values and never as a raw error or panic.
package postapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/z5labs/postboard/internal/try"
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when no BaseURL option is given.
const DefaultBaseURL = "http://localhost:3000/api/posts/"

const instrumentationName = "github.com/z5labs/postboard/postapi"

// Doer is the transport capability the Client depends on.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// BaseURL sets the URL of the posts resource.
func BaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// HTTPClient sets the transport used to perform requests.
// Default is [http.DefaultClient].
func HTTPClient(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// Logger
func Logger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// TracerProvider overrides the globally registered [trace.TracerProvider].
func TracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(instrumentationName)
	}
}

// Client issues list and create operations against the posts resource.
// It makes a single attempt per operation.
type Client struct {
	baseURL string
	doer    Doer
	log     *zap.Logger
	tracer  trace.Tracer
}

// NewClient returns a fully initialized Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		doer:    http.DefaultClient,
		log:     zap.NewNop(),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var fetchAllPolicy = statusPolicy{
	{lo: http.StatusUnauthorized, hi: http.StatusUnauthorized, err: result.Unauthorized},
	{lo: http.StatusRequestTimeout, hi: http.StatusRequestTimeout, err: result.RequestTimeout},
	{lo: 500, hi: 599, err: result.ServerError},
}

var createPolicy = statusPolicy{
	{lo: http.StatusUnauthorized, hi: http.StatusUnauthorized, err: result.Unauthorized},
	{lo: http.StatusConflict, hi: http.StatusConflict, err: result.Conflict},
	{lo: http.StatusRequestTimeout, hi: http.StatusRequestTimeout, err: result.RequestTimeout},
	{lo: http.StatusRequestEntityTooLarge, hi: http.StatusRequestEntityTooLarge, err: result.PayloadTooLarge},
	{lo: 500, hi: 599, err: result.ServerError},
}

// FetchAll retrieves every post with a single GET request.
func (c *Client) FetchAll(ctx context.Context) result.Result[[]post.Post, result.NetworkError] {
	return exchange[[]post.Post](ctx, c, "FetchAll", http.MethodGet, nil, fetchAllPolicy)
}

// Create sends p to the server with a single POST request and
// returns the post the server created.
func (c *Client) Create(ctx context.Context, p post.Post) result.Result[post.Post, result.NetworkError] {
	return exchange[post.Post](ctx, c, "Create", http.MethodPost, &p, createPolicy)
}

func exchange[T any](ctx context.Context, c *Client, op, method string, body *post.Post, policy statusPolicy) result.Result[T, result.NetworkError] {
	spanCtx, span := c.tracer.Start(ctx, "postapi.Client."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	v, err := roundTrip[T](spanCtx, c.doer, method, c.baseURL, body)
	if err == nil {
		return result.Success[T, result.NetworkError](v)
	}

	ne := classify(err, policy)
	span.RecordError(err)
	span.SetStatus(codes.Error, ne.String())
	span.SetAttributes(attribute.Stringer("postboard.network_error", ne))
	c.log.Warn(
		"posts operation failed",
		zap.String("operation", op),
		zap.Stringer("network_error", ne),
		zap.Error(err),
	)
	return result.Error[T](ne)
}

// StatusCodeError is returned for any response outside of 2xx.
type StatusCodeError struct {
	Code int
}

// Error implements the [builtin.error] interface.
func (e StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected http status code: %d", e.Code)
}

// SerializationError occurs when a post cannot be encoded into a
// request body or a response body cannot be decoded.
type SerializationError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize posts payload: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e SerializationError) Unwrap() error {
	return e.Cause
}

// ErrNullBody is the cause of a [SerializationError] for a 2xx response
// whose body is the JSON literal null.
var ErrNullBody = errors.New("response body is null")

func roundTrip[T any](ctx context.Context, doer Doer, method, url string, body *post.Post) (v T, err error) {
	defer try.Recover(&err)

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return v, SerializationError{Cause: err}
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return v, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return v, err
	}
	defer try.Drain(&err, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return v, StatusCodeError{Code: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return v, err
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return v, SerializationError{Cause: ErrNullBody}
	}
	err = json.Unmarshal(b, &v)
	if err != nil {
		return v, SerializationError{Cause: err}
	}
	return v, nil
}
