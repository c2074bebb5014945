// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpclient provides the single attempt http.Client used to
// reach the posts resource.
package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type circuitOptions struct {
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	tripCount   uint32
	statusCodes []int
}

func withCircuitOption(f func(*circuitOptions)) Option {
	return func(o *options) {
		if o.co == nil {
			o.co = &circuitOptions{
				maxRequests: 1,
				timeout:     60 * time.Second,
				tripCount:   5,
			}
		}
		f(o.co)
	}
}

// CircuitBreaker enables the circuit breaker with its default settings.
// While the circuit is open requests fail fast with [gobreaker.ErrOpenState].
func CircuitBreaker() Option {
	return withCircuitOption(func(*circuitOptions) {})
}

// HalfOpenRequests is the maximum number of requests allowed through
// while the circuit is half-open.
func HalfOpenRequests(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.maxRequests = n
	})
}

// OpenStateTimeout is how long the circuit stays open before becoming half-open.
func OpenStateTimeout(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.timeout = d
	})
}

// CountResetInterval is the cyclic period of the closed state after which
// the failure counts are cleared. Zero never clears them.
func CountResetInterval(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.interval = d
	})
}

// TripAfter is the number of consecutive failures which opens the circuit.
func TripAfter(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.tripCount = n
	})
}

// TripOnStatusCode registers a response status code which counts as a
// failure for the circuit breaker. The response itself is still returned.
//
// Default: 500, 502, 503, 504
func TripOnStatusCode(code int) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.statusCodes = append(co.statusCodes, code)
	})
}

type options struct {
	timeout time.Duration
	rt      http.RoundTripper

	name   string
	logger *zap.Logger

	co *circuitOptions
}

// Option configures the client returned by New.
type Option func(*options)

// Name names the client. It's used for the logger and circuit breaker names.
func Name(s string) Option {
	return func(o *options) {
		o.name = s
	}
}

// RoundTripper overrides the base transport. Default is [http.DefaultTransport].
func RoundTripper(rt http.RoundTripper) Option {
	return func(o *options) {
		o.rt = rt
	}
}

// Timeout provides a global timeout value for the http.Client.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Logger
func Logger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New returns a http.Client which makes exactly one attempt per request.
func New(opts ...Option) *http.Client {
	o := &options{
		rt:     http.DefaultTransport,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if o.name != "" {
		log = log.Named(o.name)
	}

	var rt http.RoundTripper = &logRoundTripper{
		base: o.rt,
		log:  log,
	}
	if o.co != nil {
		rt = newCircuitRoundTripper(o.name, rt, o.co, log)
	}
	rt = otelhttp.NewTransport(rt)

	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
		},
		Logger: nil,
		// Requests are never retried, failures are reported to the caller as-is.
		RetryMax: 0,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			log.Debug(
				"sending http request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("request_attempt_count", attempt+1),
			)
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			log.Debug(
				"received http response",
				zap.String("url", resp.Request.URL.String()),
				zap.Int("http_status_code", resp.StatusCode),
			)
		},
		CheckRetry: func(context.Context, *http.Response, error) (bool, error) {
			return false, nil
		},
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

type logRoundTripper struct {
	base http.RoundTripper
	log  *zap.Logger
}

func (rt *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	rt.log.Info(
		"request sent",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)
	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		rt.log.Warn(
			"request failed",
			zap.String("url", req.URL.String()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	rt.log.Info(
		"response received",
		zap.String("url", req.URL.String()),
		zap.Int("http_status_code", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

type statusCodeError struct {
	code int
}

func (e statusCodeError) Error() string {
	return http.StatusText(e.code)
}

type circuitRoundTripper struct {
	base         http.RoundTripper
	cb           *gobreaker.CircuitBreaker
	onStatusCode func(int) error
}

func newCircuitRoundTripper(name string, base http.RoundTripper, co *circuitOptions, log *zap.Logger) *circuitRoundTripper {
	if len(co.statusCodes) == 0 {
		co.statusCodes = append(
			co.statusCodes,
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		)
	}
	codes := map[int]struct{}{}
	for _, code := range co.statusCodes {
		codes[code] = struct{}{}
	}

	return &circuitRoundTripper{
		base: base,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: co.maxRequests,
			Interval:    co.interval,
			Timeout:     co.timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= co.tripCount
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				switch to {
				case gobreaker.StateOpen:
					log.Error("circuit has been opened")
				case gobreaker.StateHalfOpen:
					log.Warn(
						"circuit is now half open and letting some requests through",
						zap.Uint32("max_requests_allowed_through", co.maxRequests),
					)
				case gobreaker.StateClosed:
					log.Info("circuit has been closed")
				}
			},
		}),
		onStatusCode: func(n int) error {
			_, ok := codes[n]
			if !ok {
				return nil
			}
			return statusCodeError{code: n}
		},
	}
}

func (rt *circuitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := rt.cb.Execute(func() (interface{}, error) {
		resp, err := rt.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		return resp, rt.onStatusCode(resp.StatusCode)
	})

	var sce statusCodeError
	if errors.As(err, &sce) {
		return v.(*http.Response), nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
