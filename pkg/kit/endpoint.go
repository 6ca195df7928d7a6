package kit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/metrics"
)

// Endpoint is a transport-agnostic action function.
// Each action (normalize, tokenize, match) is an Endpoint.
// HTTP handlers and MCP tools both dispatch to the same Endpoints.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware wraps an Endpoint with cross-cutting concerns (metrics, request IDs).
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first is outermost.
// Chain(a, b, c)(endpoint) == a(b(c(endpoint)))
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}

// ErrInvalid marks errors caused by the request rather than the service.
// Transports map it to a client error.
var ErrInvalid = errors.New("invalid request")

// Invalidf returns an error wrapping ErrInvalid.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Outcome labels an endpoint result for metrics: "ok", "invalid" or "error".
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}

// Instrument records the endpoint name in the context and feeds the
// request counter and latency histogram.
func Instrument(name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(WithEndpoint(ctx, name), request)
			metrics.RequestSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
			metrics.RequestsTotal.WithLabelValues(name, Outcome(err)).Inc()
			return resp, err
		}
	}
}
