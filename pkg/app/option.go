package app

import (
	"net/http"
)

// Option configures the environment run by Run().
type Option func(o *opts)

type opts struct {
	middleware []func(http.Handler) http.Handler
}

// WithMiddleware configures the app's HTTP server to wrap the app handler
// with the provided middleware.
//
// Middleware is evaluated in addition order, and configured middleware is
// executed after the app's default instrumentation.
func WithMiddleware(middleware func(http.Handler) http.Handler) Option {
	return func(o *opts) {
		o.middleware = append(o.middleware, middleware)
	}
}

func (o *opts) wrap(handler http.Handler) http.Handler {
	for i := len(o.middleware) - 1; i >= 0; i-- {
		handler = o.middleware[i](handler)
	}
	return handler
}
