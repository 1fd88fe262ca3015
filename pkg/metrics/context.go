package metrics

import (
	"context"
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewContext returns a copy of ctx carrying app, making it available to the
// Record* functions.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, newRelicContextKey{}, app)
}

// FromContext returns the application stored by NewContext, if any.
func FromContext(ctx context.Context) *newrelic.Application {
	app, _ := ctx.Value(newRelicContextKey{}).(*newrelic.Application)
	return app
}

// InjectApplication is HTTP middleware that stores app in every request
// context. A nil app leaves requests untouched.
func InjectApplication(app *newrelic.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if app == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), app)))
		})
	}
}
