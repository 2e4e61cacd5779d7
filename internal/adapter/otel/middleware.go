package otel

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPMiddleware wraps the router in otelhttp so every navigation
// carries a span covering resolution, the guard and the handler.
// Health probes and the WebSocket upgrade are excluded: the first is
// noise, the second is a long-lived connection that would hold a span
// open for its whole lifetime.
func HTTPMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && !strings.HasPrefix(r.URL.Path, "/ws")
			}))
	}
}
