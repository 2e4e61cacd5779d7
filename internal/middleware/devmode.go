package middleware

import (
	"net/http"

	"github.com/sekolahku/platform/internal/tenancy"
)

// DevModeOnly returns middleware that restricts access to the
// development tenant-override endpoints. Whether development mode is
// active depends on the resolver's determination for the effective host.
func DevModeOnly(resolver *tenancy.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !resolver.DevModeActive(EffectiveHost(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"tenant switching is only available in development mode"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
