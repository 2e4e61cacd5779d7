package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/sekolahku/platform/internal/tenancy"
)

// OverrideCookie is the well-known key under which the development
// tenant override is persisted, so a simulated tenant survives a full
// page reload. It is cleared only by the explicit dev endpoints, never
// by a normal logout.
const OverrideCookie = "sekolahku_dev_tenant"

// overrideQueryParam is the deep-link convenience (?school_id=...). It
// seeds the override only when none is persisted yet; a stale parameter
// left in the address bar must not re-trigger a switch.
const overrideQueryParam = "school_id"

type tenantCtxKey struct{}

// ResolveTenant runs tenant resolution on every request and stores the
// resulting snapshot in the request context. The snapshot is immutable
// for the duration of the request; an override switch is visible on the
// next resolution pass only.
func ResolveTenant(resolver *tenancy.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := EffectiveHost(r)

			var override *int64
			if resolver.DevModeActive(host) {
				override = devOverride(w, r)
			}

			tc := resolver.Resolve(r.Context(), host, override)
			ctx := context.WithValue(r.Context(), tenantCtxKey{}, tc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantContext returns the resolution snapshot stored by ResolveTenant.
// Outside the middleware chain it returns a zero platform-surface context.
func TenantContext(ctx context.Context) tenancy.Context {
	if tc, ok := ctx.Value(tenantCtxKey{}).(tenancy.Context); ok {
		return tc
	}
	return tenancy.Context{Surface: tenancy.SurfacePlatform}
}

// WithTenantContext stores a resolution snapshot in ctx. Exported for
// handler tests that bypass the middleware chain.
func WithTenantContext(ctx context.Context, tc tenancy.Context) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, tc)
}

// EffectiveHost returns the request host with any port stripped.
func EffectiveHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}

// devOverride reads the persisted override cookie, falling back to the
// ?school_id= query parameter when no cookie exists yet. The parameter
// is persisted on first sight so later resolutions rely on the cookie
// alone.
func devOverride(w http.ResponseWriter, r *http.Request) *int64 {
	if c, err := r.Cookie(OverrideCookie); err == nil && c.Value != "" {
		if id, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
			return &id
		}
		// A mangled cookie would otherwise shadow the ?school_id=
		// reseed path until it is cleared by hand.
		ClearOverrideCookie(w)
	}

	if v := r.URL.Query().Get(overrideQueryParam); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			SetOverrideCookie(w, id)
			return &id
		}
	}
	return nil
}

// SetOverrideCookie persists the development tenant override.
func SetOverrideCookie(w http.ResponseWriter, id int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     OverrideCookie,
		Value:    strconv.FormatInt(id, 10),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearOverrideCookie removes the development tenant override.
func ClearOverrideCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     OverrideCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
