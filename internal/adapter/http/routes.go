package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekolahku/platform/internal/guard"
	"github.com/sekolahku/platform/internal/middleware"
	"github.com/sekolahku/platform/internal/tenancy"
)

// MountRoutes registers all routes on the given chi router. loginLimit
// protects the credential endpoint; everything else rides the global
// middleware chain.
func MountRoutes(r chi.Router, h *Handlers, resolver *tenancy.Resolver, loginLimit *middleware.RateLimiter) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/context", h.Context)

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit.Handler).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		// Development tenant override. Hard 403 outside dev mode.
		r.Route("/dev/tenant", func(r chi.Router) {
			r.Use(middleware.DevModeOnly(resolver))
			r.Post("/", h.DevTenantSwitch)
			r.Delete("/", h.DevTenantClear)
		})

		// Tenant directory management, platform surface only.
		r.Route("/tenants", func(r chi.Router) {
			r.Use(h.GuardAPI(guard.SuperConsole))
			r.Get("/", h.ListTenants)
			r.Post("/", h.CreateTenant)
			r.Get("/{id}", h.GetTenant)
			r.Put("/{id}", h.UpdateTenant)
		})
	})

	// Login entry points.
	r.Get(guard.TenantLogin, h.TenantLoginPage)
	r.Get(guard.PlatformLogin, h.PlatformLoginPage)

	// Management consoles. Each one sits behind its guard.
	r.With(h.Guard(guard.SuperConsole)).Get("/super", h.Console(guard.SuperConsole))
	r.With(h.Guard(guard.AdminConsole)).Get("/admin", h.Console(guard.AdminConsole))
	r.With(h.Guard(guard.OperatorConsole)).Get("/operator", h.Console(guard.OperatorConsole))
}
