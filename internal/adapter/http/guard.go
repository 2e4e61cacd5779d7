package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sekolahku/platform/internal/adapter/ws"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/guard"
	"github.com/sekolahku/platform/internal/middleware"
)

type identityCtxKey struct{}

// IdentityFromContext returns the identity the guard admitted, or nil.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*identity.Identity)
	return id
}

// WithIdentity stores an identity on the context. Exposed for tests.
func WithIdentity(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// Guard returns middleware that enforces an area's entry rules on a
// page route. Non-admitted outcomes become a 303 redirect carrying the
// user-visible notice; a denial is never a silent no-op.
func (h *Handlers) Guard(area guard.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, id := h.decide(r, area)
			if d.Outcome == guard.Admitted {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			loc := d.Location
			if d.Notice != "" {
				loc += "?notice=" + url.QueryEscape(d.Notice)
			}
			http.Redirect(w, r, loc, http.StatusSeeOther)
		})
	}
}

// GuardAPI returns middleware that enforces an area's entry rules on
// an API route. Instead of redirecting it answers 401 for a missing
// identity and 403 for an unauthorized one.
func (h *Handlers) GuardAPI(area guard.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, id := h.decide(r, area)
			if d.Outcome == guard.Admitted {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			status := http.StatusForbidden
			if d.Outcome == guard.RedirectLogin {
				status = http.StatusUnauthorized
			}
			writeError(w, status, d.Notice)
		})
	}
}

func (h *Handlers) decide(r *http.Request, area guard.Area) (guard.Decision, *identity.Identity) {
	tc := middleware.TenantContext(r.Context())
	sid := middleware.SessionIDFromContext(r.Context())
	id := h.sessions.Current(sid)

	d := guard.Decide(tc, id, area)
	if d.Outcome == guard.Admitted {
		if h.metrics != nil {
			h.metrics.GuardAdmitted.Add(r.Context(), 1)
		}
		return d, id
	}

	if h.metrics != nil {
		h.metrics.GuardRedirected.Add(r.Context(), 1)
	}
	h.notifyDenied(r, area, d)
	return d, nil
}

func (h *Handlers) notifyDenied(r *http.Request, area guard.Area, d guard.Decision) {
	evt := ws.GuardDeniedEvent{
		Area:     area.Name,
		Location: d.Location,
		Notice:   d.Notice,
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(r.Context(), ws.EventGuardDenied, evt)
	}
	if h.events != nil {
		data, err := json.Marshal(evt)
		if err == nil {
			err = h.events.Publish(r.Context(), ws.EventGuardDenied, data)
		}
		if err != nil {
			slog.Warn("publish guard event", "error", err)
		}
	}
}
