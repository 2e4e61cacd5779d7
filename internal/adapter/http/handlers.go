package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sekolahku/platform/internal/adapter/otel"
	"github.com/sekolahku/platform/internal/adapter/ws"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/guard"
	"github.com/sekolahku/platform/internal/middleware"
	"github.com/sekolahku/platform/internal/port/events"
	"github.com/sekolahku/platform/internal/service"
	"github.com/sekolahku/platform/internal/session"
	"github.com/sekolahku/platform/internal/tenancy"
)

const maxBodySize = 64 * 1024

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	sessions *session.Manager
	tenants  *service.TenantService
	resolver *tenancy.Resolver
	hub      *ws.Hub          // optional
	events   events.Publisher // optional
	metrics  *otel.Metrics    // optional
}

// NewHandlers creates the handler set. hub, pub and metrics may be nil.
func NewHandlers(sessions *session.Manager, tenants *service.TenantService, resolver *tenancy.Resolver, hub *ws.Hub, pub events.Publisher, metrics *otel.Metrics) *Handlers {
	return &Handlers{
		sessions: sessions,
		tenants:  tenants,
		resolver: resolver,
		hub:      hub,
		events:   pub,
		metrics:  metrics,
	}
}

// contextResponse is the resolved request context: which surface the
// request landed on, the owning tenant if any, and the current identity.
type contextResponse struct {
	Surface       tenancy.Surface    `json:"surface"`
	Tenant        *tenant.Tenant     `json:"tenant"`
	DevMode       bool               `json:"dev_mode"`
	DevOverrideID *int64             `json:"dev_override_id,omitempty"`
	Identity      *identity.Identity `json:"identity"`
}

// Context reports the resolved tenancy context and identity for the
// requesting session. The UI calls this on every navigation.
func (h *Handlers) Context(w http.ResponseWriter, r *http.Request) {
	tc := middleware.TenantContext(r.Context())
	sid := middleware.SessionIDFromContext(r.Context())

	if h.metrics != nil {
		h.metrics.Resolutions.Add(r.Context(), 1)
	}

	writeJSON(w, http.StatusOK, contextResponse{
		Surface:       tc.Surface,
		Tenant:        tc.Tenant,
		DevMode:       h.resolver.DevModeActive(middleware.EffectiveHost(r)),
		DevOverrideID: tc.DevOverrideID,
		Identity:      h.sessions.Current(sid),
	})
}

type loginRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     identity.Role `json:"role"`
}

// Login authenticates the session against the surface it arrived on.
// On a school site the owning tenant comes from the resolved context,
// never from the request body.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[loginRequest](w, r, maxBodySize)
	if !ok {
		return
	}

	tc := middleware.TenantContext(r.Context())
	sid := middleware.SessionIDFromContext(r.Context())

	// A tenant surface whose domain did not resolve has no login to
	// offer, same as the login page itself.
	if tc.OnTenant() && tc.Tenant == nil {
		writeError(w, http.StatusNotFound, "this school isn't set up here")
		return
	}

	in := identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if tc.OnTenant() {
		in.TenantID = &tc.Tenant.ID
	}

	id, err := h.sessions.Login(r.Context(), sid, in)
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginsFailed.Add(r.Context(), 1)
		}
		writeLoginError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsSucceeded.Add(r.Context(), 1)
	}
	writeJSON(w, http.StatusOK, id)
}

// writeLoginError maps the login failure taxonomy onto HTTP statuses.
// The message is the sentinel's own text so the four cases stay
// distinguishable to the login form without leaking anything more.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, identity.ErrInvalidCredentials.Error())
	case errors.Is(err, identity.ErrRoleMismatch):
		writeError(w, http.StatusForbidden, identity.ErrRoleMismatch.Error())
	case errors.Is(err, identity.ErrTenantMismatch):
		writeError(w, http.StatusForbidden, identity.ErrTenantMismatch.Error())
	case errors.Is(err, identity.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, identity.ErrBackendUnavailable.Error())
	default:
		slog.Error("unhandled login error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Logout discards the session's identity. Always succeeds.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromContext(r.Context())
	h.sessions.Logout(r.Context(), sid)
	w.WriteHeader(http.StatusNoContent)
}

type devTenantRequest struct {
	TenantID int64 `json:"tenant_id"`
}

// DevTenantSwitch pins the development tenant override cookie. Open
// views learn about the switch over the WebSocket feed and re-resolve;
// the new tenant is visible on the next resolution pass only.
func (h *Handlers) DevTenantSwitch(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[devTenantRequest](w, r, maxBodySize)
	if !ok {
		return
	}

	t, err := h.tenants.Get(r.Context(), req.TenantID)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	if !t.Enabled {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}

	middleware.SetOverrideCookie(w, t.ID)
	h.notifyTenantSwitch(r, &t.ID)
	writeJSON(w, http.StatusOK, t)
}

// DevTenantClear removes the development tenant override cookie.
func (h *Handlers) DevTenantClear(w http.ResponseWriter, r *http.Request) {
	middleware.ClearOverrideCookie(w)
	h.notifyTenantSwitch(r, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) notifyTenantSwitch(r *http.Request, tenantID *int64) {
	evt := ws.TenantSwitchEvent{TenantID: tenantID}
	if h.hub != nil {
		h.hub.BroadcastEvent(r.Context(), ws.EventTenantSwitch, evt)
	}
	if h.events != nil {
		data, err := json.Marshal(evt)
		if err == nil {
			err = h.events.Publish(r.Context(), ws.EventTenantSwitch, data)
		}
		if err != nil {
			slog.Warn("publish tenant switch event", "error", err)
		}
	}
}

// consoleResponse describes a rendered management console to the UI.
type consoleResponse struct {
	Area     string             `json:"area"`
	Tenant   *tenant.Tenant     `json:"tenant"`
	Identity *identity.Identity `json:"identity"`
}

// Console renders the named management area. The guard has already
// admitted the request by the time this runs.
func (h *Handlers) Console(area guard.Area) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc := middleware.TenantContext(r.Context())
		writeJSON(w, http.StatusOK, consoleResponse{
			Area:     area.Name,
			Tenant:   tc.Tenant,
			Identity: IdentityFromContext(r.Context()),
		})
	}
}

// loginPageResponse describes a login entry point.
type loginPageResponse struct {
	Surface tenancy.Surface `json:"surface"`
	Tenant  *tenant.Tenant  `json:"tenant"`
	Roles   []identity.Role `json:"roles"`
	Notice  string          `json:"notice,omitempty"`
}

// TenantLoginPage describes the school-site login entry point. It only
// exists where a tenant was resolved.
func (h *Handlers) TenantLoginPage(w http.ResponseWriter, r *http.Request) {
	tc := middleware.TenantContext(r.Context())
	if tc.Tenant == nil {
		writeError(w, http.StatusNotFound, "this school isn't set up here")
		return
	}
	writeJSON(w, http.StatusOK, loginPageResponse{
		Surface: tenancy.SurfaceTenant,
		Tenant:  tc.Tenant,
		Roles:   []identity.Role{identity.RoleSchoolAdmin, identity.RoleOperator},
		Notice:  r.URL.Query().Get("notice"),
	})
}

// PlatformLoginPage describes the platform login entry point.
func (h *Handlers) PlatformLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginPageResponse{
		Surface: tenancy.SurfacePlatform,
		Roles:   []identity.Role{identity.RoleSuperAdmin},
		Notice:  r.URL.Query().Get("notice"),
	})
}

// ListTenants returns every tenant, disabled ones included.
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "tenants not found")
		return
	}
	if tenants == nil {
		tenants = []tenant.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// CreateTenant registers a new school site.
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateRequest](w, r, maxBodySize)
	if !ok {
		return
	}

	t, err := h.tenants.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GetTenant fetches one tenant by id.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(w, r, "id")
	if !ok {
		return
	}

	t, err := h.tenants.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTenant applies a partial update to a tenant.
func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(w, r, "id")
	if !ok {
		return
	}
	req, ok := readJSON[tenant.UpdateRequest](w, r, maxBodySize)
	if !ok {
		return
	}

	t, err := h.tenants.Update(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
