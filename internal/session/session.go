// Package session owns the current-identity slot for each browsing
// session: establishing it on login, clearing it on logout, and
// notifying subscribers when it changes. Only this package writes the
// slot; all other code reads immutable snapshots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/port/credential"
	"github.com/sekolahku/platform/internal/port/events"
	"github.com/sekolahku/platform/internal/resilience"
)

// Audit event subjects published by the manager.
const (
	SubjectLogin  = "auth.login"
	SubjectLogout = "auth.logout"
)

// Broadcaster pushes identity-change notifications to connected UI
// clients so open views re-evaluate their guards.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Manager maps session ids to identity slots. At most one identity is
// live per slot; establishing a new one discards the previous.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*slot

	verifier credential.Verifier
	breaker  *resilience.Breaker
	events   events.Publisher // optional
	hub      Broadcaster      // optional
	ttl      time.Duration
}

// slot is one session's exclusively-owned identity cell. Its mutex
// serializes logins so two in-flight attempts cannot interleave writes.
type slot struct {
	mu       sync.Mutex
	id       *identity.Identity
	lastSeen time.Time
}

// NewManager creates a session manager. events and hub may be nil.
func NewManager(verifier credential.Verifier, breaker *resilience.Breaker, pub events.Publisher, hub Broadcaster, ttl time.Duration) *Manager {
	return &Manager{
		slots:    make(map[string]*slot),
		verifier: verifier,
		breaker:  breaker,
		events:   pub,
		hub:      hub,
		ttl:      ttl,
	}
}

// NewSessionID returns a fresh opaque session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Login verifies the credential, checks the intended role and tenant,
// and on success publishes the resulting identity as the session's
// current identity. Failures are returned as the four sentinel errors
// of the identity package, never as panics or raw collaborator errors.
func (m *Manager) Login(ctx context.Context, sid string, in identity.LoginInput) (*identity.Identity, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Join(identity.ErrInvalidCredentials, err)
	}

	s := m.slot(sid)
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := m.verify(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	// The credential is correct; now the login form's intent must match
	// the account. A valid operator credential must not open the admin
	// console, and a credential from another school must not log in here.
	if acct.Role != in.Role {
		return nil, identity.ErrRoleMismatch
	}
	if in.TenantID != nil && (acct.TenantID == nil || *acct.TenantID != *in.TenantID) {
		return nil, identity.ErrTenantMismatch
	}

	id := identity.New(acct)
	s.id = id
	s.lastSeen = time.Now()

	m.notify(ctx, SubjectLogin, sid, id)
	slog.Info("identity established", "session", sid, "account_id", id.ID, "role", id.Role)
	return id, nil
}

// verify runs the credential check through the circuit breaker and maps
// every outcome onto the login failure taxonomy. Invalid credentials do
// not count as collaborator failures; transport errors and an open
// breaker both collapse to ErrBackendUnavailable (fail closed).
func (m *Manager) verify(ctx context.Context, email, password string) (*identity.Account, error) {
	var acct *identity.Account
	var denied error

	err := m.breaker.Execute(func() error {
		a, err := m.verifier.Verify(ctx, email, password)
		switch {
		case err == nil:
			acct = a
			return nil
		case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, domain.ErrNotFound):
			denied = identity.ErrInvalidCredentials
			return nil
		default:
			return err
		}
	})
	if err != nil {
		slog.Warn("credential verification unavailable", "error", err)
		return nil, identity.ErrBackendUnavailable
	}
	if denied != nil {
		return nil, denied
	}
	if err := acct.Validate(); err != nil {
		slog.Error("credential service returned invalid account", "error", err)
		return nil, identity.ErrBackendUnavailable
	}
	return acct, nil
}

// Logout clears the session's identity unconditionally. Idempotent:
// logging out an empty slot is a no-op, never an error.
func (m *Manager) Logout(ctx context.Context, sid string) {
	s := m.slot(sid)
	s.mu.Lock()
	had := s.id != nil
	s.id = nil
	s.mu.Unlock()

	if had {
		m.notify(ctx, SubjectLogout, sid, nil)
		slog.Info("identity cleared", "session", sid)
	}
}

// Current returns the session's live identity, or nil. The returned
// value is a snapshot; callers must not mutate it.
func (m *Manager) Current(sid string) *identity.Identity {
	m.mu.Lock()
	s, ok := m.slots[sid]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return nil
	}
	if m.ttl > 0 && time.Since(s.lastSeen) > m.ttl {
		// Session expiry behaves like a logout signaled by the backend:
		// subscribers on the change feed see it the same way.
		s.id = nil
		m.notify(context.Background(), SubjectLogout, sid, nil)
		slog.Info("identity expired", "session", sid)
		return nil
	}
	s.lastSeen = time.Now()
	return s.id
}

func (m *Manager) slot(sid string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[sid]
	if !ok {
		s = &slot{}
		m.slots[sid] = s
	}
	return s
}

// identityEvent is the payload for login/logout notifications. The
// password never appears anywhere near this type.
type identityEvent struct {
	EventID   string        `json:"event_id"`
	SessionID string        `json:"session_id"`
	AccountID int64         `json:"account_id,omitempty"`
	Role      identity.Role `json:"role,omitempty"`
	TenantID  *int64        `json:"tenant_id,omitempty"`
	At        time.Time     `json:"at"`
}

func (m *Manager) notify(ctx context.Context, subject, sid string, id *identity.Identity) {
	ev := identityEvent{
		EventID:   uuid.NewString(),
		SessionID: sid,
		At:        time.Now().UTC(),
	}
	if id != nil {
		ev.AccountID = id.ID
		ev.Role = id.Role
		ev.TenantID = id.TenantID
	}

	if m.hub != nil {
		m.hub.BroadcastEvent(ctx, subject, ev)
	}
	if m.events != nil {
		data, err := json.Marshal(ev)
		if err == nil {
			err = m.events.Publish(ctx, subject, data)
		}
		if err != nil {
			slog.Warn("audit publish failed", "subject", subject, "error", err)
		}
	}
}
