// Package tenant defines the tenant domain model: one school's
// independently branded site within the shared platform.
package tenant

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Tenant represents one school site, reachable through its own domain.
type Tenant struct {
	ID        int64     `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	Accent    string    `json:"accent"` // theme accent color, e.g. "#1d4ed8"
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to register a new tenant.
type CreateRequest struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Accent string `json:"accent,omitempty"`
}

// UpdateRequest holds the fields that can be updated on a tenant.
type UpdateRequest struct {
	Name    string `json:"name,omitempty"`
	Accent  string `json:"accent,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

var domainRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,251}[a-z0-9]$`)

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("tenant name is required")
	}
	if !domainRegex.MatchString(NormalizeDomain(r.Domain)) {
		return errors.New("invalid domain")
	}
	return nil
}

// NormalizeDomain canonicalizes a host for directory comparison:
// lowercased, trailing dot removed, and any "www." prefix stripped.
// Domain uniqueness in the directory is defined over this form.
func NormalizeDomain(host string) string {
	d := strings.ToLower(strings.TrimSpace(host))
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	return d
}
