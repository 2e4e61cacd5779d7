// Package events defines the port for publishing audit events.
package events

import "context"

// Publisher appends an event to the audit stream. Publishing is
// best-effort from the caller's perspective: an audit failure must
// never block a login or a tenant switch.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
