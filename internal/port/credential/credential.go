// Package credential defines the port for the credential service.
package credential

import (
	"context"

	"github.com/sekolahku/platform/internal/domain/identity"
)

// Verifier checks an email/password pair against the account store.
// It is the sole source of truth for password correctness.
//
// Verify returns identity.ErrInvalidCredentials for both unknown email
// and wrong password (collapsed to prevent account enumeration). Any
// other error means the backing store is unavailable.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*identity.Account, error)
}
