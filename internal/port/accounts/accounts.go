// Package accounts defines the port for the account store.
package accounts

import (
	"context"
	"time"

	"github.com/sekolahku/platform/internal/domain/identity"
)

// Record is an account row including the stored password hash. Only
// the credential verifier and the management surfaces see this type;
// the hash never crosses into the identity domain.
type Record struct {
	identity.Account
	PasswordHash string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists account records. Lookups return domain.ErrNotFound
// for unknown emails.
type Store interface {
	GetAccountByEmail(ctx context.Context, email string) (*Record, error)
	CreateAccount(ctx context.Context, rec *Record) error
	UpdateAccountPassword(ctx context.Context, email, passwordHash string) error
	ListAccounts(ctx context.Context) ([]Record, error)
	CountAccounts(ctx context.Context) (int64, error)
}
