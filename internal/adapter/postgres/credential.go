package postgres

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/port/accounts"
)

// CredentialService implements the credential port against the account
// store using bcrypt. Unknown email and wrong password both surface as
// identity.ErrInvalidCredentials so callers cannot enumerate accounts.
type CredentialService struct {
	store accounts.Store
}

// NewCredentialService creates the credential verifier.
func NewCredentialService(store accounts.Store) *CredentialService {
	return &CredentialService{store: store}
}

// Verify checks an email/password pair and returns the raw account
// record. Disabled accounts fail exactly like bad credentials.
func (c *CredentialService) Verify(ctx context.Context, email, password string) (*identity.Account, error) {
	rec, err := c.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a comparison anyway so the miss is not observable by timing.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, identity.ErrInvalidCredentials
	}
	if !rec.Enabled {
		return nil, identity.ErrInvalidCredentials
	}

	acct := rec.Account
	return &acct, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize timing between unknown-email and wrong-password paths.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")
