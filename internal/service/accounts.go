// Package service wires the domain model to the ports: tenant
// directory management and account administration.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/platform/internal/config"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/port/accounts"
)

// AccountService manages accounts from the platform console and the
// admin CLI. Password verification lives in the credential adapter,
// not here.
type AccountService struct {
	store accounts.Store
	cfg   config.Auth
}

// NewAccountService creates an account service.
func NewAccountService(store accounts.Store, cfg config.Auth) *AccountService {
	return &AccountService{store: store, cfg: cfg}
}

// CreateInput holds the fields for a new account.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Role     identity.Role
	TenantID *int64
}

// Create registers a new account with a bcrypt-hashed password.
func (s *AccountService) Create(ctx context.Context, in CreateInput) (*accounts.Record, error) {
	rec := &accounts.Record{
		Account: identity.Account{
			Email:    strings.ToLower(strings.TrimSpace(in.Email)),
			Name:     in.Name,
			Role:     in.Role,
			TenantID: in.TenantID,
		},
		Enabled: true,
	}
	if err := rec.Account.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	rec.PasswordHash = string(hash)

	if err := s.store.CreateAccount(ctx, rec); err != nil {
		return nil, err
	}
	slog.Info("account created", "account_id", rec.ID, "role", rec.Role)
	return rec, nil
}

// ResetPassword replaces the stored hash for an existing account.
func (s *AccountService) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdateAccountPassword(ctx, email, string(hash))
}

// List returns all accounts for the management surfaces.
func (s *AccountService) List(ctx context.Context) ([]accounts.Record, error) {
	return s.store.ListAccounts(ctx)
}

// SeedSuperAdmin creates the default platform administrator on an
// empty account store so a fresh deployment is reachable. It is a
// no-op once any account exists or when no default password is set.
func (s *AccountService) SeedSuperAdmin(ctx context.Context) error {
	n, err := s.store.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 || s.cfg.DefaultAdminPass == "" {
		return nil
	}

	_, err = s.Create(ctx, CreateInput{
		Email:    s.cfg.DefaultAdminEmail,
		Name:     "Platform Admin",
		Password: s.cfg.DefaultAdminPass,
		Role:     identity.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	slog.Warn("seeded default super admin; change the password immediately",
		"email", s.cfg.DefaultAdminEmail)
	return nil
}
