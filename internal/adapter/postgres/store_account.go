package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/port/accounts"
)

const accountColumns = `id, email, name, role, tenant_id, password_hash, enabled, created_at, updated_at`

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*accounts.Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get account by email: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *accounts.Record) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, name, role, tenant_id, password_hash, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		strings.ToLower(strings.TrimSpace(a.Email)), a.Name, a.Role, a.TenantID, a.PasswordHash, a.Enabled)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *Store) UpdateAccountPassword(ctx context.Context, email, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)), passwordHash)
	if err != nil {
		return fmt.Errorf("update account password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update account password: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]accounts.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []accounts.Record
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func scanAccount(row scannable) (*accounts.Record, error) {
	var a accounts.Record
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.TenantID, &a.PasswordHash, &a.Enabled, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
