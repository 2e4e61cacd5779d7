package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/platform/internal/config"
	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/port/accounts"
)

type fakeAccountStore struct {
	records map[string]*accounts.Record
	nextID  int64
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{records: map[string]*accounts.Record{}, nextID: 1}
}

func (f *fakeAccountStore) GetAccountByEmail(_ context.Context, email string) (*accounts.Record, error) {
	if r, ok := f.records[email]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountStore) CreateAccount(_ context.Context, rec *accounts.Record) error {
	rec.ID = f.nextID
	f.nextID++
	cp := *rec
	f.records[rec.Email] = &cp
	return nil
}

func (f *fakeAccountStore) UpdateAccountPassword(_ context.Context, email, hash string) error {
	r, ok := f.records[email]
	if !ok {
		return domain.ErrNotFound
	}
	r.PasswordHash = hash
	return nil
}

func (f *fakeAccountStore) ListAccounts(_ context.Context) ([]accounts.Record, error) {
	out := make([]accounts.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAccountStore) CountAccounts(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func int64Ptr(v int64) *int64 { return &v }

func testAuthConfig() config.Auth {
	// Minimum cost keeps the bcrypt work factor test-friendly.
	return config.Auth{
		BcryptCost:        bcrypt.MinCost,
		DefaultAdminEmail: "root@sekolahku.id",
		DefaultAdminPass:  "BootstrapPass1!",
	}
}

func TestCreateHashesPasswordAndNormalizesEmail(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccountService(store, testAuthConfig())

	rec, err := svc.Create(context.Background(), CreateInput{
		Email:    "  Admin@SDN1.sch.id ",
		Name:     "Kepala Sekolah",
		Password: "correct horse",
		Role:     identity.RoleSchoolAdmin,
		TenantID: int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if rec.Email != "admin@sdn1.sch.id" {
		t.Errorf("email = %q, want lowercased", rec.Email)
	}
	if rec.PasswordHash == "correct horse" {
		t.Fatal("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestCreateEnforcesRoleTenantInvariant(t *testing.T) {
	svc := NewAccountService(newFakeAccountStore(), testAuthConfig())

	_, err := svc.Create(context.Background(), CreateInput{
		Email:    "op@sdn1.sch.id",
		Name:     "Operator",
		Password: "long enough",
		Role:     identity.RoleOperator,
		// missing tenant
	})
	if err == nil {
		t.Fatal("expected invariant violation")
	}

	_, err = svc.Create(context.Background(), CreateInput{
		Email:    "root2@sekolahku.id",
		Name:     "Root",
		Password: "long enough",
		Role:     identity.RoleSuperAdmin,
		TenantID: int64Ptr(1),
	})
	if err == nil {
		t.Fatal("super admin with a tenant must be rejected")
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := NewAccountService(newFakeAccountStore(), testAuthConfig())

	_, err := svc.Create(context.Background(), CreateInput{
		Email:    "root2@sekolahku.id",
		Name:     "Root",
		Password: "short",
		Role:     identity.RoleSuperAdmin,
	})
	if err == nil {
		t.Fatal("expected short password rejection")
	}
}

func TestResetPassword(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccountService(store, testAuthConfig())

	if _, err := svc.Create(context.Background(), CreateInput{
		Email:    "root2@sekolahku.id",
		Name:     "Root",
		Password: "original pass",
		Role:     identity.RoleSuperAdmin,
	}); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword(context.Background(), "root2@sekolahku.id", "replacement pass"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rec := store.records["root2@sekolahku.id"]
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("replacement pass")); err != nil {
		t.Errorf("new hash does not verify: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "nobody@sekolahku.id", "whatever long"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSeedSuperAdmin(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccountService(store, testAuthConfig())

	if err := svc.SeedSuperAdmin(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, ok := store.records["root@sekolahku.id"]
	if !ok {
		t.Fatal("default admin not created")
	}
	if rec.Role != identity.RoleSuperAdmin || rec.TenantID != nil {
		t.Fatalf("unexpected seeded record: %+v", rec)
	}

	// Idempotent: a populated store stays untouched.
	if err := svc.SeedSuperAdmin(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("got %d records, want 1", len(store.records))
	}
}
