package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/sekolahku/platform/internal/adapter/postgres"
	"github.com/sekolahku/platform/internal/config"
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/service"
)

// runAdmin dispatches admin subcommands.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-account":
		return runAdminCreateAccount(args[1:])
	case "reset-password":
		return runAdminResetPassword(args[1:])
	case "list-accounts":
		return runAdminListAccounts(args[1:])
	case "create-tenant":
		return runAdminCreateTenant(args[1:])
	case "list-tenants":
		return runAdminListTenants(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: sekolahku admin <command> [options]

Commands:
  create-account   Create a new account
  reset-password   Reset an account's password
  list-accounts    List all accounts
  create-tenant    Register a new school site
  list-tenants     List all school sites
  help             Show this help message

Examples:
  sekolahku admin create-tenant --domain sdn1-jakarta.sch.id --name "SDN 1 Jakarta"
  sekolahku admin create-account --email kepala@sdn1.sch.id --name "Kepala Sekolah" --role school_admin --tenant 1
  sekolahku admin reset-password --email kepala@sdn1.sch.id
  sekolahku admin list-accounts
`)
}

type adminDeps struct {
	accounts *service.AccountService
	tenants  *service.TenantService
	cleanup  func()
}

func loadAdminDeps() (*adminDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool)
	return &adminDeps{
		accounts: service.NewAccountService(store, cfg.Auth),
		tenants:  service.NewTenantService(store, nil),
		cleanup:  pool.Close,
	}, nil
}

func runAdminCreateAccount(args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	name := fs.String("name", "", "account display name (required)")
	role := fs.String("role", string(identity.RoleOperator), "role: super_admin, school_admin or operator")
	tenantID := fs.Int64("tenant", 0, "owning tenant id (required except for super_admin)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if pass != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	in := service.CreateInput{
		Email:    *email,
		Name:     *name,
		Password: pass,
		Role:     identity.Role(*role),
	}
	if *tenantID != 0 {
		in.TenantID = tenantID
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	rec, err := deps.accounts.Create(context.Background(), in)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Account created: %s (id=%d, role=%s)\n", rec.Email, rec.ID, rec.Role)
	return nil
}

func runAdminResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email address (required)")
	password := fs.String("password", "", "new password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	newPass := *password
	if newPass == "" {
		var err error
		newPass, err = promptPassword("New password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if newPass != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	if err := deps.accounts.ResetPassword(context.Background(), *email, newPass); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Password reset successfully for %s\n", *email)
	return nil
}

func runAdminListAccounts(args []string) error {
	fs := flag.NewFlagSet("list-accounts", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	recs, err := deps.accounts.List(context.Background())
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	if len(recs) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tTENANT\tENABLED")
	for i := range recs {
		tenantCol := "-"
		if recs[i].TenantID != nil {
			tenantCol = fmt.Sprintf("%d", *recs[i].TenantID)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
			recs[i].ID, recs[i].Email, recs[i].Name, recs[i].Role, tenantCol, recs[i].Enabled)
	}
	return w.Flush()
}

func runAdminCreateTenant(args []string) error {
	fs := flag.NewFlagSet("create-tenant", flag.ContinueOnError)
	domain := fs.String("domain", "", "school site domain (required)")
	name := fs.String("name", "", "school display name (required)")
	accent := fs.String("accent", "", "theme accent color, e.g. #1d4ed8")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	t, err := deps.tenants.Create(context.Background(), tenant.CreateRequest{
		Domain: *domain,
		Name:   *name,
		Accent: *accent,
	})
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Tenant created: %s (id=%d)\n", t.Domain, t.ID)
	return nil
}

func runAdminListTenants(args []string) error {
	fs := flag.NewFlagSet("list-tenants", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	tenants, err := deps.tenants.List(context.Background())
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	if len(tenants) == 0 {
		fmt.Println("No tenants found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDOMAIN\tNAME\tENABLED")
	for i := range tenants {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%t\n",
			tenants[i].ID, tenants[i].Domain, tenants[i].Name, tenants[i].Enabled)
	}
	return w.Flush()
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
