package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newAccountRepo(t *testing.T) auth.AccountRepository {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := auth.NewSQLiteAccountRepository(context.Background(), st)
	if err != nil {
		t.Fatalf("NewSQLiteAccountRepository: %v", err)
	}
	return repo
}

func createAccount(t *testing.T, repo auth.AccountRepository, username string) *auth.Account {
	t.Helper()
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	a := &auth.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

func TestSQLiteAccountRepository_CreateAndGetByUsername(t *testing.T) {
	repo := newAccountRepo(t)
	a := createAccount(t, repo, "editor1")

	got, err := repo.GetByUsername(context.Background(), "editor1")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("ID = %q, want %q", got.ID, a.ID)
	}
	if got.Role != "editor" {
		t.Errorf("Role = %q, want default editor", got.Role)
	}
	if !auth.CheckPassword(got.PasswordHash, "hunter2") {
		t.Error("stored hash does not verify original password")
	}
}

func TestSQLiteAccountRepository_GetNotFound(t *testing.T) {
	repo := newAccountRepo(t)

	if _, err := repo.Get(context.Background(), "nope"); err != auth.ErrNotFound {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByUsername(context.Background(), "nope"); err != auth.ErrNotFound {
		t.Errorf("GetByUsername = %v, want ErrNotFound", err)
	}
}

func TestSQLiteAccountRepository_UpdatePassword(t *testing.T) {
	repo := newAccountRepo(t)
	ctx := context.Background()
	a := createAccount(t, repo, "editor2")

	newHash, err := auth.HashPassword("new-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := repo.UpdatePassword(ctx, a.ID, newHash); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !auth.CheckPassword(got.PasswordHash, "new-password") {
		t.Error("updated hash does not verify new password")
	}
}

func TestSQLiteAccountRepository_UpdateTOTPSecret(t *testing.T) {
	repo := newAccountRepo(t)
	ctx := context.Background()
	a := createAccount(t, repo, "editor3")

	if err := repo.UpdateTOTPSecret(ctx, a.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("UpdateTOTPSecret: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("TOTPSecret = %q, want JBSWY3DPEHPK3PXP", got.TOTPSecret)
	}
}

func TestSQLiteAccountRepository_TouchLastLogin(t *testing.T) {
	repo := newAccountRepo(t)
	ctx := context.Background()
	a := createAccount(t, repo, "editor4")

	when := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := repo.TouchLastLogin(ctx, a.ID, when); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.LastLogin.Equal(when) {
		t.Errorf("LastLogin = %v, want %v", got.LastLogin, when)
	}
}

func TestSQLiteAccountRepository_DisableAndCount(t *testing.T) {
	repo := newAccountRepo(t)
	ctx := context.Background()
	a := createAccount(t, repo, "editor5")
	createAccount(t, repo, "editor6")

	a.Disabled = true
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Disabled {
		t.Error("expected account to be disabled")
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
