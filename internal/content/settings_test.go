package content_test

import (
	"context"
	"testing"

	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newSettingsRepo(t *testing.T) content.SettingsRepository {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := content.NewSQLiteSettingsRepository(context.Background(), st)
	if err != nil {
		t.Fatalf("NewSQLiteSettingsRepository: %v", err)
	}
	return repo
}

func TestSQLiteSettingsRepository_SetAndGet(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, content.SettingSiteTitle, "Limelight"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s, err := repo.Get(ctx, content.SettingSiteTitle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Value != "Limelight" {
		t.Errorf("Value = %q, want %q", s.Value, "Limelight")
	}
	if s.UpdatedAt.IsZero() {
		t.Error("UpdatedAt is zero")
	}
}

func TestSQLiteSettingsRepository_SetOverwrite(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, content.SettingContactEmail, "old@example.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, content.SettingContactEmail, "new@example.com"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	s, err := repo.Get(ctx, content.SettingContactEmail)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Value != "new@example.com" {
		t.Errorf("Value = %q, want %q", s.Value, "new@example.com")
	}
}

func TestSQLiteSettingsRepository_GetNotFound(t *testing.T) {
	repo := newSettingsRepo(t)

	_, err := repo.Get(context.Background(), "nonexistent")
	if err != content.ErrNotFound {
		t.Errorf("Get nonexistent = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSettingsRepository_GetAll(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll empty: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll empty = %d items, want 0", len(all))
	}

	for _, kv := range []struct{ k, v string }{
		{"alpha", "1"},
		{"beta", "2"},
		{"gamma", "3"},
	} {
		if err := repo.Set(ctx, kv.k, kv.v); err != nil {
			t.Fatalf("Set %s: %v", kv.k, err)
		}
	}

	all, err = repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll = %d items, want 3", len(all))
	}
	// Results are ordered by key.
	if all[0].Key != "alpha" || all[1].Key != "beta" || all[2].Key != "gamma" {
		t.Errorf("GetAll order = [%s, %s, %s], want [alpha, beta, gamma]",
			all[0].Key, all[1].Key, all[2].Key)
	}
}

func TestSQLiteSettingsRepository_Delete(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "to_delete", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Delete(ctx, "to_delete"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.Get(ctx, "to_delete")
	if err != content.ErrNotFound {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSettingsRepository_DeleteNotFound(t *testing.T) {
	repo := newSettingsRepo(t)

	err := repo.Delete(context.Background(), "nonexistent")
	if err != content.ErrNotFound {
		t.Errorf("Delete nonexistent = %v, want ErrNotFound", err)
	}
}
