package content_test

import (
	"context"
	"testing"

	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newBannerRepo(t *testing.T) content.BannerRepository {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := content.NewSQLiteBannerRepository(context.Background(), st)
	if err != nil {
		t.Fatalf("NewSQLiteBannerRepository: %v", err)
	}
	return repo
}

func TestSQLiteBannerRepository_ListActiveFiltersInactive(t *testing.T) {
	repo := newBannerRepo(t)
	ctx := context.Background()

	active := testutil.NewBanner(testutil.WithBannerPosition(1))
	inactive := testutil.NewBanner(testutil.WithBannerActive(false), testutil.WithBannerPosition(0))
	for _, b := range []*content.Banner{&active, &inactive} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List = %d banners, want 2", len(all))
	}

	visible, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("ListActive = %d banners, want 1", len(visible))
	}
	if visible[0].ID != active.ID {
		t.Errorf("ListActive[0].ID = %q, want %q", visible[0].ID, active.ID)
	}
}

func TestSQLiteBannerRepository_ListOrderedByPosition(t *testing.T) {
	repo := newBannerRepo(t)
	ctx := context.Background()

	for _, pos := range []int{2, 0, 1} {
		b := testutil.NewBanner(testutil.WithBannerPosition(pos))
		if err := repo.Create(ctx, &b); err != nil {
			t.Fatalf("Create pos=%d: %v", pos, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, b := range all {
		if b.Position != i {
			t.Errorf("List[%d].Position = %d, want %d", i, b.Position, i)
		}
	}
}

func TestSQLiteBannerRepository_UpdateToggleActive(t *testing.T) {
	repo := newBannerRepo(t)
	ctx := context.Background()

	b := testutil.NewBanner()
	if err := repo.Create(ctx, &b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	b.Active = false
	if err := repo.Update(ctx, &b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Active {
		t.Error("expected banner to be inactive after update")
	}
}
