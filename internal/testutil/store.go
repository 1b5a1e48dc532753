package testutil

import (
	"testing"

	"github.com/limelightcms/limelight/internal/store"
)

// NewStore creates an in-memory Store for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
