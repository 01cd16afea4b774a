package testsupport

import (
	"context"
	"testing"

	"lipidid/internal/config"
	"lipidid/internal/refdb"
)

// MustOpenStore opens the reference store at the config's database path and
// closes it when the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *refdb.Store {
	t.Helper()

	store, err := refdb.Open(cfg.Paths.Database)
	if err != nil {
		t.Fatalf("open store at %s: %v", cfg.Paths.Database, err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

// SeedMeasured inserts the given measured records, failing the test on any
// insert error.
func SeedMeasured(t testing.TB, store *refdb.Store, recs ...refdb.Measured) {
	t.Helper()
	for _, rec := range recs {
		if _, err := store.AddMeasured(context.Background(), rec); err != nil {
			t.Fatalf("seed measured %q: %v", rec.Name, err)
		}
	}
}

// SeedTheoretical inserts the given theoretical records, failing the test on
// any insert error.
func SeedTheoretical(t testing.TB, store *refdb.Store, recs ...refdb.Theoretical) {
	t.Helper()
	for _, rec := range recs {
		if _, err := store.AddTheoretical(context.Background(), rec); err != nil {
			t.Fatalf("seed theoretical %q: %v", rec.Name, err)
		}
	}
}
