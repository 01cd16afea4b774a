package refdb_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"lipidid/internal/lipid"
	"lipidid/internal/refdb"
)

func openStore(t *testing.T) *refdb.Store {
	t.Helper()
	store, err := refdb.Open(filepath.Join(t.TempDir(), "lipids.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func floatPtr(v float64) *float64 { return &v }

func seedMeasured(t *testing.T, store *refdb.Store, rec refdb.Measured) int64 {
	t.Helper()
	if rec.SrcTag == "" {
		rec.SrcTag = "test_src"
	}
	if rec.CCSType == "" {
		rec.CCSType = "DT"
	}
	id, err := store.AddMeasured(context.Background(), rec)
	if err != nil {
		t.Fatalf("AddMeasured failed: %v", err)
	}
	return id
}

func TestOpenCreatesSchema(t *testing.T) {
	store := openStore(t)
	counts, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if counts.Measured != 0 || counts.TheoreticalM != 0 {
		t.Fatalf("expected empty snapshot, got %+v", counts)
	}
}

func TestOpenRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lipids.db")
	store, err := refdb.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = store.Close()
	// Re-opening an up-to-date snapshot must succeed.
	store, err = refdb.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_ = store.Close()
}

func TestSearchMeasuredMZBoundsInclusive(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	const tol = 0.02
	seedMeasured(t, store, refdb.Measured{
		Name: "at-bound", Class: "PC", Carbons: 34, Unsaturations: 1,
		Adduct: "[M+H]+", MZ: 700.00 + tol, CCS: 280.0,
	})
	seedMeasured(t, store, refdb.Measured{
		Name: "past-bound", Class: "PC", Carbons: 34, Unsaturations: 1,
		Adduct: "[M+H]+", MZ: 700.00 + tol + 1e-4, CCS: 280.0,
	})

	got, err := store.SearchMeasured(ctx, refdb.Window{MZ: 700.00, MZTol: tol})
	if err != nil {
		t.Fatalf("SearchMeasured failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "at-bound" {
		t.Fatalf("expected only the boundary record, got %+v", got)
	}
}

func TestSearchMeasuredCCSBandIsRecordRelative(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	seedMeasured(t, store, refdb.Measured{
		Name: "two-hundred", Class: "PC", Carbons: 34, Unsaturations: 1,
		Adduct: "[M+H]+", MZ: 700.0, CCS: 200.0,
	})

	// ccs=200, pct=1.0 -> accepted queries span [198, 202].
	for _, q := range []float64{198.0, 200.0, 202.0} {
		got, err := store.SearchMeasured(ctx, refdb.Window{
			MZ: 700.0, MZTol: 0.02, CCS: floatPtr(q), CCSTolPct: 1.0,
		})
		if err != nil {
			t.Fatalf("SearchMeasured(%v) failed: %v", q, err)
		}
		if len(got) != 1 {
			t.Fatalf("query ccs %v should match record ccs 200 at 1%%", q)
		}
	}
	for _, q := range []float64{197.9, 202.1} {
		got, err := store.SearchMeasured(ctx, refdb.Window{
			MZ: 700.0, MZTol: 0.02, CCS: floatPtr(q), CCSTolPct: 1.0,
		})
		if err != nil {
			t.Fatalf("SearchMeasured(%v) failed: %v", q, err)
		}
		if len(got) != 0 {
			t.Fatalf("query ccs %v should not match record ccs 200 at 1%%", q)
		}
	}
}

func TestSearchMeasuredRTRequiresRecordRT(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	seedMeasured(t, store, refdb.Measured{
		Name: "with-rt", Class: "LPC", Carbons: 16, Unsaturations: 0,
		Adduct: "[M+H]+", MZ: 496.34, CCS: 229.8, RT: floatPtr(4.15),
	})
	seedMeasured(t, store, refdb.Measured{
		Name: "no-rt", Class: "LPC", Carbons: 16, Unsaturations: 0,
		Adduct: "[M+H]+", MZ: 496.34, CCS: 229.8,
	})

	got, err := store.SearchMeasured(ctx, refdb.Window{
		MZ: 496.34, MZTol: 0.02, RT: floatPtr(4.10), RTTol: 0.2,
	})
	if err != nil {
		t.Fatalf("SearchMeasured failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "with-rt" {
		t.Fatalf("rt window should exclude records without a reference rt: %+v", got)
	}
}

func TestSearchMeasuredPolarityFilter(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	seedMeasured(t, store, refdb.Measured{
		Name: "pos", Class: "PC", Carbons: 34, Unsaturations: 1,
		Adduct: "[M+H]+", MZ: 700.0, CCS: 280.0,
	})
	seedMeasured(t, store, refdb.Measured{
		Name: "neg", Class: "PC", Carbons: 34, Unsaturations: 1,
		Adduct: "[M-H]-", MZ: 700.0, CCS: 280.0,
	})

	got, err := store.SearchMeasured(ctx, refdb.Window{MZ: 700.0, MZTol: 0.02, Polarity: lipid.PolarityNegative})
	if err != nil {
		t.Fatalf("SearchMeasured failed: %v", err)
	}
	if len(got) != 1 || got[0].Adduct != "[M-H]-" {
		t.Fatalf("polarity filter failed: %+v", got)
	}
}

func TestSearchTheoreticalJoinsPredictedColumns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.AddTheoretical(ctx, refdb.Theoretical{
		Name: "full", Class: "PE", Carbons: 34, Unsaturations: 2,
		Adduct: "[M+H]+", MZ: 716.52, CCS: floatPtr(281.3), RT: floatPtr(0.81),
	}); err != nil {
		t.Fatalf("AddTheoretical failed: %v", err)
	}
	if _, err := store.AddTheoretical(ctx, refdb.Theoretical{
		Name: "mz-only", Class: "PE", Carbons: 34, Unsaturations: 3,
		Adduct: "[M+H]+", MZ: 716.53,
	}); err != nil {
		t.Fatalf("AddTheoretical failed: %v", err)
	}

	got, err := store.SearchTheoretical(ctx, refdb.Window{MZ: 716.52, MZTol: 0.02})
	if err != nil {
		t.Fatalf("SearchTheoretical failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 theoretical records, got %d", len(got))
	}
	byName := map[string]refdb.Theoretical{}
	for _, rec := range got {
		byName[rec.Name] = rec
	}
	full := byName["full"]
	if full.CCS == nil || math.Abs(*full.CCS-281.3) > 1e-9 || full.RT == nil {
		t.Fatalf("predicted columns not joined: %+v", full)
	}
	if mzOnly := byName["mz-only"]; mzOnly.CCS != nil || mzOnly.RT != nil {
		t.Fatalf("expected nil predicted columns: %+v", mzOnly)
	}
}

func TestMeasuredRTs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	seedMeasured(t, store, refdb.Measured{
		Name: "PG(34:1)", Class: "PG", Carbons: 34, Unsaturations: 1,
		Adduct: "[M-H]-", MZ: 747.52, CCS: 285.1, RT: floatPtr(0.61),
	})
	seedMeasured(t, store, refdb.Measured{
		Name: "PG(34:1)", Class: "PG", Carbons: 34, Unsaturations: 1,
		Adduct: "[M+H]+", MZ: 749.53, CCS: 288.4, RT: floatPtr(0.65),
	})
	seedMeasured(t, store, refdb.Measured{
		Name: "PG(34:2)", Class: "PG", Carbons: 34, Unsaturations: 2,
		Adduct: "[M-H]-", MZ: 745.50, CCS: 283.0, RT: floatPtr(0.70),
	})

	strict, err := store.MeasuredRTs(ctx, "PG", 34, 1, "", true)
	if err != nil {
		t.Fatalf("MeasuredRTs failed: %v", err)
	}
	if len(strict) != 2 {
		t.Fatalf("strict lookup should match both PG(34:1) rows, got %v", strict)
	}

	loose, err := store.MeasuredRTs(ctx, "PG", 34, 0, "", false)
	if err != nil {
		t.Fatalf("MeasuredRTs failed: %v", err)
	}
	if len(loose) != 3 {
		t.Fatalf("loose lookup should ignore unsaturations, got %v", loose)
	}

	none, err := store.MeasuredRTs(ctx, "SM", 34, 1, "d", true)
	if err != nil {
		t.Fatalf("MeasuredRTs failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rts, got %v", none)
	}
}

func TestAddMeasuredValidatesInvariants(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	cases := []refdb.Measured{
		{Name: "bad-mz", Class: "PC", Adduct: "[M+H]+", MZ: 0, CCS: 280, SrcTag: "s", CCSType: "DT"},
		{Name: "bad-ccs", Class: "PC", Adduct: "[M+H]+", MZ: 700, CCS: 0, SrcTag: "s", CCSType: "DT"},
		{Name: "bad-nc", Class: "PC", Carbons: -1, Adduct: "[M+H]+", MZ: 700, CCS: 280, SrcTag: "s", CCSType: "DT"},
	}
	for _, rec := range cases {
		if _, err := store.AddMeasured(ctx, rec); err == nil {
			t.Fatalf("expected invariant error for %q", rec.Name)
		}
	}
}
