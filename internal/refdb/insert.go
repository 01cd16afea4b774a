package refdb

import (
	"context"
	"fmt"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

// AddMeasured inserts one measured reference entry and returns its id.
func (s *Store) AddMeasured(ctx context.Context, rec Measured) (int64, error) {
	if rec.MZ <= 0 {
		return 0, fmt.Errorf("measured record %q: mz must be positive", rec.Name)
	}
	if rec.CCS <= 0 {
		return 0, fmt.Errorf("measured record %q: ccs must be positive", rec.Name)
	}
	if rec.Carbons < 0 || rec.Unsaturations < 0 {
		return 0, fmt.Errorf("measured record %q: negative composition", rec.Name)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO measured (
            name, lipid_class, lipid_nc, lipid_nu, fa_mod, adduct,
            mz, ccs, rt, smi, src_tag, ccs_type, ccs_method
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Class, rec.Carbons, rec.Unsaturations,
		nullableString(rec.FAMod), rec.Adduct,
		rec.MZ, rec.CCS, nullableFloat(rec.RT),
		nullableString(rec.SMILES), rec.SrcTag, rec.CCSType, nullableString(rec.CCSMethod),
	)
	if err != nil {
		return 0, fmt.Errorf("insert measured: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// AddTheoretical inserts one theoretical entry, including its predicted CCS
// and RT rows when present, and returns the shared theoretical id.
func (s *Store) AddTheoretical(ctx context.Context, rec Theoretical) (int64, error) {
	if rec.MZ <= 0 {
		return 0, fmt.Errorf("theoretical record %q: mz must be positive", rec.Name)
	}
	if rec.Carbons < 0 || rec.Unsaturations < 0 {
		return 0, fmt.Errorf("theoretical record %q: negative composition", rec.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO predicted_mz (name, lipid_class, lipid_nc, lipid_nu, fa_mod, adduct, mz)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Class, rec.Carbons, rec.Unsaturations,
		nullableString(rec.FAMod), rec.Adduct, rec.MZ,
	)
	if err != nil {
		return 0, fmt.Errorf("insert predicted_mz: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if rec.CCS != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO predicted_ccs (t_id, ccs) VALUES (?, ?)`, id, *rec.CCS); err != nil {
			return 0, fmt.Errorf("insert predicted_ccs: %w", err)
		}
	}
	if rec.RT != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO predicted_rt (t_id, rt) VALUES (?, ?)`, id, *rec.RT); err != nil {
			return 0, fmt.Errorf("insert predicted_rt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return id, nil
}
