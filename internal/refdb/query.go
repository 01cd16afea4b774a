package refdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"lipidid/internal/lipid"
)

// Window describes the tolerance box for one lookup. MZ always participates;
// RT and CCS participate when non-nil. MZTol and RTTol are absolute, in the
// units of the respective column. CCSTolPct is a percentage of the record's
// CCS value, so the acceptance band widens with the record, not the query.
type Window struct {
	MZ        float64
	MZTol     float64
	RT        *float64
	RTTol     float64
	CCS       *float64
	CCSTolPct float64
	Polarity  lipid.Polarity
}

// MatchesRT reports whether a record retention time falls inside the window.
// Bounds are inclusive.
func (w Window) MatchesRT(recordRT float64) bool {
	if w.RT == nil {
		return true
	}
	return math.Abs(*w.RT-recordRT) <= w.RTTol
}

// MatchesCCS reports whether a record CCS falls inside the window. The
// tolerance scales with the record CCS: |query - record| <= pct/100 * record.
// Bounds are inclusive.
func (w Window) MatchesCCS(recordCCS float64) bool {
	if w.CCS == nil {
		return true
	}
	return math.Abs(*w.CCS-recordCCS) <= w.CCSTolPct/100.0*recordCCS
}

// ccsBounds converts the record-relative percentage band into column bounds:
// |q - x| <= f*x  <=>  q/(1+f) <= x <= q/(1-f)   (upper unbounded for f >= 1).
func ccsBounds(query, pct float64) (lo, hi float64) {
	f := pct / 100.0
	lo = query / (1.0 + f)
	if f >= 1.0 {
		return lo, math.MaxFloat64
	}
	return lo, query / (1.0 - f)
}

func polarityClause(p lipid.Polarity) string {
	switch p {
	case lipid.PolarityPositive:
		return ` AND adduct LIKE '%+'`
	case lipid.PolarityNegative:
		return ` AND adduct LIKE '%-'`
	default:
		return ""
	}
}

// SearchMeasured returns the measured records inside the window. Levels that
// involve retention time only ever see records whose source dataset reported
// one. An empty result is a normal outcome, not an error.
func (s *Store) SearchMeasured(ctx context.Context, w Window) ([]Measured, error) {
	var b strings.Builder
	b.WriteString(`SELECT m_id, name, lipid_class, lipid_nc, lipid_nu, fa_mod, adduct,
        mz, ccs, rt, smi, src_tag, ccs_type, ccs_method
        FROM measured WHERE mz BETWEEN ? AND ?`)
	args := []any{w.MZ - w.MZTol, w.MZ + w.MZTol}

	if w.RT != nil {
		b.WriteString(` AND rt IS NOT NULL AND rt BETWEEN ? AND ?`)
		args = append(args, *w.RT-w.RTTol, *w.RT+w.RTTol)
	}
	if w.CCS != nil {
		lo, hi := ccsBounds(*w.CCS, w.CCSTolPct)
		b.WriteString(` AND ccs BETWEEN ? AND ?`)
		args = append(args, lo, hi)
	}
	b.WriteString(polarityClause(w.Polarity))
	b.WriteString(` ORDER BY mz`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query measured: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Measured
	for rows.Next() {
		var (
			rec       Measured
			faMod     sql.NullString
			rt        sql.NullFloat64
			smi       sql.NullString
			ccsMethod sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Class, &rec.Carbons, &rec.Unsaturations,
			&faMod, &rec.Adduct, &rec.MZ, &rec.CCS, &rt, &smi, &rec.SrcTag, &rec.CCSType, &ccsMethod); err != nil {
			return nil, fmt.Errorf("scan measured: %w", err)
		}
		rec.FAMod = faMod.String
		rec.SMILES = smi.String
		rec.CCSMethod = ccsMethod.String
		if rt.Valid {
			v := rt.Float64
			rec.RT = &v
		}
		// The SQL bounds are floating-point arithmetic on the query side; the
		// record-relative predicate is authoritative at the boundary.
		if !w.MatchesCCS(rec.CCS) {
			continue
		}
		if w.RT != nil && (rec.RT == nil || !w.MatchesRT(*rec.RT)) {
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measured: %w", err)
	}
	return out, nil
}

// SearchTheoretical returns the theoretical records whose enumerated m/z
// falls inside the window's m/z band, with stored predicted CCS and RT joined
// in when the snapshot carries them. RT/CCS window predicates are left to the
// caller, which may substitute predictor output for absent columns.
func (s *Store) SearchTheoretical(ctx context.Context, w Window) ([]Theoretical, error) {
	qry := `SELECT p.t_id, p.name, p.lipid_class, p.lipid_nc, p.lipid_nu, p.fa_mod, p.adduct, p.mz,
        c.ccs, r.rt
        FROM predicted_mz p
        LEFT JOIN predicted_ccs c ON p.t_id = c.t_id
        LEFT JOIN predicted_rt r ON p.t_id = r.t_id
        WHERE p.mz BETWEEN ? AND ?` + polarityClause(w.Polarity) + ` ORDER BY p.mz`

	rows, err := s.db.QueryContext(ctx, qry, w.MZ-w.MZTol, w.MZ+w.MZTol)
	if err != nil {
		return nil, fmt.Errorf("query theoretical: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Theoretical
	for rows.Next() {
		var (
			rec   Theoretical
			faMod sql.NullString
			ccs   sql.NullFloat64
			rt    sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Class, &rec.Carbons, &rec.Unsaturations,
			&faMod, &rec.Adduct, &rec.MZ, &ccs, &rt); err != nil {
			return nil, fmt.Errorf("scan theoretical: %w", err)
		}
		rec.FAMod = faMod.String
		if ccs.Valid {
			v := ccs.Float64
			rec.CCS = &v
		}
		if rt.Valid {
			v := rt.Float64
			rec.RT = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theoretical: %w", err)
	}
	return out, nil
}

// MeasuredRTs returns the reference retention times recorded for a lipid
// descriptor. When strict is false the unsaturation count is ignored, which
// widens the pool for sparsely covered classes.
func (s *Store) MeasuredRTs(ctx context.Context, class string, carbons, unsaturations int, faMod string, strict bool) ([]float64, error) {
	var b strings.Builder
	b.WriteString(`SELECT rt FROM measured WHERE lipid_class = ? AND lipid_nc = ? AND rt IS NOT NULL`)
	args := []any{class, carbons}
	if strict {
		b.WriteString(` AND lipid_nu = ?`)
		args = append(args, unsaturations)
	}
	if faMod != "" {
		b.WriteString(` AND fa_mod = ?`)
		args = append(args, faMod)
	} else {
		b.WriteString(` AND fa_mod IS NULL`)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query reference rts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rts []float64
	for rows.Next() {
		var rt float64
		if err := rows.Scan(&rt); err != nil {
			return nil, fmt.Errorf("scan reference rt: %w", err)
		}
		rts = append(rts, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference rts: %w", err)
	}
	return rts, nil
}
