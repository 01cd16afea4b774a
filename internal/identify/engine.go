package identify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"lipidid/internal/lipid"
	"lipidid/internal/logging"
	"lipidid/internal/predict"
	"lipidid/internal/refdb"
)

// Engine matches one feature against the reference store at one confidence
// level. It holds only immutable collaborators and is safe for concurrent
// use.
type Engine struct {
	store     *refdb.Store
	predictor *predict.Predictor
	norm      Norm
	logger    *slog.Logger
}

// NewEngine builds a matching engine over an opened store and predictor.
func NewEngine(store *refdb.Store, predictor *predict.Predictor, norm Norm, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:     store,
		predictor: predictor,
		norm:      norm,
		logger:    logger.With(logging.String(logging.FieldComponent, "matcher")),
	}
}

// MatchLevel returns the scored candidates for a feature at one level, best
// score first. The query retention time is supplied separately so the caller
// can substitute a calibrated value. A level whose required value is absent
// from the feature yields no candidates; so does an empty window. Neither is
// an error.
func (e *Engine) MatchLevel(ctx context.Context, f Feature, queryRT *float64, lvl Level, tol Tolerance, pol lipid.Polarity) ([]Candidate, error) {
	if lvl.UsesRT() && queryRT == nil {
		return nil, nil
	}
	if lvl.UsesCCS() && f.CCS == nil {
		return nil, nil
	}

	w := refdb.Window{MZ: f.MZ, MZTol: tol.MZ, Polarity: pol}
	if lvl.UsesRT() {
		w.RT = queryRT
		w.RTTol = tol.RT
	}
	if lvl.UsesCCS() {
		w.CCS = f.CCS
		w.CCSTolPct = tol.CCSPct
	}

	var (
		cands []Candidate
		err   error
	)
	if lvl.Theoretical() {
		cands, err = e.matchTheoretical(ctx, f, queryRT, lvl, tol, w)
	} else {
		cands, err = e.matchMeasured(ctx, f, queryRT, lvl, tol, w)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	return cands, nil
}

func (e *Engine) matchMeasured(ctx context.Context, f Feature, queryRT *float64, lvl Level, tol Tolerance, w refdb.Window) ([]Candidate, error) {
	recs, err := e.store.SearchMeasured(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lvl, err)
	}
	cands := make([]Candidate, 0, len(recs))
	for _, rec := range recs {
		ccs := rec.CCS
		cand := Candidate{
			Name:          rec.Name,
			Class:         rec.Class,
			Carbons:       rec.Carbons,
			Unsaturations: rec.Unsaturations,
			FAMod:         rec.FAMod,
			Adduct:        rec.Adduct,
			MZ:            rec.MZ,
			RT:            rec.RT,
			CCS:           &ccs,
		}
		cand.Score = score(e.norm, residuals(f, queryRT, rec.MZ, rec.RT, &ccs, lvl, tol))
		cands = append(cands, cand)
	}
	return cands, nil
}

// matchTheoretical resolves predicted ccs/rt per candidate, preferring the
// snapshot's stored prediction columns and falling back to the property
// predictor only when a column is absent. A candidate whose descriptor the
// predictor cannot encode is skipped, not fatal; the cascade keeps moving.
func (e *Engine) matchTheoretical(ctx context.Context, f Feature, queryRT *float64, lvl Level, tol Tolerance, w refdb.Window) ([]Candidate, error) {
	recs, err := e.store.SearchTheoretical(ctx, refdb.Window{MZ: w.MZ, MZTol: w.MZTol, Polarity: w.Polarity})
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lvl, err)
	}

	cands := make([]Candidate, 0, len(recs))
	for _, rec := range recs {
		var recCCS, recRT *float64

		if lvl.UsesCCS() {
			recCCS = rec.CCS
			if recCCS == nil {
				v, perr := e.predictor.CCS(rec.Class, rec.Carbons, rec.Unsaturations, rec.Adduct, rec.FAMod)
				if perr != nil {
					e.logger.Debug("skipping candidate without usable ccs prediction",
						logging.String("name", rec.Name),
						logging.String("adduct", rec.Adduct),
						logging.Error(perr))
					continue
				}
				recCCS = &v
			}
			if !w.MatchesCCS(*recCCS) {
				continue
			}
		}

		if lvl.UsesRT() {
			recRT = rec.RT
			if recRT == nil {
				v, perr := e.predictor.RT(rec.Class, rec.Carbons, rec.Unsaturations, rec.FAMod)
				if perr != nil {
					e.logger.Debug("skipping candidate without usable rt prediction",
						logging.String("name", rec.Name),
						logging.Error(perr))
					continue
				}
				recRT = &v
			}
			if !w.MatchesRT(*recRT) {
				continue
			}
		}

		cand := Candidate{
			Name:          rec.Name,
			Class:         rec.Class,
			Carbons:       rec.Carbons,
			Unsaturations: rec.Unsaturations,
			FAMod:         rec.FAMod,
			Adduct:        rec.Adduct,
			MZ:            rec.MZ,
			RT:            recRT,
			CCS:           recCCS,
			Theoretical:   true,
		}
		cand.Score = score(e.norm, residuals(f, queryRT, rec.MZ, recRT, recCCS, lvl, tol))
		cands = append(cands, cand)
	}
	return cands, nil
}
