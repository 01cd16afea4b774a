package identify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lipidid/internal/lipid"
	"lipidid/internal/logging"
	"lipidid/internal/rtcal"
)

// Orchestrator drives the matching engine across a feature table and the
// level cascade. Identification is independent per feature, so the table is
// sharded across workers; each worker writes only its own result slot.
type Orchestrator struct {
	engine  *Engine
	workers int
	logger  *slog.Logger
}

// NewOrchestrator wraps an engine. workers <= 0 selects GOMAXPROCS.
func NewOrchestrator(engine *Engine, workers int, logger *slog.Logger) *Orchestrator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		engine:  engine,
		workers: workers,
		logger:  logger.With(logging.String(logging.FieldComponent, "orchestrator")),
	}
}

// Run identifies every feature and returns a complete result set: one entry
// per feature, candidates or the unidentified state. Structurally invalid
// parameters fail here, before any lookup; per-feature lookup failures
// degrade to "no candidates at this level" and the cascade keeps moving.
// When a calibration is supplied, the calibrated retention time replaces the
// raw one at every rt-matching level.
func (o *Orchestrator) Run(ctx context.Context, features []Feature, tol Tolerance, levelNames []string, cal *rtcal.Calibration, pol lipid.Polarity) (*Run, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	levels, err := ResolveLevels(levelNames)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.New(),
		Tolerance: tol,
		Levels:    levels,
		Norm:      o.engine.norm,
		Results:   make([]Result, len(features)),
	}

	started := time.Now()
	o.logger.Info("identification run started",
		logging.String(logging.FieldRunID, run.ID.String()),
		logging.Int("features", len(features)),
		logging.Int("levels", len(levels)),
		logging.Int("workers", o.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, f := range features {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run.Results[i] = o.identifyFeature(gctx, f, tol, levels, cal, pol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("identification run: %w", err)
	}

	o.logger.Info("identification run finished",
		logging.String(logging.FieldRunID, run.ID.String()),
		logging.Int("identified", run.IdentifiedCount()),
		logging.Int("unidentified", len(features)-run.IdentifiedCount()),
		logging.Duration("elapsed", time.Since(started)))
	return run, nil
}

func (o *Orchestrator) identifyFeature(ctx context.Context, f Feature, tol Tolerance, levels []Level, cal *rtcal.Calibration, pol lipid.Polarity) Result {
	queryRT := f.RT
	if cal != nil && f.RT != nil {
		v := cal.Calibrate(*f.RT)
		queryRT = &v
	}

	for _, lvl := range levels {
		cands, err := o.engine.MatchLevel(ctx, f, queryRT, lvl, tol, pol)
		if err != nil {
			if ctx.Err() != nil {
				return Result{Level: LevelUnidentified}
			}
			o.logger.Warn("level lookup failed, treating as no match",
				logging.String(logging.FieldLevel, string(lvl)),
				logging.Float64("mz", f.MZ),
				logging.Error(err))
			continue
		}
		if len(cands) > 0 {
			return Result{Level: lvl, Candidates: cands}
		}
	}
	return Result{Level: LevelUnidentified}
}
