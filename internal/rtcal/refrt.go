package rtcal

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"lipidid/internal/lipid"
	"lipidid/internal/refdb"
)

// ReferenceRT looks up the reference-method retention time for a lipid
// descriptor, averaging over all measured entries that match. With strict set
// the unsaturation count must match too; without it only class and carbon
// count are required, which helps sparsely covered classes. The second return
// is false when no reference entry matches.
func ReferenceRT(ctx context.Context, store *refdb.Store, l lipid.Lipid, strict bool) (float64, bool, error) {
	rts, err := store.MeasuredRTs(ctx, l.Class, l.Carbons, l.Unsaturations, l.FAMod, strict)
	if err != nil {
		return 0, false, fmt.Errorf("reference rt for %s: %w", l, err)
	}
	if len(rts) == 0 {
		return 0, false, nil
	}
	return stat.Mean(rts, nil), true, nil
}

// BuildFromReference resolves reference retention times for named calibrant
// lipids from the store and builds a calibration against the supplied locally
// measured rts. Calibrants without a reference entry are reported back so the
// caller can surface them; the calibration is built over the remainder.
func BuildFromReference(ctx context.Context, store *refdb.Store, names []string, measured []float64, strategy Strategy) (*Calibration, []string, error) {
	if len(names) != len(measured) {
		return nil, nil, fmt.Errorf("%w: %d names, %d measured",
			ErrInsufficientCalibrants, len(names), len(measured))
	}

	var (
		keptNames []string
		keptMeas  []float64
		keptRef   []float64
		missing   []string
	)
	for i, name := range names {
		l, err := lipid.Parse(name)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrant %q: %w", name, err)
		}
		ref, ok, err := ReferenceRT(ctx, store, *l, true)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			// Retry without the unsaturation constraint before giving up.
			ref, ok, err = ReferenceRT(ctx, store, *l, false)
			if err != nil {
				return nil, nil, err
			}
		}
		if !ok {
			missing = append(missing, name)
			continue
		}
		keptNames = append(keptNames, name)
		keptMeas = append(keptMeas, measured[i])
		keptRef = append(keptRef, ref)
	}

	cal, err := Build(keptNames, keptMeas, keptRef, strategy)
	if err != nil {
		return nil, missing, err
	}
	return cal, missing, nil
}
