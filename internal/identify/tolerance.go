package identify

import (
	"errors"
	"fmt"
)

// ErrBadTolerance indicates a non-positive tolerance. Rejected at the
// orchestrator boundary before any database access.
var ErrBadTolerance = errors.New("invalid tolerance")

// Tolerance is the matching window triple. MZ and RT are absolute, in the
// units of the respective value; CCSPct is a percentage of the candidate
// record's CCS.
type Tolerance struct {
	MZ     float64
	RT     float64
	CCSPct float64
}

// Validate rejects non-positive components.
func (t Tolerance) Validate() error {
	if t.MZ <= 0 {
		return fmt.Errorf("%w: mz tolerance %v must be positive", ErrBadTolerance, t.MZ)
	}
	if t.RT <= 0 {
		return fmt.Errorf("%w: rt tolerance %v must be positive", ErrBadTolerance, t.RT)
	}
	if t.CCSPct <= 0 {
		return fmt.Errorf("%w: ccs tolerance %v%% must be positive", ErrBadTolerance, t.CCSPct)
	}
	return nil
}
