package identify

import (
	"fmt"
	"math"
	"strings"
)

// Norm selects how per-field normalized residuals combine into one distance.
type Norm string

const (
	NormL2 Norm = "l2"
	NormL1 Norm = "l1"
)

// ParseNorm validates a norm name; the empty string selects l2.
func ParseNorm(name string) (Norm, error) {
	switch Norm(strings.ToLower(strings.TrimSpace(name))) {
	case "", NormL2:
		return NormL2, nil
	case NormL1:
		return NormL1, nil
	default:
		return "", fmt.Errorf("unrecognized score norm %q", name)
	}
}

// scoreFloor prevents division by zero for a perfect match.
const scoreFloor = 1e-6

// score converts tolerance-normalized residuals into a fit score: the
// inverse of their combined magnitude, so tighter matches score higher. A
// single residual scores as its inverse absolute value.
func score(norm Norm, residuals []float64) float64 {
	if len(residuals) == 0 {
		return 0
	}
	if len(residuals) == 1 {
		return 1.0 / math.Max(math.Abs(residuals[0]), scoreFloor)
	}
	var combined float64
	switch norm {
	case NormL1:
		for _, r := range residuals {
			combined += math.Abs(r)
		}
	default:
		for _, r := range residuals {
			combined += r * r
		}
		combined = math.Sqrt(combined)
	}
	return 1.0 / math.Max(combined, scoreFloor)
}

// residuals assembles the normalized deviation vector for one candidate.
// m/z and rt deviations are normalized by their absolute tolerances; the ccs
// deviation is normalized by the record-relative band, pct/100 of the record
// ccs, keeping it commensurate with the acceptance predicate.
func residuals(f Feature, queryRT *float64, recMZ float64, recRT, recCCS *float64, lvl Level, tol Tolerance) []float64 {
	rs := make([]float64, 0, 3)
	rs = append(rs, (recMZ-f.MZ)/tol.MZ)
	if lvl.UsesRT() && queryRT != nil && recRT != nil {
		rs = append(rs, (*recRT-*queryRT)/tol.RT)
	}
	if lvl.UsesCCS() && f.CCS != nil && recCCS != nil {
		band := tol.CCSPct / 100.0 * (*recCCS)
		rs = append(rs, (*recCCS-*f.CCS)/band)
	}
	return rs
}
