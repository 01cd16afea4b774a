package rtcal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientCalibrants indicates the calibrant set cannot determine a
// mapping: fewer than two pairs, or mismatched input lengths. A failed build
// never disturbs an existing calibration.
var ErrInsufficientCalibrants = errors.New("insufficient calibrants")

// Strategy selects how the measured-to-reference mapping is fitted.
type Strategy string

const (
	// StrategyPiecewise interpolates linearly between consecutive calibrant
	// pairs and extrapolates with the nearest segment's slope. Default.
	StrategyPiecewise Strategy = "piecewise"
	// StrategyLinear fits one global least-squares line over all pairs.
	StrategyLinear Strategy = "linear"
)

// ParseStrategy validates a strategy name; the empty string selects the
// default.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyPiecewise:
		return StrategyPiecewise, nil
	case StrategyLinear:
		return StrategyLinear, nil
	default:
		return "", fmt.Errorf("unrecognized calibration strategy %q", name)
	}
}

// Calibrant is one lipid with both a locally measured and a reference
// retention time.
type Calibrant struct {
	Name        string
	MeasuredRT  float64
	ReferenceRT float64
}

// Calibration is a fitted measured-to-reference retention-time mapping.
// Immutable once built.
type Calibration struct {
	strategy Strategy
	cals     []Calibrant // sorted ascending by MeasuredRT, input order on ties

	// global line parameters, StrategyLinear only
	alpha, beta float64
}

// Build fits a calibration from parallel name/measured/reference slices.
// Requires equal lengths and at least two pairs.
func Build(names []string, measured, reference []float64, strategy Strategy) (*Calibration, error) {
	if len(measured) != len(reference) || len(names) != len(measured) {
		return nil, fmt.Errorf("%w: %d names, %d measured, %d reference",
			ErrInsufficientCalibrants, len(names), len(measured), len(reference))
	}
	if len(measured) < 2 {
		return nil, fmt.Errorf("%w: %d calibrant pair(s), need at least 2",
			ErrInsufficientCalibrants, len(measured))
	}

	cals := make([]Calibrant, len(names))
	for i := range names {
		cals[i] = Calibrant{Name: names[i], MeasuredRT: measured[i], ReferenceRT: reference[i]}
	}
	sort.SliceStable(cals, func(i, j int) bool { return cals[i].MeasuredRT < cals[j].MeasuredRT })

	c := &Calibration{strategy: strategy, cals: cals}
	if strategy == StrategyLinear {
		xs := make([]float64, len(cals))
		ys := make([]float64, len(cals))
		for i, cal := range cals {
			xs[i] = cal.MeasuredRT
			ys[i] = cal.ReferenceRT
		}
		c.alpha, c.beta = stat.LinearRegression(xs, ys, nil, false)
	}
	return c, nil
}

// Strategy reports how the calibration was fitted.
func (c *Calibration) Strategy() Strategy {
	return c.strategy
}

// Calibrants returns the fitted pairs in measured-rt order.
func (c *Calibration) Calibrants() []Calibrant {
	out := make([]Calibrant, len(c.cals))
	copy(out, c.cals)
	return out
}

// Calibrate maps a measured retention time onto the reference scale. Defined
// on the whole real line via extrapolation; never fails.
func (c *Calibration) Calibrate(rt float64) float64 {
	if c.strategy == StrategyLinear {
		return c.alpha + c.beta*rt
	}
	return c.piecewise(rt)
}

func (c *Calibration) piecewise(rt float64) float64 {
	cals := c.cals
	n := len(cals)

	// Exact at calibrant points; ties resolve to the first pair in input order.
	for _, cal := range cals {
		if cal.MeasuredRT == rt {
			return cal.ReferenceRT
		}
	}

	// Find the segment [i, i+1] bracketing rt; clamp to the end segments for
	// extrapolation.
	i := sort.Search(n, func(k int) bool { return cals[k].MeasuredRT > rt }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}

	a, b := cals[i], cals[i+1]
	dx := b.MeasuredRT - a.MeasuredRT
	if dx == 0 {
		// Duplicate calibrant rts make a degenerate segment; treat it as a step.
		return a.ReferenceRT
	}
	slope := (b.ReferenceRT - a.ReferenceRT) / dx
	return a.ReferenceRT + slope*(rt-a.MeasuredRT)
}
