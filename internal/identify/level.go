package identify

import (
	"errors"
	"fmt"
	"strings"
)

// Level names one identification confidence criterion: reference provenance
// (measured vs theoretical) plus the set of participating values.
type Level string

const (
	// LevelAny expands to the full cascade in priority order. Valid only on
	// its own, not inside an explicit level list.
	LevelAny Level = "any"
	// LevelUnidentified tags features no level matched.
	LevelUnidentified Level = "unidentified"

	LevelMeasMzRtCcs Level = "meas_mz_rt_ccs"
	LevelTheoMzRtCcs Level = "theo_mz_rt_ccs"
	LevelMeasMzCcs   Level = "meas_mz_ccs"
	LevelTheoMzCcs   Level = "theo_mz_ccs"
	LevelMeasMzRt    Level = "meas_mz_rt"
	LevelTheoMzRt    Level = "theo_mz_rt"
	LevelMeasMz      Level = "meas_mz"
	LevelTheoMz      Level = "theo_mz"
)

// cascadeOrder is the fixed priority order LevelAny expands to, from
// strictest and most informative to least. Measured levels outrank
// theoretical ones at equal specificity because they reflect directly
// observed chemistry rather than model predictions.
var cascadeOrder = []Level{
	LevelMeasMzRtCcs,
	LevelTheoMzRtCcs,
	LevelMeasMzCcs,
	LevelTheoMzCcs,
	LevelMeasMzRt,
	LevelTheoMzRt,
	LevelMeasMz,
	LevelTheoMz,
}

// ErrBadLevel indicates an empty, unknown, or misused level selector.
// Rejected at the orchestrator boundary before any database access.
var ErrBadLevel = errors.New("invalid identification level")

// Theoretical reports whether the level matches against enumerated records
// rather than measured ones.
func (l Level) Theoretical() bool {
	return strings.HasPrefix(string(l), "theo_")
}

// UsesRT reports whether retention time participates in the level's
// predicate.
func (l Level) UsesRT() bool {
	return strings.Contains(string(l), "_rt")
}

// UsesCCS reports whether CCS participates in the level's predicate.
func (l Level) UsesCCS() bool {
	return strings.Contains(string(l), "_ccs")
}

// ParseLevel validates a single level name.
func ParseLevel(name string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(name)))
	if l == LevelAny {
		return LevelAny, nil
	}
	for _, known := range cascadeOrder {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadLevel, name)
}

// ResolveLevels turns a level selector into the concrete cascade to run:
// ["any"] (or an empty selector defaulting to it) expands to the full
// priority order, while an explicit list is validated and preserved as given.
// "any" inside a multi-entry list is rejected.
func ResolveLevels(names []string) ([]Level, error) {
	if len(names) == 0 {
		return append([]Level(nil), cascadeOrder...), nil
	}
	if len(names) == 1 {
		l, err := ParseLevel(names[0])
		if err != nil {
			return nil, err
		}
		if l == LevelAny {
			return append([]Level(nil), cascadeOrder...), nil
		}
		return []Level{l}, nil
	}

	levels := make([]Level, 0, len(names))
	for _, name := range names {
		l, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		if l == LevelAny {
			return nil, fmt.Errorf("%w: %q is not allowed inside an explicit level list", ErrBadLevel, LevelAny)
		}
		levels = append(levels, l)
	}
	return levels, nil
}
