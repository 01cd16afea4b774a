package lipid

import (
	"fmt"
	"strings"
)

// Chain is a single fatty-acid chain composition.
type Chain struct {
	Carbons       int
	Unsaturations int
}

// Lipid is a parsed lipid descriptor. Carbons and Unsaturations always hold
// the sum composition; Chains is populated only when the name spelled out
// individual fatty acids.
type Lipid struct {
	Class         string
	Carbons       int
	Unsaturations int
	FAMod         string // "", or one of the modifier letters (d, o, p, ...)
	Chains        []Chain
}

// String renders the descriptor back into canonical name form using the sum
// composition.
func (l Lipid) String() string {
	return fmt.Sprintf("%s(%s%d:%d)", l.Class, l.FAMod, l.Carbons, l.Unsaturations)
}

// Polarity is the ionization polarity implied by an MS adduct.
type Polarity string

const (
	PolarityUnspecified Polarity = ""
	PolarityPositive    Polarity = "pos"
	PolarityNegative    Polarity = "neg"
)

// ParsePolarity validates an ESI mode string ("pos", "neg" or empty).
func ParsePolarity(mode string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		return PolarityUnspecified, nil
	case "pos", "positive":
		return PolarityPositive, nil
	case "neg", "negative":
		return PolarityNegative, nil
	default:
		return PolarityUnspecified, fmt.Errorf("unrecognized ESI mode %q", mode)
	}
}

// AdductPolarity classifies an adduct by its charge suffix, e.g. [M+H]+ is
// positive and [M-H]- is negative.
func AdductPolarity(adduct string) Polarity {
	switch {
	case strings.HasSuffix(adduct, "+"):
		return PolarityPositive
	case strings.HasSuffix(adduct, "-"):
		return PolarityNegative
	default:
		return PolarityUnspecified
	}
}

// Matches reports whether an adduct is compatible with the requested
// polarity. Unspecified polarity matches everything.
func (p Polarity) Matches(adduct string) bool {
	if p == PolarityUnspecified {
		return true
	}
	return AdductPolarity(adduct) == p
}
