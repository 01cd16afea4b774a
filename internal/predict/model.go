package predict

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrUnsupportedDescriptor indicates a lipid class or adduct the trained
// encoders have no slot for. Callers matching many candidates treat it as
// no-match for that candidate; it is never silently defaulted.
var ErrUnsupportedDescriptor = errors.New("unsupported lipid descriptor")

// ModelParams holds everything needed to evaluate one trained linear model:
// the categorical vocabularies its encoders were fitted on, the per-feature
// scale divisors of the training-time scaler (scale-only, no centering), the
// coefficients, and the intercept.
//
// The feature layout is fixed: class one-hot, fa-mod one-hot, adduct one-hot
// (models trained without adducts have an empty adduct vocabulary), then the
// numeric carbon and unsaturation counts.
type ModelParams struct {
	Classes   []string  `json:"classes"`
	FAMods    []string  `json:"fa_mods"`
	Adducts   []string  `json:"adducts"`
	Scale     []float64 `json:"scale"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (p ModelParams) featureLen() int {
	return len(p.Classes) + len(p.FAMods) + len(p.Adducts) + 2
}

func (p ModelParams) validate(name string) error {
	n := p.featureLen()
	if len(p.Coef) != n {
		return fmt.Errorf("%s model: %d coefficients for %d features", name, len(p.Coef), n)
	}
	if len(p.Scale) != n {
		return fmt.Errorf("%s model: %d scale factors for %d features", name, len(p.Scale), n)
	}
	for i, s := range p.Scale {
		if s == 0 {
			return fmt.Errorf("%s model: zero scale factor at feature %d", name, i)
		}
	}
	return nil
}

type model struct {
	params     ModelParams
	classIdx   map[string]int
	faModIdx   map[string]int
	adductIdx  map[string]int
	hasAdducts bool
}

func newModel(params ModelParams, name string) (*model, error) {
	if err := params.validate(name); err != nil {
		return nil, err
	}
	m := &model{
		params:     params,
		classIdx:   indexOf(params.Classes),
		faModIdx:   indexOf(params.FAMods),
		adductIdx:  indexOf(params.Adducts),
		hasAdducts: len(params.Adducts) > 0,
	}
	return m, nil
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

// featurize encodes a descriptor into the training-time representation. A
// fatty-acid modifier outside the vocabulary encodes to the all-zero slot,
// matching the encoder's unknown handling at training time; an unknown class
// or adduct is an ErrUnsupportedDescriptor.
func (m *model) featurize(class string, carbons, unsaturations int, adduct, faMod string) ([]float64, error) {
	x := make([]float64, m.params.featureLen())

	ci, ok := m.classIdx[class]
	if !ok {
		return nil, fmt.Errorf("%w: lipid class %q", ErrUnsupportedDescriptor, class)
	}
	x[ci] = 1

	if faMod != "" {
		if fi, ok := m.faModIdx[faMod]; ok {
			x[len(m.params.Classes)+fi] = 1
		}
	}

	if m.hasAdducts {
		ai, ok := m.adductIdx[adduct]
		if !ok {
			return nil, fmt.Errorf("%w: adduct %q", ErrUnsupportedDescriptor, adduct)
		}
		x[len(m.params.Classes)+len(m.params.FAMods)+ai] = 1
	}

	n := m.params.featureLen()
	x[n-2] = float64(carbons)
	x[n-1] = float64(unsaturations)

	for i := range x {
		x[i] /= m.params.Scale[i]
	}
	return x, nil
}

func (m *model) predict(class string, carbons, unsaturations int, adduct, faMod string) (float64, error) {
	x, err := m.featurize(class, carbons, unsaturations, adduct, faMod)
	if err != nil {
		return 0, err
	}
	return floats.Dot(m.params.Coef, x) + m.params.Intercept, nil
}

// Predictor evaluates the CCS and retention-time models.
type Predictor struct {
	ccs *model
	rt  *model
}

// CCS predicts a collision cross section for the descriptor.
func (p *Predictor) CCS(class string, carbons, unsaturations int, adduct, faMod string) (float64, error) {
	return p.ccs.predict(class, carbons, unsaturations, adduct, faMod)
}

// RT predicts a HILIC retention time for the descriptor. The retention-time
// model is adduct-independent.
func (p *Predictor) RT(class string, carbons, unsaturations int, faMod string) (float64, error) {
	return p.rt.predict(class, carbons, unsaturations, "", faMod)
}
