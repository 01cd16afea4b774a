package predict

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// paramsFile is the on-disk layout of a model parameter file: one parameter
// block per trained model.
type paramsFile struct {
	Version string      `json:"version"`
	CCS     ModelParams `json:"ccs"`
	RT      ModelParams `json:"rt"`
}

//go:embed default_params.json
var defaultParams []byte

// New constructs a predictor from parameter blocks.
func New(ccs, rt ModelParams) (*Predictor, error) {
	cm, err := newModel(ccs, "ccs")
	if err != nil {
		return nil, err
	}
	rm, err := newModel(rt, "rt")
	if err != nil {
		return nil, err
	}
	return &Predictor{ccs: cm, rt: rm}, nil
}

// Load reads a model parameter file produced by the offline training
// pipeline.
func Load(path string) (*Predictor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model parameters: %w", err)
	}
	return parse(raw, path)
}

// Default returns the predictor built from the bundled parameter set, so
// identification works without an external model file.
func Default() *Predictor {
	p, err := parse(defaultParams, "bundled parameters")
	if err != nil {
		// The bundled file ships with the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("predict: %v", err))
	}
	return p
}

func parse(raw []byte, origin string) (*Predictor, error) {
	var file paramsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse model parameters (%s): %w", origin, err)
	}
	p, err := New(file.CCS, file.RT)
	if err != nil {
		return nil, fmt.Errorf("model parameters (%s): %w", origin, err)
	}
	return p, nil
}
