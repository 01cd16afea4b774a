package identify

import (
	"github.com/google/uuid"
)

// Feature is one analyte row the engine reads: m/z plus optional retention
// time and CCS. Features are owned by the dataset collaborator and never
// mutated here.
type Feature struct {
	MZ  float64
	RT  *float64
	CCS *float64
}

// Candidate is one reference record proposed as a possible identity, with
// the fit score it earned.
type Candidate struct {
	Name          string
	Class         string
	Carbons       int
	Unsaturations int
	FAMod         string
	Adduct        string

	MZ  float64
	RT  *float64
	CCS *float64

	// Theoretical marks candidates drawn from enumerated records.
	Theoretical bool
	// Score is inverse normalized-residual distance; higher is better. Only
	// meaningful relative to other candidates of the same feature.
	Score float64
}

// Result is one feature's identification outcome: the level that matched and
// the candidates found there, best score first. An unidentified feature has
// the LevelUnidentified tag and no candidates.
type Result struct {
	Level      Level
	Candidates []Candidate
}

// Identified reports whether any level yielded candidates.
func (r Result) Identified() bool {
	return len(r.Candidates) > 0
}

// Scores returns the candidate scores in candidate order.
func (r Result) Scores() []float64 {
	if len(r.Candidates) == 0 {
		return nil
	}
	scores := make([]float64, len(r.Candidates))
	for i, c := range r.Candidates {
		scores[i] = c.Score
	}
	return scores
}

// Run is one complete identification pass over a feature table. Results is
// parallel to the input features; a run always carries one entry per feature.
type Run struct {
	ID        uuid.UUID
	Tolerance Tolerance
	Levels    []Level
	Norm      Norm
	Results   []Result
}

// IdentifiedCount reports how many features ended with candidates.
func (r *Run) IdentifiedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Identified() {
			n++
		}
	}
	return n
}
