package refdb

// Measured is one measured reference entry: values observed directly in one
// of the source datasets.
type Measured struct {
	ID            int64
	Name          string
	Class         string
	Carbons       int
	Unsaturations int
	FAMod         string // "" when the lipid carries no fatty-acid modifier
	Adduct        string
	MZ            float64
	CCS           float64
	RT            *float64 // nil when the source dataset reported no retention time
	SMILES        string
	SrcTag        string
	CCSType       string
	CCSMethod     string
}

// Theoretical is one enumerated reference entry. CCS and RT come from the
// predicted_ccs/predicted_rt columns when the snapshot carries them; either
// may be nil, in which case callers fall back to the property predictor.
type Theoretical struct {
	ID            int64
	Name          string
	Class         string
	Carbons       int
	Unsaturations int
	FAMod         string
	Adduct        string
	MZ            float64
	CCS           *float64
	RT            *float64
}
