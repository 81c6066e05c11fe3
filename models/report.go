package models

// PassStats records what a single pipeline pass did to the tree.
type PassStats struct {
	Name string `json:"name"`

	// Removed counts elements and comments deleted with their subtrees.
	Removed int `json:"removed,omitempty"`

	// Unwrapped counts elements dropped with their content kept in place.
	Unwrapped int `json:"unwrapped,omitempty"`

	// AttrsRemoved counts attributes deleted.
	AttrsRemoved int `json:"attrs_removed,omitempty"`

	// Created counts paragraphs synthesized from inline runs.
	Created int `json:"created,omitempty"`

	// Retagged counts elements whose tag was changed in place.
	Retagged int `json:"retagged,omitempty"`

	DurationUs int64 `json:"duration_us"`
}

// CleanReport summarises one pipeline run.
type CleanReport struct {
	Passes []PassStats `json:"passes"`

	// InputFingerprint and OutputFingerprint are structural SimHash
	// fingerprints of the element tree before and after cleaning.
	InputFingerprint  uint64 `json:"input_fingerprint"`
	OutputFingerprint uint64 `json:"output_fingerprint"`

	// StructureDistance is the Hamming distance between the two.
	StructureDistance int `json:"structure_distance"`

	DurationUs int64 `json:"duration_us"`
}

// Pass returns the stats recorded under name.
func (r *CleanReport) Pass(name string) (PassStats, bool) {
	for _, p := range r.Passes {
		if p.Name == name {
			return p, true
		}
	}
	return PassStats{}, false
}

// Totals sums the counters of every pass.
func (r *CleanReport) Totals() PassStats {
	t := PassStats{Name: "total"}
	for _, p := range r.Passes {
		t.Removed += p.Removed
		t.Unwrapped += p.Unwrapped
		t.AttrsRemoved += p.AttrsRemoved
		t.Created += p.Created
		t.Retagged += p.Retagged
		t.DurationUs += p.DurationUs
	}
	return t
}
