package model

// FieldAnalysisResult is the classifier's verdict for a single element.
// Transient: recomputed per element per pass, never cached across passes.
type FieldAnalysisResult struct {
	// MappedField is the winning semantic field name, or "" when no
	// mapping produced any signal at all.
	MappedField string `json:"mapped_field,omitempty"`

	// Confidence is the heuristic certainty in [0,1]. This is not a
	// calibrated probability; the fill threshold lives in the orchestrator.
	Confidence float64 `json:"confidence"`

	// Context is the collected-text snapshot the keywords were matched
	// against, kept for logging and report evidence.
	Context string `json:"context,omitempty"`
}
