package model

// FieldMapping declares how one semantic field (e.g. "email") is recognized
// in arbitrary third-party markup. Mappings are static data, not code: the
// classifier is a single generic scoring loop over the registry.
//
// Selectors are tried in order for efficiency but order does not affect the
// score; the first structural match short-circuits at BaseConfidence.
// Keywords are lowercase substrings matched against the element's collected
// textual context; a keyword match is discounted (KeywordDiscount ×
// BaseConfidence) because labels and placeholders are noisier signals than
// explicit attribute naming.
type FieldMapping struct {
	// Field is the semantic field name this mapping identifies.
	Field string `json:"field"`

	// Selectors are CSS selectors that structurally identify the field.
	Selectors []string `json:"selectors"`

	// Keywords are lowercase substrings looked up in the context bag.
	Keywords []string `json:"keywords"`

	// BaseConfidence is the score awarded for a structural match, in [0,1].
	BaseConfidence float64 `json:"base_confidence"`
}

// KeywordDiscount is the multiplier applied to BaseConfidence when a field
// is identified only through keyword containment.
const KeywordDiscount = 0.7
