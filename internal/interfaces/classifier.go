package interfaces

import (
	"github.com/vennverse/formfill/internal/model"
)

// Classifier is the minimal cross-package contract for mapping a scanned
// DOM element to a semantic field. Implementations receive an element
// snapshot plus the detected site context and return an analysis result.
// The Classifier does NOT touch the live page.
//
// Note: this interface intentionally references model.FieldAnalysisResult so
// callers and implementations agree on the canonical result type.
type Classifier interface {
	// Classify scores el against every registered field mapping and returns
	// the best match. A nil mapped field (empty MappedField) means no signal
	// matched at all; low-but-nonzero confidence is the caller's problem.
	Classify(el *model.Element, site model.SiteContext) *model.FieldAnalysisResult
}

// Resolver maps a semantic field name to a concrete value from a loaded
// user profile. Implementations never return an error: missing data yields
// the empty string, which callers treat as "skip this field".
type Resolver interface {
	// Resolve returns the profile value for the given semantic field,
	// or "" when the profile cannot supply one.
	Resolve(field string, p *model.UserProfile) string
}
