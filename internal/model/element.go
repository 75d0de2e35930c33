package model

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ControlKind is the injection-relevant shape of a form control. The
// injector selects its write strategy from this, never from runtime
// inspection of the host framework.
type ControlKind string

const (
	ControlText            ControlKind = "text"
	ControlSelect          ControlKind = "select"
	ControlTextarea        ControlKind = "textarea"
	ControlContentEditable ControlKind = "contenteditable"
	ControlCheckable       ControlKind = "checkable"
)

// SelectOption is one <option> of a scanned <select>.
type SelectOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Element is a snapshot of one candidate form control discovered on the
// page. It carries everything classification and injection need so neither
// has to re-query the DOM: lowercased attributes of interest, the resolved
// label text, nearby ancestor text, a stable identity for the filled-field
// registry, and a CSS locator for page-side targeting.
type Element struct {
	// Identity is the stable per-page identity: id, else name, else
	// data-automation-id, else a deterministic DOM-path fallback. The
	// filled-field registry is keyed on this.
	Identity string `json:"identity"`

	// Locator is a CSS selector path that uniquely targets this element
	// in the live page.
	Locator string `json:"locator"`

	Tag  string      `json:"tag"`  // lowercase tag name
	Type string      `json:"type"` // lowercase input type attr ("" when absent)
	Kind ControlKind `json:"kind"`

	// Attrs holds the lowercased values of the attributes the classifier
	// cares about: name, id, placeholder, aria-label, data-testid,
	// data-automation-id, class.
	Attrs map[string]string `json:"attrs,omitempty"`

	// Label is the best-effort associated label text, lowercased.
	Label string `json:"label,omitempty"`

	// Ancestor is the first 200 characters of the nearest form-group
	// container's text, lowercased. Fallback disambiguation only.
	Ancestor string `json:"ancestor,omitempty"`

	// Options is populated for selects.
	Options []SelectOption `json:"options,omitempty"`

	// Sel is the parsed-snapshot node, used for structural selector
	// matching during classification. Never serialized.
	Sel *goquery.Selection `json:"-"`
}

// ContextBag concatenates every textual signal the classifier matches
// keywords against. Lowercase by construction.
func (e *Element) ContextBag() string {
	parts := make([]string, 0, len(e.Attrs)+2)
	for _, k := range []string{"name", "id", "placeholder", "aria-label", "data-testid", "data-automation-id", "class"} {
		if v := e.Attrs[k]; v != "" {
			parts = append(parts, v)
		}
	}
	if e.Label != "" {
		parts = append(parts, e.Label)
	}
	if e.Ancestor != "" {
		parts = append(parts, e.Ancestor)
	}
	return strings.Join(parts, " ")
}

// Matches reports whether the element structurally matches the CSS selector.
// Invalid selectors simply don't match.
func (e *Element) Matches(selector string) bool {
	if e.Sel == nil {
		return false
	}
	return e.Sel.Is(selector)
}
