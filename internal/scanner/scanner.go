// Package scanner discovers candidate form controls in a page snapshot and
// builds the element context the classifier scores against. It operates on
// parsed HTML only; the live page is never touched here.
package scanner

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// candidateSelectors is the fixed discovery set: standard text-like inputs,
// selects, textareas, contenteditables, ARIA text widgets, and the
// framework-specific inputs the big ATS platforms render.
var candidateSelectors = []string{
	`input[type="text"]`,
	`input[type="email"]`,
	`input[type="tel"]`,
	`input[type="url"]`,
	`input[type="search"]`,
	`input[type="number"]`,
	`input[type="date"]`,
	`input[type="checkbox"]`,
	`input[type="radio"]`,
	`input:not([type])`,
	`select`,
	`textarea`,
	`[contenteditable="true"]`,
	`[role="textbox"]`,
	`[role="combobox"] input`,
	`input[id^="react-select"]`,
	`.select2-search__field`,
	`input[data-automation-id]`,
}

// excludedTypes are input types never filled.
var excludedTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true,
	"file": true, "password": true, "reset": true, "image": true,
}

// contextAttrs are the attributes collected into the classifier context bag.
var contextAttrs = []string{
	"name", "id", "placeholder", "aria-label",
	"data-testid", "data-automation-id", "class",
}

// ancestorTextLimit caps how much enclosing-container text is collected for
// fallback disambiguation.
const ancestorTextLimit = 200

// containerSelector matches the form-group/field-wrapper ancestors used for
// label fallback and ancestor text.
const containerSelector = `.form-group, .field, .form-field, .input-group, .question, [data-field], fieldset`

// Scanner turns page snapshots into element lists.
type Scanner struct {
	logger logging.Logger
}

// New creates a Scanner.
func New(logger logging.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan parses the snapshot and returns every fillable candidate element,
// deduplicated by identity, in document order.
func (s *Scanner) Scan(pageHTML string) ([]*model.Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("scanner: parse snapshot: %w", err)
	}
	return s.ScanDocument(doc), nil
}

// ScanDocument is Scan over an already-parsed document.
func (s *Scanner) ScanDocument(doc *goquery.Document) []*model.Element {
	var out []*model.Element
	seen := map[string]bool{}

	doc.Find(strings.Join(candidateSelectors, ", ")).Each(func(_ int, sel *goquery.Selection) {
		el := s.buildElement(sel)
		if el == nil {
			return
		}
		if seen[el.Identity] {
			return
		}
		seen[el.Identity] = true
		out = append(out, el)
	})

	return out
}

// buildElement assembles the Element snapshot, or nil when the node is not
// fillable (excluded type, disabled, readonly, statically hidden).
func (s *Scanner) buildElement(sel *goquery.Selection) *model.Element {
	node := sel.Get(0)
	if node == nil || node.Type != html.ElementNode {
		return nil
	}

	tag := strings.ToLower(node.Data)
	typ := strings.ToLower(getAttr(sel, "type"))

	if tag == "input" && excludedTypes[typ] {
		return nil
	}
	if !fillable(sel) {
		return nil
	}

	el := &model.Element{
		Tag:   tag,
		Type:  typ,
		Kind:  controlKind(tag, typ, sel),
		Attrs: map[string]string{},
		Sel:   sel,
	}

	for _, a := range contextAttrs {
		if v := strings.ToLower(strings.TrimSpace(getAttr(sel, a))); v != "" {
			el.Attrs[a] = v
		}
	}

	el.Label = labelText(sel)
	el.Ancestor = ancestorText(sel)
	el.Identity = identity(sel, node)
	el.Locator = locator(sel, node)

	if el.Kind == model.ControlSelect {
		sel.Find("option").Each(func(i int, opt *goquery.Selection) {
			el.Options = append(el.Options, model.SelectOption{
				Value: getAttr(opt, "value"),
				Text:  strings.TrimSpace(opt.Text()),
				Index: i,
			})
		})
	}

	return el
}

// fillable filters out controls a user could not type into.
func fillable(sel *goquery.Selection) bool {
	if _, ok := sel.Attr("disabled"); ok {
		return false
	}
	if _, ok := sel.Attr("readonly"); ok {
		return false
	}
	if _, ok := sel.Attr("hidden"); ok {
		return false
	}
	// static visibility check only; the injected script re-checks the live
	// geometry before writing.
	style := strings.ReplaceAll(strings.ToLower(getAttr(sel, "style")), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	return true
}

func controlKind(tag, typ string, sel *goquery.Selection) model.ControlKind {
	switch {
	case tag == "select":
		return model.ControlSelect
	case tag == "textarea":
		return model.ControlTextarea
	case typ == "checkbox" || typ == "radio":
		return model.ControlCheckable
	case getAttr(sel, "contenteditable") == "true":
		return model.ControlContentEditable
	default:
		return model.ControlText
	}
}

// labelText resolves the best-effort label for a control. Tried in order:
// <label for>, aria-label, aria-labelledby target, enclosing <label>,
// sibling/parent label-like elements, enclosing [data-field] attribute,
// enclosing form-group's label-classed element. First non-empty wins.
func labelText(sel *goquery.Selection) string {
	doc := goquery.NewDocumentFromNode(rootOf(sel.Get(0)))

	if id := getAttr(sel, "id"); id != "" {
		if t := cleanText(doc.Find(fmt.Sprintf(`label[for=%q]`, id)).First().Text()); t != "" {
			return t
		}
	}
	if t := cleanText(getAttr(sel, "aria-label")); t != "" {
		return t
	}
	if ref := getAttr(sel, "aria-labelledby"); ref != "" {
		// space-separated id list; concatenate in order
		var parts []string
		for _, id := range strings.Fields(ref) {
			if t := cleanText(doc.Find(fmt.Sprintf(`[id=%q]`, id)).First().Text()); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	if t := cleanText(sel.Closest("label").Text()); t != "" {
		return t
	}
	if t := cleanText(sel.Prev().Filter("label").Text()); t != "" {
		return t
	}
	if t := cleanText(sel.Parent().ChildrenFiltered("label").First().Text()); t != "" {
		return t
	}
	if df := getAttr(sel.Closest("[data-field]"), "data-field"); df != "" {
		return strings.ToLower(strings.TrimSpace(df))
	}
	if t := cleanText(sel.Closest(containerSelector).Find(".label, .form-label, .field-label, legend").First().Text()); t != "" {
		return t
	}
	return ""
}

// ancestorText collects the nearest container's text for fallback
// disambiguation, truncated to ancestorTextLimit characters.
func ancestorText(sel *goquery.Selection) string {
	container := sel.Closest(containerSelector)
	if container.Length() == 0 {
		container = sel.Parent()
	}
	t := cleanText(container.Text())
	if len(t) > ancestorTextLimit {
		t = t[:ancestorTextLimit]
	}
	return t
}

// identity computes the stable per-page identity used by the filled-field
// registry: id, else name, else data-automation-id, else a deterministic
// DOM-path fallback (stable across passes over an unchanged DOM).
func identity(sel *goquery.Selection, node *html.Node) string {
	if id := getAttr(sel, "id"); id != "" {
		return id
	}
	if name := getAttr(sel, "name"); name != "" {
		return name
	}
	if aid := getAttr(sel, "data-automation-id"); aid != "" {
		return aid
	}
	return "anon:" + domPath(node)
}

// locator builds a CSS selector that targets this element in the live page.
func locator(sel *goquery.Selection, node *html.Node) string {
	if id := getAttr(sel, "id"); id != "" {
		return fmt.Sprintf(`[id=%q]`, id)
	}
	if name := getAttr(sel, "name"); name != "" {
		return fmt.Sprintf(`%s[name=%q]`, strings.ToLower(node.Data), name)
	}
	if aid := getAttr(sel, "data-automation-id"); aid != "" {
		return fmt.Sprintf(`[data-automation-id=%q]`, aid)
	}
	return cssPath(node)
}

// domPath is a compact structural path ("body/1/form/0/input/3") used for
// anonymous-element identity.
func domPath(node *html.Node) string {
	var parts []string
	for n := node; n != nil && n.Type == html.ElementNode && n.Data != "html"; n = n.Parent {
		parts = append([]string{fmt.Sprintf("%s/%d", n.Data, elementIndex(n))}, parts...)
	}
	return strings.Join(parts, "/")
}

// cssPath is a child-indexed selector chain for anonymous elements.
func cssPath(node *html.Node) string {
	var parts []string
	for n := node; n != nil && n.Type == html.ElementNode && n.Data != "html"; n = n.Parent {
		parts = append([]string{fmt.Sprintf("%s:nth-child(%d)", n.Data, elementIndex(n)+1)}, parts...)
	}
	return strings.Join(parts, " > ")
}

// elementIndex is the node's position among its element siblings.
func elementIndex(node *html.Node) int {
	i := 0
	for sib := node.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			i++
		}
	}
	return i
}

func rootOf(node *html.Node) *html.Node {
	n := node
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// cleanText lowercases, trims and collapses whitespace.
func cleanText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// getAttr safely retrieves an attribute value from a goquery selection.
func getAttr(sel *goquery.Selection, attrName string) string {
	val, exists := sel.Attr(attrName)
	if exists {
		return strings.TrimSpace(val)
	}
	return ""
}
