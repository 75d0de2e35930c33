package classifier_test

import (
	"math"
	"testing"

	"github.com/vennverse/formfill/internal/classifier"
	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/mapping"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/scanner"
	"github.com/vennverse/formfill/internal/sitecontext"
)

func scanOne(t *testing.T, html string) *model.Element {
	t.Helper()
	s := scanner.New(interfaces.NewTestLogger(false))
	els, err := s.Scan("<html><body>" + html + "</body></html>")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(els) != 1 {
		t.Fatalf("expected exactly 1 element, got %d", len(els))
	}
	return els[0]
}

func newClassifier(t *testing.T) *classifier.HeuristicClassifier {
	t.Helper()
	return classifier.New(nil, interfaces.NewTestLogger(false))
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSelectorMatchScoresBaseConfidence(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	el := scanOne(t, `<input type="email" name="applicant_email">`)

	got := c.Classify(el, sitecontext.Generic)
	if got.MappedField != "email" {
		t.Fatalf("mapped field = %q, want email", got.MappedField)
	}
	want := mapping.Get("email").BaseConfidence
	if !almostEqual(got.Confidence, want) {
		t.Fatalf("confidence = %v, want base confidence %v exactly", got.Confidence, want)
	}
}

func TestKeywordMatchIsDiscounted(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	// No selector matches: generic name, but the label carries the keyword.
	el := scanOne(t, `<label>LinkedIn <input type="text" name="q17"></label>`)

	got := c.Classify(el, sitecontext.Generic)
	if got.MappedField != "linkedinUrl" {
		t.Fatalf("mapped field = %q, want linkedinUrl", got.MappedField)
	}
	want := model.KeywordDiscount * mapping.Get("linkedinUrl").BaseConfidence
	if !almostEqual(got.Confidence, want) {
		t.Fatalf("confidence = %v, want %v (0.7 x base)", got.Confidence, want)
	}
}

func TestKeywordNeverBeatsStrongSelectorMatch(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	// Structurally an email input (base 0.95), but the surrounding label
	// also mentions "phone". The keyword path must not win.
	el := scanOne(t, `<div class="form-group"><span class="form-label">phone or email</span><input type="email" name="applicant_email"></div>`)

	got := c.Classify(el, sitecontext.Generic)
	if got.MappedField != "email" {
		t.Fatalf("mapped field = %q, want email", got.MappedField)
	}
}

func TestNoSignalYieldsNoField(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	el := scanOne(t, `<input type="text" name="q42x">`)

	got := c.Classify(el, sitecontext.Generic)
	if got.MappedField != "" {
		t.Fatalf("expected no mapped field, got %q (%v)", got.MappedField, got.Confidence)
	}
	if got.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %v", got.Confidence)
	}
}

func TestWorkdayAutomationIDBoost(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	workday := sitecontext.Detect("acme.wd5.myworkdayjobs.com", "")

	el := scanOne(t, `<input type="text" data-automation-id="legalNameSection_firstName" placeholder="First Name">`)

	generic := c.Classify(el, sitecontext.Generic)
	boosted := c.Classify(el, workday)

	if boosted.MappedField != "firstName" {
		t.Fatalf("mapped field = %q, want firstName", boosted.MappedField)
	}
	if !(boosted.Confidence > generic.Confidence) {
		t.Fatalf("workday boost missing: %v vs %v", boosted.Confidence, generic.Confidence)
	}
	if boosted.Confidence > 1.0 {
		t.Fatalf("confidence exceeds cap: %v", boosted.Confidence)
	}
}

func TestGreenhouseBoostOnNameContainment(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	gh := sitecontext.Detect("boards.greenhouse.io", "")

	el := scanOne(t, `<input type="text" name="job_application[phone]">`)

	generic := c.Classify(el, sitecontext.Generic)
	boosted := c.Classify(el, gh)

	if boosted.MappedField != "phone" {
		t.Fatalf("mapped field = %q, want phone", boosted.MappedField)
	}
	wantDelta := classifier.DefaultConfig().GreenhouseBoost
	if !almostEqual(boosted.Confidence-generic.Confidence, wantDelta) {
		t.Fatalf("greenhouse delta = %v, want %v", boosted.Confidence-generic.Confidence, wantDelta)
	}
}

func TestTieKeepsFirstRegisteredField(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	// "given name" (firstName keyword) and "family name" (lastName keyword)
	// both appear; both fields share base confidence, so the earlier
	// registry row must win.
	el := scanOne(t, `<label>Given name / family name <input type="text" name="q3"></label>`)

	got := c.Classify(el, sitecontext.Generic)
	if got.MappedField != "firstName" {
		t.Fatalf("tie should keep firstName (first registered), got %q", got.MappedField)
	}
}

func TestContextSnapshotReturned(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	el := scanOne(t, `<input type="text" name="city" placeholder="City">`)

	got := c.Classify(el, sitecontext.Generic)
	if got.Context == "" {
		t.Fatal("expected non-empty context snapshot")
	}
}
