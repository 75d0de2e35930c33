// Package report turns per-pass fill outcomes into FillReports, including a
// line-oriented diff of the serialized form state before and after the pass.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// Builder assembles FillReports.
type Builder struct {
	logger logging.Logger
	dmp    *diffmatchpatch.DiffMatchPatch
}

// NewBuilder creates a Builder.
func NewBuilder(logger logging.Logger) *Builder {
	return &Builder{
		logger: logger.With(logging.Field{Key: "component", Value: "report"}),
		dmp:    diffmatchpatch.New(),
	}
}

// RenderState serializes discovered controls and their known values into a
// canonical one-line-per-control form, sorted by identity so diffs are
// stable across scan ordering.
func RenderState(els []*model.Element, values map[string]string) string {
	lines := make([]string, 0, len(els))
	for _, el := range els {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", el.Identity, el.Kind, values[el.Identity]))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// Build produces the report for one completed pass. before and after are
// RenderState outputs captured around the pass.
func (b *Builder) Build(url string, pass int, site model.SiteContext, outcomes []model.FieldOutcome, scanned int, before, after string) *model.FillReport {
	filled := 0
	for _, o := range outcomes {
		if o.Status == model.OutcomeFilled {
			filled++
		}
	}

	r := &model.FillReport{
		URL:       url,
		Pass:      pass,
		Filled:    filled,
		Scanned:   scanned,
		Outcomes:  outcomes,
		Diff:      b.diffStates(before, after),
		Site:      site,
		Timestamp: time.Now().UTC(),
	}

	b.logger.Info("pass complete",
		logging.Field{Key: "pass", Value: pass},
		logging.Field{Key: "filled", Value: filled},
		logging.Field{Key: "scanned", Value: scanned})
	return r
}

// diffStates runs a line-mode diff so each form control produces at most one
// removed/added pair, never intra-line character noise.
func (b *Builder) diffStates(before, after string) []model.FormStateChunk {
	if before == after {
		return nil
	}

	a, bb, lines := b.dmp.DiffLinesToChars(before, after)
	diffs := b.dmp.DiffCharsToLines(b.dmp.DiffMain(a, bb, false), lines)

	chunks := make([]model.FormStateChunk, 0, len(diffs))
	for _, d := range diffs {
		var typ string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = "added"
		case diffmatchpatch.DiffDelete:
			typ = "removed"
		default:
			typ = "unchanged"
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			if line == "" {
				continue
			}
			chunks = append(chunks, model.FormStateChunk{Type: typ, Content: line})
		}
	}
	return chunks
}
