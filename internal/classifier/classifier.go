// Package classifier scores scanned elements against the field-mapping
// registry. It is a single generic loop over declarative mappings: a
// structural (CSS selector) match earns the mapping's full base confidence,
// a keyword match against the element's textual context earns a discounted
// score, and known-platform attribute conventions add a bounded boost.
package classifier

import (
	"strings"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/mapping"
	"github.com/vennverse/formfill/internal/model"
)

// Config carries the empirically chosen scoring constants. The magnitudes
// have no formal derivation; treat them as tunables, not truths.
type Config struct {
	// KeywordSuppression: a keyword match is only considered when the
	// same field's selector confidence is below this bar.
	KeywordSuppression float64

	// Site-specific boosts, applied when platform attribute conventions
	// corroborate the candidate field. Total score is capped at 1.0.
	WorkdayBoost    float64
	LinkedInBoost   float64
	GreenhouseBoost float64
}

// DefaultConfig returns the scoring constants the engine ships with.
func DefaultConfig() Config {
	return Config{
		KeywordSuppression: 0.8,
		WorkdayBoost:       0.2,
		LinkedInBoost:      0.15,
		GreenhouseBoost:    0.1,
	}
}

// HeuristicClassifier implements interfaces.Classifier over the static
// mapping registry.
type HeuristicClassifier struct {
	cfg      *Config
	mappings []model.FieldMapping
	logger   logging.Logger
}

var _ interfaces.Classifier = (*HeuristicClassifier)(nil)

// New constructs a classifier over the full mapping registry.
func New(cfg *Config, logger logging.Logger) *HeuristicClassifier {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	return &HeuristicClassifier{
		cfg:      cfg,
		mappings: mapping.All(),
		logger:   logger.With(logging.Field{Key: "component", Value: "classifier"}),
	}
}

// Classify scores el against every registered mapping and returns the best
// match. MappedField is "" when nothing produced any signal. Ties keep the
// first-registered field: registry order is a deliberate priority.
func (c *HeuristicClassifier) Classify(el *model.Element, site model.SiteContext) *model.FieldAnalysisResult {
	bag := el.ContextBag()
	result := &model.FieldAnalysisResult{Context: bag}

	for i := range c.mappings {
		m := &c.mappings[i]

		var selectorConf float64
		for _, s := range m.Selectors {
			if el.Matches(s) {
				selectorConf = m.BaseConfidence
				break
			}
		}

		score := selectorConf

		// Keyword containment is a noisier signal; it never competes with
		// a strong structural match on the same field.
		if selectorConf < c.cfg.KeywordSuppression {
			for _, kw := range m.Keywords {
				if strings.Contains(bag, kw) {
					if kc := model.KeywordDiscount * m.BaseConfidence; kc > score {
						score = kc
					}
					break
				}
			}
		}

		if score == 0 {
			continue
		}

		score = c.applySiteBoost(score, m.Field, el, site)

		if score > result.Confidence {
			result.Confidence = score
			result.MappedField = m.Field
		}
	}

	if result.MappedField != "" {
		c.logger.Debug("classified element",
			logging.Field{Key: "identity", Value: el.Identity},
			logging.Field{Key: "field", Value: result.MappedField},
			logging.Field{Key: "confidence", Value: result.Confidence})
	}
	return result
}

// applySiteBoost rewards platform attribute conventions that corroborate
// the candidate field. Capped at 1.0.
func (c *HeuristicClassifier) applySiteBoost(score float64, field string, el *model.Element, site model.SiteContext) float64 {
	lf := strings.ToLower(field)

	switch site.Name {
	case "workday":
		if strings.Contains(el.Attrs["data-automation-id"], lf) {
			score += c.cfg.WorkdayBoost
		}
	case "linkedin":
		inApplyFlow := strings.Contains(el.Attrs["class"], "jobs-apply") ||
			strings.Contains(el.Ancestor, "jobs-apply")
		if inApplyFlow && strings.Contains(el.Attrs["name"], lf) {
			score += c.cfg.LinkedInBoost
		}
	case "greenhouse":
		if strings.Contains(el.Attrs["id"], lf) || strings.Contains(el.Attrs["name"], lf) {
			score += c.cfg.GreenhouseBoost
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
