// Package profile supplies candidate data to the fill engine: a resolver
// that maps semantic field names onto a loaded profile snapshot (including
// derived values), and a loader that fetches the snapshot from the platform
// backend.
package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// DefaultCountry is substituted when the profile has no country value.
const DefaultCountry = "United States"

// degreeRanks orders credentials for the highest-education derivation.
// Substring containment is case-sensitive on purpose: backend degree
// strings are title-cased and we match them as stored.
var degreeRanks = []struct {
	token string
	rank  int
}{
	{"PhD", 6}, {"Doctorate", 6}, {"Doctor", 6},
	{"Master", 5}, {"MBA", 5},
	{"Bachelor", 4},
	{"Associate", 3},
	{"High School", 2}, {"Diploma", 2},
	{"Certificate", 1},
}

// Resolver maps semantic field names to concrete values from a profile
// snapshot. It never errors: any missing intermediate data yields "", and
// the caller skips injection for empty values.
type Resolver struct {
	logger logging.Logger

	// Now is the clock used for open-ended work-experience intervals.
	// Overridable in tests.
	Now func() time.Time
}

var _ interfaces.Resolver = (*Resolver)(nil)

// NewResolver creates a Resolver with the real clock.
func NewResolver(logger logging.Logger) *Resolver {
	return &Resolver{
		logger: logger.With(logging.Field{Key: "component", Value: "resolver"}),
		Now:    time.Now,
	}
}

// Resolve returns the value for a semantic field, or "" when the profile
// cannot supply one.
func (r *Resolver) Resolve(field string, p *model.UserProfile) string {
	if p == nil {
		return ""
	}

	switch field {
	case "firstName":
		return strings.TrimSpace(p.User.FirstName)
	case "lastName":
		return strings.TrimSpace(p.User.LastName)
	case "email":
		return strings.TrimSpace(p.User.Email)
	case "fullName":
		return fullName(p)
	case "phone":
		return strings.TrimSpace(p.Profile.Phone)
	case "address":
		return strings.TrimSpace(p.Profile.CurrentAddress)
	case "city":
		return strings.TrimSpace(p.Profile.City)
	case "state":
		return strings.TrimSpace(p.Profile.State)
	case "zipCode":
		return strings.TrimSpace(p.Profile.ZipCode)
	case "country":
		if c := strings.TrimSpace(p.Profile.Country); c != "" {
			return c
		}
		return DefaultCountry
	case "linkedinUrl":
		return strings.TrimSpace(p.Profile.LinkedinURL)
	case "githubUrl":
		return strings.TrimSpace(p.Profile.GithubURL)
	case "portfolioUrl":
		return strings.TrimSpace(p.Profile.PortfolioURL)
	case "workAuthorization":
		return strings.TrimSpace(p.Profile.WorkAuthorization)
	case "requiresSponsorship":
		if p.Profile.RequiresSponsorship == nil {
			return ""
		}
		if *p.Profile.RequiresSponsorship {
			return "Yes"
		}
		return "No"
	case "salaryExpectation":
		return strings.TrimSpace(p.Profile.ExpectedSalary)
	case "availableStartDate":
		return strings.TrimSpace(p.Profile.AvailableStartDate)
	case "yearsExperience":
		return r.yearsExperience(p)
	case "education":
		return highestDegree(p)
	default:
		return ""
	}
}

// fullName joins the non-empty name components with a single space.
func fullName(p *model.UserProfile) string {
	parts := make([]string, 0, 2)
	if f := strings.TrimSpace(p.User.FirstName); f != "" {
		parts = append(parts, f)
	}
	if l := strings.TrimSpace(p.User.LastName); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " ")
}

// yearsExperience sums months across every entry with a parseable start
// date (open intervals end now) and truncates to whole years. Partial
// final years are truncated, not rounded.
func (r *Resolver) yearsExperience(p *model.UserProfile) string {
	now := r.Now()
	months := 0
	counted := false

	for _, we := range p.WorkExperience {
		start, ok := parseMonth(we.StartDate)
		if !ok {
			continue
		}
		end, ok := parseMonth(we.EndDate)
		if !ok {
			end = now
		}
		if m := monthsBetween(start, end); m > 0 {
			months += m
		}
		counted = true
	}

	if !counted {
		return ""
	}
	return strconv.Itoa(months / 12)
}

// monthsBetween is calendar-month arithmetic, clamped at zero.
func monthsBetween(start, end time.Time) int {
	m := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if m < 0 {
		return 0
	}
	return m
}

// parseMonth accepts the backend's date shapes: YYYY-MM, YYYY-MM-DD, or a
// full RFC3339 timestamp.
func parseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// highestDegree returns the degree string of the highest-ranked credential.
// Ties keep the first-seen entry; only a strictly higher rank replaces it.
func highestDegree(p *model.UserProfile) string {
	best := ""
	bestRank := -1

	for _, edu := range p.Education {
		deg := strings.TrimSpace(edu.Degree)
		if deg == "" {
			continue
		}
		if rank := degreeRank(deg); best == "" || rank > bestRank {
			best = deg
			bestRank = rank
		}
	}
	return best
}

func degreeRank(degree string) int {
	for _, dr := range degreeRanks {
		if strings.Contains(degree, dr.token) {
			return dr.rank
		}
	}
	return 0
}
