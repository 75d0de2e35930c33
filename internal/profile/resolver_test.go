package profile

import (
	"testing"
	"time"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/model"
)

func testResolver(now time.Time) *Resolver {
	r := NewResolver(interfaces.NewTestLogger(false))
	r.Now = func() time.Time { return now }
	return r
}

func boolPtr(b bool) *bool { return &b }

func sampleProfile() *model.UserProfile {
	return &model.UserProfile{
		User: model.UserIdentity{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Profile: model.ProfileDetails{
			Phone:               "+1 555 0100",
			City:                "Boston",
			RequiresSponsorship: boolPtr(false),
		},
	}
}

func TestResolveDirectFields(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())
	p := sampleProfile()

	tests := []struct{ field, want string }{
		{"firstName", "Ada"},
		{"lastName", "Lovelace"},
		{"email", "ada@example.com"},
		{"phone", "+1 555 0100"},
		{"city", "Boston"},
		{"state", ""},
		{"linkedinUrl", ""},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.field, p); got != tt.want {
			t.Errorf("Resolve(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestResolveFullName(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())

	p := sampleProfile()
	if got := r.Resolve("fullName", p); got != "Ada Lovelace" {
		t.Errorf("fullName = %q", got)
	}

	// Empty components are omitted, not joined with stray spaces.
	p.User.LastName = ""
	if got := r.Resolve("fullName", p); got != "Ada" {
		t.Errorf("fullName with empty last = %q", got)
	}
	p.User.FirstName = ""
	if got := r.Resolve("fullName", p); got != "" {
		t.Errorf("fullName with no names = %q", got)
	}
}

func TestResolveYearsExperience(t *testing.T) {
	t.Parallel()

	// 2020-01..2022-06 = 29 months; 2022-07..now(2024-07) = 24 months.
	// 53 months -> 4 whole years (truncated, not rounded).
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	r := testResolver(now)

	p := sampleProfile()
	p.WorkExperience = []model.WorkExperience{
		{StartDate: "2020-01", EndDate: "2022-06"},
		{StartDate: "2022-07"},
	}

	if got := r.Resolve("yearsExperience", p); got != "4" {
		t.Fatalf("yearsExperience = %q, want 4", got)
	}
}

func TestResolveYearsExperienceEdgeCases(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	r := testResolver(now)

	p := sampleProfile()
	if got := r.Resolve("yearsExperience", p); got != "" {
		t.Errorf("no work experience should resolve empty, got %q", got)
	}

	// Unparseable start dates are skipped entirely.
	p.WorkExperience = []model.WorkExperience{{StartDate: "once upon a time"}}
	if got := r.Resolve("yearsExperience", p); got != "" {
		t.Errorf("unparseable-only should resolve empty, got %q", got)
	}

	// An end before start clamps to zero months rather than going negative.
	p.WorkExperience = []model.WorkExperience{
		{StartDate: "2023-05", EndDate: "2023-01"},
		{StartDate: "2010-01", EndDate: "2011-01"},
	}
	if got := r.Resolve("yearsExperience", p); got != "1" {
		t.Errorf("clamped sum = %q, want 1", got)
	}
}

func TestResolveEducationHighestCredential(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())

	p := sampleProfile()
	p.Education = []model.Education{
		{Degree: "Bachelor of Science"},
		{Degree: "Master of Arts"},
	}
	if got := r.Resolve("education", p); got != "Master of Arts" {
		t.Fatalf("education = %q, want Master of Arts", got)
	}

	// Ties keep the first-seen entry.
	p.Education = []model.Education{
		{Degree: "Master of Science"},
		{Degree: "MBA"},
	}
	if got := r.Resolve("education", p); got != "Master of Science" {
		t.Fatalf("tie should keep first entry, got %q", got)
	}

	// Unranked degrees still resolve when nothing ranks higher.
	p.Education = []model.Education{{Degree: "Bootcamp"}}
	if got := r.Resolve("education", p); got != "Bootcamp" {
		t.Fatalf("unranked degree = %q", got)
	}
}

func TestResolveSponsorshipMapsToYesNo(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())

	p := sampleProfile()
	if got := r.Resolve("requiresSponsorship", p); got != "No" {
		t.Errorf("sponsorship=false should be No, got %q", got)
	}
	p.Profile.RequiresSponsorship = boolPtr(true)
	if got := r.Resolve("requiresSponsorship", p); got != "Yes" {
		t.Errorf("sponsorship=true should be Yes, got %q", got)
	}
	p.Profile.RequiresSponsorship = nil
	if got := r.Resolve("requiresSponsorship", p); got != "" {
		t.Errorf("absent sponsorship should be empty, got %q", got)
	}
}

func TestResolveCountryDefault(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())

	p := sampleProfile()
	if got := r.Resolve("country", p); got != DefaultCountry {
		t.Errorf("country default = %q", got)
	}
	p.Profile.Country = "Canada"
	if got := r.Resolve("country", p); got != "Canada" {
		t.Errorf("explicit country = %q", got)
	}
}

func TestResolveNeverPanics(t *testing.T) {
	t.Parallel()
	r := testResolver(time.Now())

	if got := r.Resolve("email", nil); got != "" {
		t.Errorf("nil profile should resolve empty, got %q", got)
	}
	if got := r.Resolve("unknownField", sampleProfile()); got != "" {
		t.Errorf("unknown field should resolve empty, got %q", got)
	}
}
