// Package mapping holds the static registry of semantic field mappings.
// The registry is data, not code: adding a field means adding a table row,
// never touching the classifier's scoring loop.
package mapping

import "github.com/vennverse/formfill/internal/model"

// registry order is itself a deliberate priority: more specific and more
// common fields come first, and the classifier breaks score ties in favor
// of the first-registered field.
var registry = []model.FieldMapping{
	{
		Field: "firstName",
		Selectors: []string{
			`input[autocomplete="given-name"]`,
			`input[name*="first"][name*="name"]`,
			`input[name="firstName"]`,
			`input[name="first_name"]`,
			`input[id*="first"][id*="name"]`,
			`input[data-automation-id*="firstName"]`,
		},
		Keywords:       []string{"first name", "given name", "forename", "firstname"},
		BaseConfidence: 0.9,
	},
	{
		Field: "lastName",
		Selectors: []string{
			`input[autocomplete="family-name"]`,
			`input[name*="last"][name*="name"]`,
			`input[name="lastName"]`,
			`input[name="last_name"]`,
			`input[id*="last"][id*="name"]`,
			`input[data-automation-id*="lastName"]`,
		},
		Keywords:       []string{"last name", "family name", "surname", "lastname"},
		BaseConfidence: 0.9,
	},
	{
		Field: "fullName",
		Selectors: []string{
			`input[autocomplete="name"]`,
			`input[name="name"]`,
			`input[name="fullName"]`,
			`input[name="full_name"]`,
			`input[id="full-name"]`,
		},
		Keywords:       []string{"full name", "your name", "legal name"},
		BaseConfidence: 0.85,
	},
	{
		Field: "email",
		Selectors: []string{
			`input[type="email"]`,
			`input[autocomplete="email"]`,
			`input[name*="email"]`,
			`input[id*="email"]`,
			`input[data-automation-id*="email"]`,
		},
		Keywords:       []string{"email", "e-mail"},
		BaseConfidence: 0.95,
	},
	{
		Field: "phone",
		Selectors: []string{
			`input[type="tel"]`,
			`input[autocomplete="tel"]`,
			`input[name*="phone"]`,
			`input[name*="mobile"]`,
			`input[id*="phone"]`,
			`input[data-automation-id*="phone"]`,
		},
		Keywords:       []string{"phone", "mobile", "cell", "telephone"},
		BaseConfidence: 0.9,
	},
	{
		Field: "address",
		Selectors: []string{
			`input[autocomplete="street-address"]`,
			`input[autocomplete="address-line1"]`,
			`input[name*="address"]`,
			`input[id*="address"]`,
			`textarea[name*="address"]`,
		},
		Keywords:       []string{"street address", "address line", "home address", "current address"},
		BaseConfidence: 0.8,
	},
	{
		Field: "city",
		Selectors: []string{
			`input[autocomplete="address-level2"]`,
			`input[name*="city"]`,
			`input[id*="city"]`,
			`input[name*="town"]`,
		},
		Keywords:       []string{"city", "town", "locality"},
		BaseConfidence: 0.85,
	},
	{
		Field: "state",
		Selectors: []string{
			`input[autocomplete="address-level1"]`,
			`select[name*="state"]`,
			`input[name*="state"]`,
			`select[name*="province"]`,
			`input[id*="state"]`,
		},
		// known limitation: "state" can substring-match "statement"; the
		// confidence threshold is the only guard.
		Keywords:       []string{"state", "province", "region"},
		BaseConfidence: 0.85,
	},
	{
		Field: "zipCode",
		Selectors: []string{
			`input[autocomplete="postal-code"]`,
			`input[name*="zip"]`,
			`input[name*="postal"]`,
			`input[id*="zip"]`,
			`input[id*="postal"]`,
		},
		Keywords:       []string{"zip", "postal code", "postcode"},
		BaseConfidence: 0.85,
	},
	{
		Field: "country",
		Selectors: []string{
			`select[autocomplete="country"]`,
			`select[name*="country"]`,
			`input[name*="country"]`,
			`select[id*="country"]`,
		},
		Keywords:       []string{"country", "nation"},
		BaseConfidence: 0.8,
	},
	{
		Field: "linkedinUrl",
		Selectors: []string{
			`input[name*="linkedin"]`,
			`input[id*="linkedin"]`,
			`input[data-automation-id*="linkedin"]`,
		},
		Keywords:       []string{"linkedin"},
		BaseConfidence: 0.9,
	},
	{
		Field: "githubUrl",
		Selectors: []string{
			`input[name*="github"]`,
			`input[id*="github"]`,
		},
		Keywords:       []string{"github"},
		BaseConfidence: 0.9,
	},
	{
		Field: "portfolioUrl",
		Selectors: []string{
			`input[name*="portfolio"]`,
			`input[name*="website"]`,
			`input[id*="portfolio"]`,
			`input[type="url"][name*="site"]`,
		},
		Keywords:       []string{"portfolio", "personal website", "personal site", "website url"},
		BaseConfidence: 0.8,
	},
	{
		Field: "workAuthorization",
		Selectors: []string{
			`select[name*="authoriz"]`,
			`select[name*="work_auth"]`,
			`select[id*="authoriz"]`,
			`input[name*="authoriz"]`,
			`select[data-automation-id*="workAuthorization"]`,
		},
		Keywords:       []string{"work authorization", "authorized to work", "legally authorized", "right to work", "eligible to work"},
		BaseConfidence: 0.85,
	},
	{
		Field: "requiresSponsorship",
		Selectors: []string{
			`select[name*="sponsor"]`,
			`input[name*="sponsor"]`,
			`select[id*="sponsor"]`,
			`input[type="checkbox"][name*="visa"]`,
		},
		Keywords:       []string{"sponsorship", "require sponsorship", "visa sponsorship", "need sponsorship"},
		BaseConfidence: 0.85,
	},
	{
		Field: "salaryExpectation",
		Selectors: []string{
			`input[name*="salary"]`,
			`input[name*="compensation"]`,
			`input[id*="salary"]`,
			`input[data-automation-id*="salary"]`,
		},
		Keywords:       []string{"salary", "compensation", "expected pay", "desired pay", "pay expectation"},
		BaseConfidence: 0.8,
	},
	{
		Field: "availableStartDate",
		Selectors: []string{
			`input[type="date"][name*="start"]`,
			`input[name*="start_date"]`,
			`input[name*="startDate"]`,
			`input[name*="available"]`,
			`input[id*="start-date"]`,
		},
		Keywords:       []string{"start date", "available to start", "availability date", "earliest start"},
		BaseConfidence: 0.8,
	},
	{
		Field: "yearsExperience",
		Selectors: []string{
			`input[type="number"][name*="experience"]`,
			`input[name*="years"][name*="experience"]`,
			`select[name*="experience"]`,
			`input[id*="experience"]`,
		},
		Keywords:       []string{"years of experience", "total experience", "years experience"},
		BaseConfidence: 0.75,
	},
	{
		Field: "education",
		Selectors: []string{
			`select[name*="degree"]`,
			`input[name*="degree"]`,
			`select[name*="education"]`,
			`input[id*="degree"]`,
		},
		Keywords:       []string{"degree", "education level", "highest education", "qualification"},
		BaseConfidence: 0.75,
	},
	{
		Field: "coverLetter",
		Selectors: []string{
			`textarea[name*="cover"]`,
			`textarea[id*="cover"]`,
			`textarea[name*="letter"]`,
			`div[contenteditable="true"][aria-label*="cover"]`,
		},
		Keywords:       []string{"cover letter", "why do you want", "tell us about yourself"},
		BaseConfidence: 0.7,
	},
}

// All returns the full ordered registry. Callers must treat the returned
// slice as read-only.
func All() []model.FieldMapping {
	return registry
}

// Get returns the mapping for a semantic field name, or nil when the field
// is not registered.
func Get(field string) *model.FieldMapping {
	for i := range registry {
		if registry[i].Field == field {
			return &registry[i]
		}
	}
	return nil
}
