package model

// UserProfile is the read-only snapshot of a candidate's data, loaded once
// per fill session from the platform backend (getUserProfile contract).
// The shape is fixed; missing nested paths are treated as absent values,
// never as errors.
type UserProfile struct {
	User           UserIdentity     `json:"user"`
	Profile        ProfileDetails   `json:"profile"`
	WorkExperience []WorkExperience `json:"workExperience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
}

// UserIdentity is the account-level identity block.
type UserIdentity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ProfileDetails carries contact, address, links, authorization and
// compensation data.
type ProfileDetails struct {
	Phone              string `json:"phone,omitempty"`
	CurrentAddress     string `json:"currentAddress,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	ZipCode            string `json:"zipCode,omitempty"`
	Country            string `json:"country,omitempty"`
	LinkedinURL        string `json:"linkedinUrl,omitempty"`
	GithubURL          string `json:"githubUrl,omitempty"`
	PortfolioURL       string `json:"portfolioUrl,omitempty"`
	WorkAuthorization  string `json:"workAuthorization,omitempty"`
	RequiresSponsorship *bool `json:"requiresSponsorship,omitempty"`
	ExpectedSalary     string `json:"expectedSalary,omitempty"`
	AvailableStartDate string `json:"availableStartDate,omitempty"`
}

// WorkExperience is one employment interval. Dates are "2006-01" or
// "2006-01-02" strings from the backend; EndDate empty means current role.
type WorkExperience struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// Education is one credential entry.
type Education struct {
	Degree string `json:"degree"`
}
