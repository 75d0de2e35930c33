package model

// Framework is the UI framework a recruiting platform is known (or assumed)
// to run. Downstream injection uses this to decide which extra event
// dispatches are worth firing; classification uses it for confidence boosts.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkAngular Framework = "angular"
	FrameworkRails   Framework = "rails"
	FrameworkJQuery  Framework = "jquery"
	FrameworkLegacy  Framework = "legacy"
	FrameworkUnknown Framework = "unknown"
)

// SiteContext is the detected recruiting-platform identity for the current
// page. Computed once per page load from hostname/url substring matches;
// immutable afterwards.
//
// Type is a coarse platform family ("ats", "job-board", "generic") and Name
// is the concrete platform ("workday", "greenhouse", ...). The generic
// fallback is {Name: "generic", Type: "generic", Framework: unknown}.
type SiteContext struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Framework Framework `json:"framework"`
}

// IsGeneric reports whether no known platform pattern matched.
func (s SiteContext) IsGeneric() bool {
	return s.Name == "generic"
}
