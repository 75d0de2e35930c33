// Package sitecontext classifies the current page host into a known
// recruiting platform. Different platforms use different DOM and attribute
// conventions (data-automation-id on Workday, React-controlled inputs on
// LinkedIn and Lever), so classification and injection both consult the
// detected context to bias heuristics and event dispatch.
package sitecontext

import (
	"strings"

	"github.com/vennverse/formfill/internal/model"
)

// pattern is one row of the detection table. A row matches when any of its
// patterns is a case-insensitive substring of the hostname OR the url.
type pattern struct {
	patterns  []string
	name      string
	siteType  string
	framework model.Framework
}

// patternTable is ordered: first match wins. More specific ATS hosts come
// before the broad job boards.
var patternTable = []pattern{
	{[]string{"myworkdayjobs.com", "workday.com", "wd1.myworkday", "wd3.myworkday", "wd5.myworkday"}, "workday", "ats", model.FrameworkReact},
	{[]string{"greenhouse.io", "boards.greenhouse"}, "greenhouse", "ats", model.FrameworkRails},
	{[]string{"lever.co", "jobs.lever"}, "lever", "ats", model.FrameworkReact},
	{[]string{"icims.com"}, "icims", "ats", model.FrameworkJQuery},
	{[]string{"taleo.net", "taleo.com"}, "taleo", "ats", model.FrameworkLegacy},
	{[]string{"smartrecruiters.com"}, "smartrecruiters", "ats", model.FrameworkAngular},
	{[]string{"jobvite.com"}, "jobvite", "ats", model.FrameworkJQuery},
	{[]string{"bamboohr.com"}, "bamboohr", "ats", model.FrameworkReact},
	{[]string{"ashbyhq.com"}, "ashby", "ats", model.FrameworkReact},
	{[]string{"linkedin.com"}, "linkedin", "job-board", model.FrameworkReact},
	{[]string{"indeed.com"}, "indeed", "job-board", model.FrameworkReact},
	{[]string{"ziprecruiter.com"}, "ziprecruiter", "job-board", model.FrameworkReact},
	{[]string{"glassdoor.com"}, "glassdoor", "job-board", model.FrameworkReact},
}

// Generic is the fallback context when no platform pattern matches.
var Generic = model.SiteContext{Name: "generic", Type: "generic", Framework: model.FrameworkUnknown}

// Detect classifies hostname/url into a SiteContext. Pure function, no
// failure mode: unknown hosts get the generic fallback. Computed once per
// page load; the result is immutable afterwards.
func Detect(hostname, url string) model.SiteContext {
	h := strings.ToLower(hostname)
	u := strings.ToLower(url)

	for _, row := range patternTable {
		for _, p := range row.patterns {
			if p == "" {
				continue
			}
			if strings.Contains(h, p) || strings.Contains(u, p) {
				return model.SiteContext{Name: row.name, Type: row.siteType, Framework: row.framework}
			}
		}
	}
	return Generic
}
