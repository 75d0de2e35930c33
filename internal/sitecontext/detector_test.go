package sitecontext

import (
	"testing"

	"github.com/vennverse/formfill/internal/model"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hostname  string
		url       string
		wantName  string
		wantFW    model.Framework
	}{
		{"acme.wd5.myworkdayjobs.com", "https://acme.wd5.myworkdayjobs.com/en-US/careers/apply", "workday", model.FrameworkReact},
		{"boards.greenhouse.io", "https://boards.greenhouse.io/acme/jobs/123", "greenhouse", model.FrameworkRails},
		{"jobs.lever.co", "https://jobs.lever.co/acme/456/apply", "lever", model.FrameworkReact},
		{"www.linkedin.com", "https://www.linkedin.com/jobs/view/789", "linkedin", model.FrameworkReact},
		{"careers.icims.com", "https://careers.icims.com/jobs/1", "icims", model.FrameworkJQuery},
		{"careers.example.com", "https://careers.example.com/apply", "generic", model.FrameworkUnknown},
		// URL-only match: host is a vanity CNAME but the path embeds the platform
		{"jobs.acme.com", "https://jobs.acme.com/r?next=boards.greenhouse.io/acme", "greenhouse", model.FrameworkRails},
	}

	for _, tt := range tests {
		got := Detect(tt.hostname, tt.url)
		if got.Name != tt.wantName {
			t.Errorf("Detect(%q, %q).Name = %q, want %q", tt.hostname, tt.url, got.Name, tt.wantName)
		}
		if got.Framework != tt.wantFW {
			t.Errorf("Detect(%q, %q).Framework = %q, want %q", tt.hostname, tt.url, got.Framework, tt.wantFW)
		}
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Detect("Acme.WD5.MyWorkdayJobs.COM", "")
	if got.Name != "workday" {
		t.Fatalf("expected workday, got %q", got.Name)
	}
}

func TestDetectFirstMatchWins(t *testing.T) {
	t.Parallel()

	// A URL mentioning two platforms resolves to the earlier table row.
	got := Detect("acme.wd5.myworkdayjobs.com", "https://acme.wd5.myworkdayjobs.com/from=linkedin.com")
	if got.Name != "workday" {
		t.Fatalf("expected workday (first registered), got %q", got.Name)
	}
}

func TestDetectGenericFallbackIsStable(t *testing.T) {
	t.Parallel()

	got := Detect("", "")
	if !got.IsGeneric() {
		t.Fatalf("empty input should be generic, got %+v", got)
	}
	if got.Framework != model.FrameworkUnknown {
		t.Fatalf("generic framework should be unknown, got %q", got.Framework)
	}
}
