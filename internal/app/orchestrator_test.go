package app_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vennverse/formfill/internal/app"
	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/registry"
	"github.com/vennverse/formfill/internal/session"
	"github.com/vennverse/formfill/internal/testutil"
)

const applyForm = `<html><body><form>
	<input type="text" name="first_name" placeholder="First Name">
	<input type="email" name="email">
	<input type="tel" name="phone">
</form></body></html>`

type fixture struct {
	orch    *app.Orchestrator
	reg     *registry.Registry
	backend *httptest.Server
}

func newFixture(t *testing.T, backendStatus int) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	logger := interfaces.NewTestLogger(false)
	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if backendStatus != http.StatusOK {
			http.Error(w, "down", backendStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testutil.SampleProfileJSON))
	}))
	t.Cleanup(backend.Close)

	cfg := app.DefaultConfig()
	cfg.LoaderCfg.BaseURL = backend.URL
	cfg.JobTimeout = 1

	loader := profile.NewLoader(cfg.LoaderCfg, backend.Client(), logger)
	orch := app.NewOrchestrator(cfg, reg, loader, logger)
	orch.SetSessionFactory(func(_ session.Config, _ interfaces.Logger) (interfaces.DOMSession, error) {
		return testutil.NewFakeSession(applyForm), nil
	})

	return &fixture{orch: orch, reg: reg, backend: backend}
}

func TestFillOnceRecordsHistory(t *testing.T) {
	fx := newFixture(t, http.StatusOK)
	ctx := context.Background()

	acct, err := fx.orch.CreateAccount(ctx, "ada", "Ada Lovelace")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	rep, err := fx.orch.FillOnce(ctx, "ada", "https://boards.greenhouse.io/acme/jobs/1")
	if err != nil {
		t.Fatalf("FillOnce: %v", err)
	}
	if rep.Filled != 3 {
		t.Errorf("filled = %d, want 3", rep.Filled)
	}
	if rep.Site.Name != "greenhouse" {
		t.Errorf("site = %s, want greenhouse", rep.Site.Name)
	}

	fills, err := fx.orch.ListFills(ctx, "ada", 0)
	if err != nil {
		t.Fatalf("ListFills: %v", err)
	}
	if len(fills) != 1 || fills[0].Filled != 3 {
		t.Fatalf("unexpected fills: %+v", fills)
	}

	got, err := fx.orch.GetAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.LastUsedAt == 0 {
		t.Error("expected last_used_at stamped after fill")
	}
}

func TestFillOnceCanonicalizesTarget(t *testing.T) {
	fx := newFixture(t, http.StatusOK)
	ctx := context.Background()

	if _, err := fx.orch.CreateAccount(ctx, "ada", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// Schemeless, mixed case, trailing slash: the canonical form is what the
	// session navigates to and what the fill record keys on.
	rep, err := fx.orch.FillOnce(ctx, "ada", "Boards.Greenhouse.IO/acme/jobs/42/")
	if err != nil {
		t.Fatalf("FillOnce: %v", err)
	}
	if rep.Site.Name != "greenhouse" {
		t.Errorf("site = %s, want greenhouse", rep.Site.Name)
	}
	if rep.URL != "https://boards.greenhouse.io/acme/jobs/42" {
		t.Errorf("report url = %q, want canonical form", rep.URL)
	}

	fills, err := fx.orch.ListFills(ctx, "ada", 0)
	if err != nil {
		t.Fatalf("ListFills: %v", err)
	}
	if len(fills) != 1 || fills[0].URL != "https://boards.greenhouse.io/acme/jobs/42" {
		t.Fatalf("unexpected fills: %+v", fills)
	}
}

func TestFillOnceRejectsUnparsableTarget(t *testing.T) {
	fx := newFixture(t, http.StatusOK)
	ctx := context.Background()

	if _, err := fx.orch.CreateAccount(ctx, "ada", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if _, err := fx.orch.FillOnce(ctx, "ada", "   "); err == nil {
		t.Fatal("expected error for empty target url")
	}
}

func TestFillOnceUnknownAccount(t *testing.T) {
	fx := newFixture(t, http.StatusOK)

	_, err := fx.orch.FillOnce(context.Background(), "nobody", "https://example.com/apply")
	if !errors.Is(err, registry.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestProfileFallsBackToCachedSnapshot(t *testing.T) {
	fx := newFixture(t, http.StatusInternalServerError)
	ctx := context.Background()

	acct, err := fx.orch.CreateAccount(ctx, "ada", "")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// No cache and no backend: the profile gate holds, nothing is filled.
	if _, err := fx.orch.FillOnce(ctx, "ada", "https://example.com/apply"); !errors.Is(err, profile.ErrProfileUnavailable) {
		t.Fatalf("err = %v, want ErrProfileUnavailable", err)
	}

	// With a cached snapshot the fill proceeds despite the dead backend.
	if err := fx.reg.SaveProfileSnapshot(ctx, acct.ID, testutil.SampleProfile()); err != nil {
		t.Fatalf("SaveProfileSnapshot: %v", err)
	}
	rep, err := fx.orch.FillOnce(ctx, "ada", "https://example.com/apply")
	if err != nil {
		t.Fatalf("FillOnce with cache: %v", err)
	}
	if rep.Filled == 0 {
		t.Error("expected fields filled from cached profile")
	}
}

func TestStartFillJobLifecycle(t *testing.T) {
	fx := newFixture(t, http.StatusOK)
	ctx := context.Background()

	if _, err := fx.orch.CreateAccount(ctx, "ada", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job, err := fx.orch.StartFillJob(ctx, "ada", "https://jobs.lever.co/acme/1")
	if err != nil {
		t.Fatalf("StartFillJob: %v", err)
	}

	var statuses []app.JobStatus
	reports := 0
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-job.Events:
			if !ok {
				goto drained
			}
			switch ev.Type {
			case app.JobEventStatus:
				statuses = append(statuses, ev.Status)
			case app.JobEventReport:
				reports++
				if ev.Report == nil {
					t.Error("report event missing report")
				}
			}
		case <-deadline:
			t.Fatal("job did not finish within deadline")
		}
	}
drained:

	final := fx.orch.GetJob(job.ID)
	if final.Status != app.JobDone {
		t.Fatalf("final status = %s, want done (error: %s)", final.Status, final.Error)
	}
	if reports == 0 {
		t.Error("expected at least one pass report")
	}
	if len(final.Reports) == 0 {
		t.Error("job should retain its reports")
	}
	if final.EndedAt.IsZero() {
		t.Error("ended_at not stamped")
	}

	fills, err := fx.orch.ListFills(ctx, "ada", 0)
	if err != nil {
		t.Fatalf("ListFills: %v", err)
	}
	if len(fills) == 0 {
		t.Error("job passes should be persisted to fill history")
	}
}

func TestCancelFillJob(t *testing.T) {
	fx := newFixture(t, http.StatusOK)
	ctx := context.Background()

	if _, err := fx.orch.CreateAccount(ctx, "ada", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job, err := fx.orch.StartFillJob(ctx, "ada", "https://example.com/apply")
	if err != nil {
		t.Fatalf("StartFillJob: %v", err)
	}

	// Wait for the initial pass, then cancel.
	deadline := time.After(5 * time.Second)
	for {
		var ev app.JobEvent
		var ok bool
		select {
		case ev, ok = <-job.Events:
		case <-deadline:
			t.Fatal("no report before deadline")
		}
		if !ok {
			t.Fatal("events closed before first report")
		}
		if ev.Type == app.JobEventReport {
			break
		}
	}
	fx.orch.CancelJob(job.ID)

	for range job.Events {
	}
	// The 1s job timeout may beat the cancel; either terminal state is fine,
	// but the job must have ended.
	final := fx.orch.GetJob(job.ID)
	if final.Status != app.JobCanceled && final.Status != app.JobDone {
		t.Fatalf("final status = %s, want canceled or done", final.Status)
	}

	if got := len(fx.orch.ListJobs()); got != 1 {
		t.Fatalf("ListJobs = %d, want 1", got)
	}
}
