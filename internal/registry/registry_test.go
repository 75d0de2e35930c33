package registry_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/registry"
	"github.com/vennverse/formfill/internal/sitecontext"
	"github.com/vennverse/formfill/internal/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		t.Logf("pragmas: %v", err)
	}
	return db
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	db := openTestDB(t)
	t.Cleanup(func() { db.Close() })

	reg, err := registry.NewRegistry(db, logging.NewStdoutLogger("registry_test"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestRegistry_CreateAndResolveAccount(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	acct, err := reg.CreateAccount(ctx, "ada", "Ada Lovelace")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acct.Slug != "ada" {
		t.Fatalf("unexpected slug: %s", acct.Slug)
	}

	bySlug, err := reg.GetAccount(ctx, "ada")
	if err != nil {
		t.Fatalf("GetAccount by slug: %v", err)
	}
	byID, err := reg.GetAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetAccount by id: %v", err)
	}
	if bySlug.ID != acct.ID || byID.ID != acct.ID {
		t.Fatal("slug and id lookups must resolve the same account")
	}

	accounts, err := reg.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account got %d", len(accounts))
	}

	if _, err := reg.GetAccount(ctx, "nobody"); !errors.Is(err, registry.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRegistry_ProfileSnapshotRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	acct, err := reg.CreateAccount(ctx, "", "Ada")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if _, err := reg.GetProfileSnapshot(ctx, acct.ID); !errors.Is(err, registry.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}

	p := testutil.SampleProfile()
	if err := reg.SaveProfileSnapshot(ctx, acct.ID, p); err != nil {
		t.Fatalf("SaveProfileSnapshot: %v", err)
	}

	got, err := reg.GetProfileSnapshot(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetProfileSnapshot: %v", err)
	}
	if got.User.Email != p.User.Email {
		t.Fatalf("snapshot email = %s, want %s", got.User.Email, p.User.Email)
	}

	// Re-saving replaces rather than duplicates.
	p.Profile.City = "Cambridge"
	if err := reg.SaveProfileSnapshot(ctx, acct.ID, p); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	got, err = reg.GetProfileSnapshot(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetProfileSnapshot after re-save: %v", err)
	}
	if got.Profile.City != "Cambridge" {
		t.Fatalf("snapshot not replaced, city = %s", got.Profile.City)
	}
}

func TestRegistry_FillHistory(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	acct, err := reg.CreateAccount(ctx, "ada", "")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	rep := &model.FillReport{
		URL:       "https://boards.greenhouse.io/acme/jobs/1",
		Pass:      1,
		Filled:    5,
		Scanned:   9,
		Site:      sitecontext.Detect("boards.greenhouse.io", ""),
		Timestamp: time.Now().UTC(),
	}
	rec, err := reg.RecordFill(ctx, acct.ID, rep)
	if err != nil {
		t.Fatalf("RecordFill: %v", err)
	}
	if rec.Filled != 5 || rec.Site != "greenhouse" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	fills, err := reg.ListFills(ctx, "ada", 0)
	if err != nil {
		t.Fatalf("ListFills: %v", err)
	}
	if len(fills) != 1 || fills[0].ID != rec.ID {
		t.Fatalf("unexpected fills: %+v", fills)
	}

	if err := reg.UpdateAccountLastUsed(ctx, acct.ID, time.Now()); err != nil {
		t.Fatalf("UpdateAccountLastUsed: %v", err)
	}
	got, err := reg.GetAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.LastUsedAt == 0 {
		t.Fatal("expected last_used_at set")
	}
}
