// Package registry persists accounts, their cached profile snapshots, and
// the history of completed fill passes in SQLite.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrSnapshotNotFound = errors.New("profile snapshot not found")
)

// Account is one job-seeker account the engine can fill on behalf of.
type Account struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created_at"`
	LastUsedAt int64  `json:"last_used_at,omitempty"`
	Meta       string `json:"meta,omitempty"`
}

// FillRecord is one persisted fill pass.
type FillRecord struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	URL       string `json:"url"`
	Site      string `json:"site"`
	Pass      int    `json:"pass"`
	Filled    int    `json:"filled"`
	Scanned   int    `json:"scanned"`
	Report    string `json:"report,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Registry manages accounts and fill history in SQLite.
type Registry struct {
	db     *sql.DB
	logger logging.Logger
}

// NewRegistry returns a Registry and runs migrations from schema.sql.
func NewRegistry(db *sql.DB, logger logging.Logger) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Registry{db: db, logger: logger}, nil
}

// normalizeSlug makes a slug safe and simple.
func normalizeSlug(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		out = uuid.New().String()[:8]
	}
	return out
}

// CreateAccount inserts a new account.
func (r *Registry) CreateAccount(ctx context.Context, slug, name string) (*Account, error) {
	if name == "" && slug != "" {
		name = slug
	}
	if slug == "" && name != "" {
		slug = normalizeSlug(name)
	} else {
		slug = normalizeSlug(slug)
	}
	if name == "" {
		name = slug
	}

	id := uuid.New().String()
	now := time.Now().Unix()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, slug, name, created_at, meta)
         VALUES (?, ?, ?, ?, ?)`,
		id, slug, name, now, "{}",
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &Account{
		ID:        id,
		Slug:      slug,
		Name:      name,
		CreatedAt: now,
		Meta:      "{}",
	}, nil
}

// GetAccount resolves an account either by slug or by id.
func (r *Registry) GetAccount(ctx context.Context, identifier string) (*Account, error) {
	slug := normalizeSlug(identifier)
	a, err := r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, slug, name, created_at, last_used_at, meta
         FROM accounts WHERE slug = ? LIMIT 1`, slug))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	a, err = r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, slug, name, created_at, last_used_at, meta
         FROM accounts WHERE id = ? LIMIT 1`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Registry) scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var lastUsed sql.NullInt64
	var meta sql.NullString
	if err := row.Scan(&a.ID, &a.Slug, &a.Name, &a.CreatedAt, &lastUsed, &meta); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		a.LastUsedAt = lastUsed.Int64
	}
	a.Meta = meta.String
	return &a, nil
}

// ListAccounts returns all accounts, newest first.
func (r *Registry) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, name, created_at, last_used_at, meta
         FROM accounts
         ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateAccountLastUsed stamps last_used_at for an account id.
func (r *Registry) UpdateAccountLastUsed(ctx context.Context, accountID string, ts time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_used_at = ? WHERE id = ?`,
		ts.Unix(), accountID,
	)
	return err
}

// SaveProfileSnapshot caches the backend profile payload for an account,
// replacing any previous snapshot.
func (r *Registry) SaveProfileSnapshot(ctx context.Context, accountID string, p *model.UserProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profile_snapshots (account_id, payload, fetched_at)
         VALUES (?, ?, ?)
         ON CONFLICT(account_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		accountID, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetProfileSnapshot returns the cached profile for an account.
func (r *Registry) GetProfileSnapshot(ctx context.Context, accountID string) (*model.UserProfile, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM profile_snapshots WHERE account_id = ? LIMIT 1`,
		accountID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	var p model.UserProfile
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &p, nil
}

// RecordFill persists one completed fill pass for later inspection.
func (r *Registry) RecordFill(ctx context.Context, accountID string, rep *model.FillReport) (*FillRecord, error) {
	if rep == nil {
		return nil, fmt.Errorf("report is nil")
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	rec := &FillRecord{
		ID:        uuid.New().String(),
		AccountID: accountID,
		URL:       rep.URL,
		Site:      rep.Site.Name,
		Pass:      rep.Pass,
		Filled:    rep.Filled,
		Scanned:   rep.Scanned,
		Report:    string(payload),
		CreatedAt: time.Now().Unix(),
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO fill_history
             (id, account_id, url, site, pass, filled, scanned, report, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AccountID, rec.URL, rec.Site, rec.Pass, rec.Filled, rec.Scanned, rec.Report, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert fill record: %w", err)
	}
	return rec, nil
}

// ListFills returns recent fill records for an account (slug or id), newest
// first. limit <= 0 means a default of 50.
func (r *Registry) ListFills(ctx context.Context, accountIdentifier string, limit int) ([]FillRecord, error) {
	a, err := r.GetAccount(ctx, accountIdentifier)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, url, site, pass, filled, scanned, report, created_at
         FROM fill_history
         WHERE account_id = ?
         ORDER BY created_at DESC
         LIMIT ?`,
		a.ID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.URL, &rec.Site, &rec.Pass, &rec.Filled, &rec.Scanned, &rec.Report, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
