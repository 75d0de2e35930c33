package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vennverse/formfill/internal/app"
	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/server"
	"github.com/vennverse/formfill/internal/session"
	"github.com/vennverse/formfill/internal/testutil"
)

const testForm = `<html><body><form>
	<input type="text" name="first_name">
	<input type="email" name="email">
</form></body></html>`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testutil.SampleProfileJSON))
	}))
	t.Cleanup(backend.Close)

	appCfg := app.DefaultConfig()
	appCfg.DBPath = filepath.Join(t.TempDir(), "formfill.db")
	appCfg.LoaderCfg.BaseURL = backend.URL
	appCfg.JobTimeout = 1

	cfg := server.Config{
		ListenAddr: ":0",
		AppConfig:  appCfg,
		Logger:     &testutil.DummyLogger{},
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.Orchestrator().SetSessionFactory(func(_ session.Config, _ interfaces.Logger) (interfaces.DOMSession, error) {
		return testutil.NewFakeSession(testForm), nil
	})
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

// ─── CORS ──────────────────────────────────────────────────────────────

func TestServer_CORS_HeaderPresent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/accounts", "")

	origin := rec.Header().Get("Access-Control-Allow-Origin")
	if origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

// ─── Accounts ──────────────────────────────────────────────────────────

func TestServer_CreateAccount(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/accounts", `{"slug":"ada","name":"Ada Lovelace"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var a map[string]any
	decodeJSON(t, rec, &a)
	if a["slug"] != "ada" {
		t.Errorf("expected slug 'ada', got %v", a["slug"])
	}
}

func TestServer_CreateAccount_InvalidJSON(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/accounts", `{invalid}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_ListAccounts_AfterCreate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada","name":"Ada"}`)

	rec := doJSON(t, s, "GET", "/accounts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var accounts []map[string]any
	decodeJSON(t, rec, &accounts)
	if len(accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(accounts))
	}
}

func TestServer_GetAccount_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/accounts/nobody", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ─── Profile snapshots ─────────────────────────────────────────────────

func TestServer_ProfileUpsertAndGet(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada"}`)

	rec := doJSON(t, s, "PUT", "/accounts/ada/profile", testutil.SampleProfileJSON)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, "GET", "/accounts/ada/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p map[string]any
	decodeJSON(t, rec, &p)
	if p["user"] == nil {
		t.Error("expected user section in stored profile")
	}
}

func TestServer_GetProfile_NoSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada"}`)

	rec := doJSON(t, s, "GET", "/accounts/ada/profile", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ─── Filling ───────────────────────────────────────────────────────────

func TestServer_FillOnce(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada"}`)

	rec := doJSON(t, s, "POST", "/accounts/ada/fill", `{"target_url":"https://boards.greenhouse.io/acme/jobs/1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rep map[string]any
	decodeJSON(t, rec, &rep)
	if rep["filled"].(float64) != 2 {
		t.Errorf("expected 2 filled, got %v", rep["filled"])
	}

	// History reflects the pass.
	rec = doJSON(t, s, "GET", "/accounts/ada/fills", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fills []map[string]any
	decodeJSON(t, rec, &fills)
	if len(fills) != 1 {
		t.Errorf("expected 1 fill record, got %d", len(fills))
	}
}

func TestServer_FillOnce_MissingTarget(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada"}`)

	rec := doJSON(t, s, "POST", "/accounts/ada/fill", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_FillOnce_UnknownAccount(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/accounts/nobody/fill", `{"target_url":"https://example.com/apply"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ─── Jobs ──────────────────────────────────────────────────────────────

func TestServer_StartFillJob(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/accounts", `{"slug":"ada"}`)

	rec := doJSON(t, s, "POST", "/accounts/ada/jobs/fill", `{"target_url":"https://example.com/apply"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var job map[string]any
	decodeJSON(t, rec, &job)
	jobID, _ := job["id"].(string)
	if jobID == "" {
		t.Fatal("job id missing")
	}

	rec = doJSON(t, s, "GET", "/jobs/"+jobID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for job, got %d", rec.Code)
	}

	rec = doJSON(t, s, "DELETE", "/jobs/"+jobID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for cancel, got %d", rec.Code)
	}
}

func TestServer_ListJobs_Empty(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServer_GetJob_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/jobs/nonexistent", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ─── Swagger ───────────────────────────────────────────────────────────

func TestServer_SwaggerSpecServed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var spec map[string]any
	decodeJSON(t, rec, &spec)
	if spec["swagger"] != "2.0" {
		t.Errorf("expected swagger 2.0 spec, got %v", spec["swagger"])
	}
	paths, _ := spec["paths"].(map[string]any)
	if _, ok := paths["/accounts/{account}/fill"]; !ok {
		t.Error("spec missing the fill endpoint")
	}
}

// ─── Options preflight ─────────────────────────────────────────────────

func TestServer_OptionsPreflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "OPTIONS", "/accounts", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for OPTIONS, got %d", rec.Code)
	}
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	if methods == "" {
		t.Error("expected Allow-Methods header on OPTIONS")
	}
}
