package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/vennverse/formfill/internal/app"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/registry"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for formfill.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	registryDB   *sql.DB
}

// NewServer creates a new Server with its own Orchestrator.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	db, err := sql.Open("sqlite", cfg.AppConfig.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}

	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	loader := profile.NewLoader(cfg.AppConfig.LoaderCfg, nil, logger)
	orch := app.NewOrchestrator(cfg.AppConfig, reg, loader, logger)

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		registryDB: db,
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/accounts", s.optionsHandler("GET, POST"))
	r.Options("/accounts/{account}", s.optionsHandler("GET"))
	r.Options("/accounts/{account}/fills", s.optionsHandler("GET"))
	r.Options("/accounts/{account}/profile", s.optionsHandler("GET, PUT"))
	r.Options("/accounts/{account}/fill", s.optionsHandler("POST"))
	r.Options("/accounts/{account}/jobs/fill", s.optionsHandler("POST"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/accounts/{account}/fill", s.optionsHandler("GET"))

	// Accounts
	r.Post("/accounts", s.handleCreateAccount)
	r.Get("/accounts", s.handleListAccounts)
	r.Get("/accounts/{account}", s.handleGetAccount)
	r.Get("/accounts/{account}/fills", s.handleListFills)
	r.Put("/accounts/{account}/profile", s.handleUpsertProfile)
	r.Get("/accounts/{account}/profile", s.handleGetProfile)

	// Filling
	r.Post("/accounts/{account}/fill", s.handleFillOnce)
	r.Post("/accounts/{account}/jobs/fill", s.handleStartFillJob)

	// Jobs over REST
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// WebSocket for job progress
	r.Get("/ws/accounts/{account}/fill", s.handleFillWS)

	// Interactive API docs
	r.Get("/swagger/doc.json", s.handleSwaggerSpec)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator and underlying resources.
func (s *Server) Close() {
	if s.orchestrator != nil {
		_ = s.orchestrator.Shutdown(context.Background())
	}
	if s.registryDB != nil {
		s.registryDB.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrAccountNotFound),
		errors.Is(err, registry.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrProfileUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- HTTP handlers ---

// Accounts

// handleCreateAccount creates an account.
//
// @Summary Create account
// @Accept json
// @Param account body CreateAccountRequest true "Account to create"
// @Success 201 {object} registry.Account
// @Failure 400 {object} ErrorResponse
// @Router /accounts [post]
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a, err := s.orchestrator.CreateAccount(r.Context(), body.Slug, body.Name)
	if err != nil {
		s.logger.Warn("creating account", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("created account", logging.Field{Key: "slug", Value: a.Slug})
	writeJSON(w, http.StatusCreated, a)
}

// handleListAccounts lists all accounts.
//
// @Summary List accounts
// @Success 200 {array} registry.Account
// @Router /accounts [get]
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	as, err := s.orchestrator.ListAccounts(r.Context())
	if err != nil {
		s.logger.Warn("listing accounts", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, as)
}

// handleGetAccount resolves one account by slug or id.
//
// @Summary Get account
// @Param account path string true "Account slug or id"
// @Success 200 {object} registry.Account
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account} [get]
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	a, err := s.orchestrator.GetAccount(r.Context(), account)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleListFills returns the fill history for an account.
//
// @Summary List fill history
// @Param account path string true "Account slug or id"
// @Param limit query int false "Max records"
// @Success 200 {array} registry.FillRecord
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account}/fills [get]
func (s *Server) handleListFills(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	fills, err := s.orchestrator.ListFills(r.Context(), account, limit)
	if err != nil {
		s.logger.Warn("listing fills", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fills)
}

// handleUpsertProfile stores a profile snapshot for an account, bypassing
// the backend loader.
//
// @Summary Upsert profile snapshot
// @Accept json
// @Param account path string true "Account slug or id"
// @Param profile body model.UserProfile true "Profile payload"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account}/profile [put]
func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var p model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.orchestrator.SaveProfile(r.Context(), account, &p); err != nil {
		s.logger.Warn("saving profile", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("stored profile snapshot", logging.Field{Key: "account", Value: account})
	w.WriteHeader(http.StatusNoContent)
}

// handleGetProfile returns the cached profile snapshot for an account.
//
// @Summary Get profile snapshot
// @Param account path string true "Account slug or id"
// @Success 200 {object} model.UserProfile
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account}/profile [get]
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	p, err := s.orchestrator.GetProfile(r.Context(), account)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Filling

// handleFillOnce runs a single synchronous fill pass.
//
// @Summary Fill a form once
// @Accept json
// @Param account path string true "Account slug or id"
// @Param request body FillRequest true "Target form"
// @Success 200 {object} model.FillReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account}/fill [post]
func (s *Server) handleFillOnce(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var body FillRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TargetURL == "" {
		writeError(w, http.StatusBadRequest, "target_url is required")
		return
	}

	rep, err := s.orchestrator.FillOnce(r.Context(), account, body.TargetURL)
	if err != nil {
		s.logger.Warn("fill once", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("filled form",
		logging.Field{Key: "account", Value: account},
		logging.Field{Key: "filled", Value: rep.Filled})
	writeJSON(w, http.StatusOK, rep)
}

// handleStartFillJob starts an asynchronous watch-mode fill job.
//
// @Summary Start fill job
// @Accept json
// @Param account path string true "Account slug or id"
// @Param request body FillRequest true "Target form"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{account}/jobs/fill [post]
func (s *Server) handleStartFillJob(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var body FillRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TargetURL == "" {
		writeError(w, http.StatusBadRequest, "target_url is required")
		return
	}

	// Jobs outlive the request; detach from the request context.
	job, err := s.orchestrator.StartFillJob(context.WithoutCancel(r.Context()), account, body.TargetURL)
	if err != nil {
		s.logger.Warn("starting fill job", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("started fill job",
		logging.Field{Key: "job_id", Value: job.ID},
		logging.Field{Key: "account", Value: account})
	writeJSON(w, http.StatusAccepted, job)
}

// Jobs (REST)

// handleGetJob returns one job.
//
// @Summary Get job
// @Param jobID path string true "Job id"
// @Success 200 {object} app.Job
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleCancelJob cancels a job.
//
// @Summary Cancel job
// @Param jobID path string true "Job id"
// @Success 204
// @Router /jobs/{jobID} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.orchestrator.CancelJob(jobID)
	s.logger.Info("canceled job", logging.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListJobs lists all jobs.
//
// @Summary List jobs
// @Success 200 {array} app.Job
// @Router /jobs [get]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.orchestrator.ListJobs()
	writeJSON(w, http.StatusOK, jobs)
}

// WebSockets

// handleFillWS starts a fill job and streams its events over a websocket.
// The job is canceled when the client disconnects.
func (s *Server) handleFillWS(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	target := r.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing target query parameter")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.orchestrator.StartFillJob(r.Context(), account, target)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		s.logger.Warn("starting fill job", logging.Field{Key: "error", Value: err.Error()})
		return
	}

	s.logger.Info("started fill job over ws", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
}
