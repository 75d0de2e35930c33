package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/registry"
	"github.com/vennverse/formfill/internal/utils"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventReport JobEventType = "report"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For completed passes
	Report *model.FillReport `json:"report,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Job is one fill run against a target URL on behalf of an account.
type Job struct {
	ID        string        `json:"id"`
	Account   string        `json:"account"`
	TargetURL string        `json:"target_url"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	// Reports collects every pass report the job produced.
	Reports []*model.FillReport `json:"reports,omitempty"`
}

// Orchestrator owns fill jobs: it resolves profiles, builds per-job fill
// components, runs them, and records outcomes.
type Orchestrator struct {
	cfg      *Config
	registry *registry.Registry
	loader   *profile.Loader
	logger   logging.Logger

	// newSession is swappable for tests.
	newSession SessionFactory

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator ties together config, registry, profile loader and logger.
func NewOrchestrator(cfg *Config, reg *registry.Registry, loader *profile.Loader, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:        cfg,
		registry:   reg,
		loader:     loader,
		logger:     logger,
		jobs:       make(map[string]*Job),
		jobCancels: make(map[string]context.CancelFunc),
	}
}

// SetSessionFactory overrides how browser sessions are constructed.
func (o *Orchestrator) SetSessionFactory(f SessionFactory) { o.newSession = f }

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setJob(job *Job) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	o.jobs[job.ID] = job
}

func (o *Orchestrator) setStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
	}
	o.jobsMu.Unlock()
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: status,
		Error:  errMsg,
	})
}

func (o *Orchestrator) setCancel(jobID string, cancel context.CancelFunc) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	o.jobCancels[jobID] = cancel
}

func (o *Orchestrator) deleteCancel(jobID string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	delete(o.jobCancels, jobID)
}

func (o *Orchestrator) getCancel(jobID string) context.CancelFunc {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobCancels[jobID]
}

// ProfileFor resolves the profile used for an account: the backend first,
// falling back to the last cached snapshot when the backend is down. A fresh
// backend profile refreshes the cache.
func (o *Orchestrator) ProfileFor(ctx context.Context, account *registry.Account) (*model.UserProfile, error) {
	p, err := o.loader.Load(ctx, account.ID)
	if err == nil {
		if saveErr := o.registry.SaveProfileSnapshot(ctx, account.ID, p); saveErr != nil {
			o.logger.Warn("failed to cache profile snapshot",
				logging.Field{Key: "account", Value: account.Slug},
				logging.Field{Key: "error", Value: saveErr.Error()})
		}
		return p, nil
	}

	o.logger.Warn("backend profile unavailable, trying cached snapshot",
		logging.Field{Key: "account", Value: account.Slug},
		logging.Field{Key: "error", Value: err.Error()})

	cached, cacheErr := o.registry.GetProfileSnapshot(ctx, account.ID)
	if cacheErr != nil {
		return nil, err
	}
	return cached, nil
}

// StartFillJob starts an asynchronous fill run that keeps the page filled
// (reacting to revealed steps) until the job timeout elapses or the job is
// canceled.
func (o *Orchestrator) StartFillJob(ctx context.Context, accountIdentifier, targetURL string) (*Job, error) {
	account, err := o.registry.GetAccount(ctx, accountIdentifier)
	if err != nil {
		return nil, err
	}
	targetURL, err = utils.Canonicalize(targetURL, o.cfg.URLCfg)
	if err != nil {
		return nil, fmt.Errorf("canonicalize target: %w", err)
	}

	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		Account:   account.Slug,
		TargetURL: targetURL,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}
	o.setJob(job)

	var (
		jobCtx context.Context
		cancel context.CancelFunc
	)
	if o.cfg.JobTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, time.Duration(o.cfg.JobTimeout)*time.Second)
	} else {
		jobCtx, cancel = context.WithCancel(ctx)
	}
	o.setCancel(jobID, cancel)

	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	go func() {
		defer func() {
			o.jobsMu.Lock()
			j := o.jobs[jobID]
			if j != nil {
				j.EndedAt = time.Now().UTC()
			}
			o.jobsMu.Unlock()
			o.deleteCancel(jobID)
			cancel()

			// Close events channel so websocket loops terminate cleanly.
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		o.setStatus(jobID, JobRunning, "")
		err := o.runFill(jobCtx, account, targetURL, jobID)

		switch {
		case err == nil, errors.Is(err, context.DeadlineExceeded):
			o.setStatus(jobID, JobDone, "")
		case errors.Is(err, context.Canceled):
			o.setStatus(jobID, JobCanceled, err.Error())
		default:
			o.setStatus(jobID, JobFailed, err.Error())
		}
	}()

	return job, nil
}

// runFill is the body of a watch-mode job: resolve profile, open the page,
// and keep filling until the context ends.
func (o *Orchestrator) runFill(ctx context.Context, account *registry.Account, targetURL, jobID string) error {
	p, err := o.ProfileFor(ctx, account)
	if err != nil {
		return err
	}

	comps, err := NewFillComponents(o.cfg, targetURL, o.newSession, o.logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	if err := comps.Session.Navigate(ctx, targetURL); err != nil {
		return err
	}

	if err := o.registry.UpdateAccountLastUsed(ctx, account.ID, time.Now()); err != nil {
		o.logger.Warn("failed to stamp account",
			logging.Field{Key: "account", Value: account.Slug},
			logging.Field{Key: "error", Value: err.Error()})
	}

	onReport := func(rep *model.FillReport) {
		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Reports = append(j.Reports, rep)
		}
		o.jobsMu.Unlock()
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventReport, Report: rep})

		if _, err := o.registry.RecordFill(context.Background(), account.ID, rep); err != nil {
			o.logger.Warn("failed to persist fill record",
				logging.Field{Key: "error", Value: err.Error()})
		}
	}

	return comps.Filler.Run(ctx, comps.Session, p, comps.Site, onReport)
}

// FillOnce runs a single synchronous pass against the target and returns its
// report. Used by the one-shot CLI mode and the blocking API endpoint.
func (o *Orchestrator) FillOnce(ctx context.Context, accountIdentifier, targetURL string) (*model.FillReport, error) {
	account, err := o.registry.GetAccount(ctx, accountIdentifier)
	if err != nil {
		return nil, err
	}
	targetURL, err = utils.Canonicalize(targetURL, o.cfg.URLCfg)
	if err != nil {
		return nil, fmt.Errorf("canonicalize target: %w", err)
	}
	p, err := o.ProfileFor(ctx, account)
	if err != nil {
		return nil, err
	}

	comps, err := NewFillComponents(o.cfg, targetURL, o.newSession, o.logger)
	if err != nil {
		return nil, err
	}
	defer comps.Close()

	if err := comps.Session.Navigate(ctx, targetURL); err != nil {
		return nil, err
	}

	rep, err := comps.Filler.Pass(ctx, comps.Session, p, comps.Site)
	if err != nil {
		return nil, err
	}
	if _, err := o.registry.RecordFill(ctx, account.ID, rep); err != nil {
		o.logger.Warn("failed to persist fill record",
			logging.Field{Key: "error", Value: err.Error()})
	}
	if err := o.registry.UpdateAccountLastUsed(ctx, account.ID, time.Now()); err != nil {
		o.logger.Warn("failed to stamp account",
			logging.Field{Key: "error", Value: err.Error()})
	}
	return rep, nil
}

func (o *Orchestrator) CancelJob(jobID string) {
	if cancel := o.getCancel(jobID); cancel != nil {
		cancel()
	}
}

func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobs[jobID]
}

// ListJobs returns all known jobs, newest first.
func (o *Orchestrator) ListJobs() []*Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	out := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, j)
	}
	for i := 0; i < len(out); i++ {
		for k := i + 1; k < len(out); k++ {
			if out[k].StartedAt.After(out[i].StartedAt) {
				out[i], out[k] = out[k], out[i]
			}
		}
	}
	return out
}

// Shutdown cancels every running job and waits for the context.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.jobsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.jobCancels))
	for _, c := range o.jobCancels {
		cancels = append(cancels, c)
	}
	o.jobsMu.Unlock()

	for _, c := range cancels {
		c()
	}
	return nil
}

// Account passthroughs for the API surface.

func (o *Orchestrator) CreateAccount(ctx context.Context, slug, name string) (*registry.Account, error) {
	return o.registry.CreateAccount(ctx, slug, name)
}

func (o *Orchestrator) ListAccounts(ctx context.Context) ([]registry.Account, error) {
	return o.registry.ListAccounts(ctx)
}

func (o *Orchestrator) GetAccount(ctx context.Context, identifier string) (*registry.Account, error) {
	return o.registry.GetAccount(ctx, identifier)
}

func (o *Orchestrator) ListFills(ctx context.Context, accountIdentifier string, limit int) ([]registry.FillRecord, error) {
	return o.registry.ListFills(ctx, accountIdentifier, limit)
}

// SaveProfile stores a profile snapshot for an account directly, bypassing
// the backend loader. Useful for air-gapped runs and tests.
func (o *Orchestrator) SaveProfile(ctx context.Context, accountIdentifier string, p *model.UserProfile) error {
	account, err := o.registry.GetAccount(ctx, accountIdentifier)
	if err != nil {
		return err
	}
	return o.registry.SaveProfileSnapshot(ctx, account.ID, p)
}

// GetProfile returns the cached profile snapshot for an account.
func (o *Orchestrator) GetProfile(ctx context.Context, accountIdentifier string) (*model.UserProfile, error) {
	account, err := o.registry.GetAccount(ctx, accountIdentifier)
	if err != nil {
		return nil, err
	}
	return o.registry.GetProfileSnapshot(ctx, account.ID)
}
