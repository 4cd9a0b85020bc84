package job

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/model"
	"github.com/robfig/cron/v3"
)

// GenerateRequest is the validated input to EnqueueGeneration: one chunk
// of text routed to a named engine/adapter.
type GenerateRequest struct {
	Kind      Kind
	Backend   string // engine name, e.g. "qwen3"
	Model     string // model.Descriptor name gating readiness, usually == Backend
	Mode      string
	Title     string
	Text      string
	Params    engine.Params
	OutputDir string // output directory a completed job's audio_url resolves against
}

// Engine is the live-set-plus-history job coordinator (spec §4.6). It
// owns both enqueued generation jobs and audiobook jobs; download jobs
// remain tracked by internal/model.Registry (reported by
// /api/models/status) and do not appear in this engine's job listings.
type Engine struct {
	models  *model.Registry
	engines *engine.Registry
	log     *slog.Logger

	mu      sync.Mutex
	live    map[string]*Job
	history *historyRing

	cron *cron.Cron
}

// NewEngine builds an Engine with the given bounded history capacity
// (spec default 2000, see internal/config JobConfig.HistoryCapacity).
func NewEngine(historyCapacity int, models *model.Registry, engines *engine.Registry, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		models:  models,
		engines: engines,
		log:     log,
		live:    make(map[string]*Job),
		history: newHistoryRing(historyCapacity),
	}
}

// EnqueueGeneration validates eagerly, ensures model readiness via C4
// (failing synchronously with a 409-mapped error before enqueuing), then
// spawns a worker that drives the job through started → processing →
// completed|failed (spec §4.6 step 1-4).
func (e *Engine) EnqueueGeneration(req GenerateRequest) (*Job, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("enqueue: text must not be empty")
	}

	if req.Model != "" {
		if _, err := e.models.EnsureReady(req.Model); err != nil {
			return nil, err
		}
	}

	adapter, err := e.engines.Get(req.Backend)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j := &Job{
		ID:        newID(),
		Kind:      req.Kind,
		Backend:   req.Backend,
		Mode:      req.Mode,
		Status:    StatusStarted,
		Title:     req.Title,
		CharCount: len(req.Text),
		Voice:     req.Params.Voice,
		Model:     req.Model,
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.mu.Lock()
	e.live[j.ID] = j
	e.mu.Unlock()

	go e.runGeneration(j, adapter, req)

	return j.clone(), nil
}

func (e *Engine) runGeneration(j *Job, adapter engine.Adapter, req GenerateRequest) {
	e.setStatus(j.ID, StatusProcessing, "")

	ctx := context.Background()
	path, err := adapter.Generate(ctx, req.Text, req.Params)
	if err != nil {
		e.log.Error("generation job failed", "job_id", j.ID, "backend", req.Backend, "error", err)
		e.finish(j.ID, StatusFailed, "", err.Error())
		return
	}

	if req.OutputDir != "" {
		published, perr := engine.PublishToDir(path, req.OutputDir)
		if perr != nil {
			e.log.Error("publish generated audio failed", "job_id", j.ID, "error", perr)
			e.finish(j.ID, StatusFailed, "", perr.Error())
			return
		}
		path = published
	}

	e.log.Info("generation job completed", "job_id", j.ID, "backend", req.Backend, "output_path", path)
	e.finish(j.ID, StatusCompleted, path, "")
}

func (e *Engine) setStatus(id string, status Status, errMsg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok || j.Status.terminal() {
		return
	}
	j.Status = status
	j.Error = errMsg
	j.UpdatedAt = time.Now().UTC()
}

// finish transitions a live job to a terminal state and moves it into the
// bounded history ring (spec §4.6 step 4-5).
func (e *Engine) finish(id string, status Status, outputPath, errMsg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok || j.Status.terminal() {
		return
	}

	j.Status = status
	j.OutputPath = outputPath
	if outputPath != "" {
		j.AudioURL = outputURLFor(outputPath)
	}
	j.Error = errMsg
	j.UpdatedAt = time.Now().UTC()

	delete(e.live, id)
	e.history.push(j)
}

// outputURLFor derives the public URL for a generated artifact. The
// gateway mounts the output store's directory at /audio/ (spec §6); this
// keeps the mapping in one place so job records are self-describing.
func outputURLFor(path string) string {
	return "/audio/" + filepath.Base(path)
}

// Get returns a snapshot of the job with id, checking the live set first
// and then history.
func (e *Engine) Get(id string) (*Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if j, ok := e.live[id]; ok {
		return j.clone(), true
	}
	if j, ok := e.history.get(id); ok {
		return j.clone(), true
	}
	return nil, false
}

// List merges live jobs with up to limit history entries, sorts them
// newest-first with id as a tiebreaker (spec §4.6 "Tie-breaking for ties
// in history display uses timestamp descending, then id"), and caps the
// merged result at limit entries; limit <= 0 means no cap.
func (e *Engine) List(limit int) []*Job {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Job, 0, len(e.live))
	for _, j := range e.live {
		out = append(out, j.clone())
	}

	for _, j := range e.history.list(limit) {
		out = append(out, j.clone())
	}

	sort.Slice(out, func(i, k int) bool {
		if !out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].CreatedAt.After(out[k].CreatedAt)
		}
		return out[i].ID > out[k].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Cancel sets the cancellation flag on a live audiobook job; it is a
// no-op for any other kind or for an already-terminal job (spec §4.6:
// "Cancellation: a flag checked between chunks").
func (e *Engine) Cancel(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.live[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if j.Kind != KindAudiobook || j.Audiobook == nil {
		return fmt.Errorf("job %q is not cancellable", id)
	}
	j.Audiobook.cancelRequested = true
	return nil
}

// StartHousekeeping schedules a recurring prune of failed download
// records older than pruneAfter (spec §4.6 addendum; grounded on
// internal/model.Registry.PruneFailedOlderThan).
func (e *Engine) StartHousekeeping(pruneAfter time.Duration) {
	e.cron = cron.New()
	_, _ = e.cron.AddFunc("@every 10m", func() {
		n := e.models.PruneFailedOlderThan(pruneAfter)
		if n > 0 {
			e.log.Info("pruned stale failed downloads", "count", n)
		}
	})
	e.cron.Start()
}

// StopHousekeeping stops the cron scheduler, if running.
func (e *Engine) StopHousekeeping() {
	if e.cron != nil {
		e.cron.Stop()
	}
}

// NotFoundError signals an unknown job id.
type NotFoundError struct{ ID string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("job %q not found", e.ID) }
