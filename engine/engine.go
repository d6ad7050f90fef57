package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-sentinel/compliance"
	"go-sentinel/models"
	"go-sentinel/plugin"
	"go-sentinel/target"
)

// DefaultMaxSessions caps how many sessions run concurrently.
const DefaultMaxSessions = 3

// Archiver receives finished sessions for out-of-engine persistence.
type Archiver interface {
	Archive(session *models.ScanSession, summary models.Summary) error
}

// session wraps the public model with orchestrator-private state. The
// dispatch goroutine is the single writer; readers get copies.
type session struct {
	mu    sync.RWMutex
	model models.ScanSession
	specs []targetSpec
	cfg   *models.ScanConfig
	abort atomic.Bool
}

// targetSpec keeps the raw spec next to the expanded host so web checks
// can see the original URL.
type targetSpec struct {
	Host string
	Raw  string
}

// Engine owns the session queue, applies the global concurrency cap and
// dispatches each session's targets through the selected modules.
type Engine struct {
	registry *plugin.Registry
	scorer   *compliance.Scorer
	events   Events
	archiver Archiver

	mu       sync.RWMutex
	sessions map[string]*session
	queue    chan *session
	wg       sync.WaitGroup
	closed   atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents subscribes an event sink.
func WithEvents(ev Events) Option {
	return func(e *Engine) { e.events = ev }
}

// WithArchiver sets the finished-session store.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archiver = a }
}

// New builds an engine over an explicit module registry. maxSessions
// bounds concurrently running sessions; zero means the default cap.
func New(registry *plugin.Registry, scorer *compliance.Scorer, maxSessions int, opts ...Option) *Engine {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	e := &Engine{
		registry: registry,
		scorer:   scorer,
		events:   NopEvents{},
		sessions: make(map[string]*session),
		queue:    make(chan *session, 128),
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := 0; i < maxSessions; i++ {
		e.wg.Add(1)
		go e.dispatch()
	}
	return e
}

// Start expands the target specs, queues a new session and returns its
// id. The session transitions queued -> running once a dispatch slot
// frees up.
func (e *Engine) Start(rawTargets []string, cfg *models.ScanConfig) (string, error) {
	if len(rawTargets) == 0 {
		return "", errors.New("no targets provided")
	}

	var specs []targetSpec
	seen := make(map[string]bool)
	for _, raw := range rawTargets {
		for _, host := range target.Expand(raw) {
			if !seen[host] {
				seen[host] = true
				specs = append(specs, targetSpec{Host: host, Raw: raw})
			}
		}
	}
	if len(specs) == 0 {
		return "", errors.New("target expansion produced no hosts")
	}

	hosts := make([]string, len(specs))
	for i, s := range specs {
		hosts[i] = s.Host
	}

	moduleIDs := cfgModules(cfg)
	s := &session{
		model: models.ScanSession{
			ID:      uuid.NewString(),
			Status:  models.StatusQueued,
			Targets: hosts,
			Modules: moduleIDs,
		},
		specs: specs,
		cfg:   cfg,
	}

	// The closed check and the enqueue share the lock with Shutdown's
	// close(e.queue), so a concurrent shutdown cannot turn the send
	// into a send on a closed channel.
	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		return "", errors.New("engine is shut down")
	}
	e.sessions[s.model.ID] = s
	select {
	case e.queue <- s:
		e.mu.Unlock()
	default:
		delete(e.sessions, s.model.ID)
		e.mu.Unlock()
		return "", errors.New("session queue is full")
	}

	logrus.Infof("session %s queued (%d targets, modules %v)", s.model.ID, len(specs), moduleIDs)
	return s.model.ID, nil
}

// Stop requests an abort. The flag is checked at target boundaries: the
// in-flight target's module calls are allowed to finish.
func (e *Engine) Stop(id string) bool {
	e.mu.RLock()
	s, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return false
	}
	s.abort.Store(true)
	logrus.Infof("session %s abort requested", id)
	return true
}

// Status returns a copy of the session, readable while the dispatch
// path keeps writing.
func (e *Engine) Status(id string) (models.ScanSession, bool) {
	e.mu.RLock()
	s, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return models.ScanSession{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.model
	cp.Targets = append([]string(nil), s.model.Targets...)
	cp.Findings = append([]models.Finding(nil), s.model.Findings...)
	return cp, true
}

// Remove drops a finished session from the store. Running or queued
// sessions are kept.
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return false
	}
	s.mu.RLock()
	status := s.model.Status
	s.mu.RUnlock()
	switch status {
	case models.StatusCompleted, models.StatusFailed, models.StatusStopped:
		delete(e.sessions, id)
		return true
	}
	return false
}

// Modules lists the registered module names.
func (e *Engine) Modules() []string {
	return e.registry.Names()
}

// Shutdown stops accepting sessions and waits for running dispatches.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.closed.Swap(true) {
		e.mu.Unlock()
		return
	}
	close(e.queue)
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) dispatch() {
	defer e.wg.Done()
	for s := range e.queue {
		e.run(s)
	}
}

// run executes one session. Only this goroutine mutates the session.
func (e *Engine) run(s *session) {
	defer func() {
		// Orchestrator-fatal defects move the session to failed; module
		// errors never reach here.
		if r := recover(); r != nil {
			err := fmt.Errorf("orchestrator failure: %v", r)
			logrus.Errorf("session %s failed: %v", s.model.ID, err)
			s.mu.Lock()
			s.model.Status = models.StatusFailed
			s.model.Error = err.Error()
			s.model.FinishedAt = time.Now().UTC()
			s.mu.Unlock()
			e.events.ScanFailed(s.model.ID, err)
		}
	}()

	s.mu.Lock()
	s.model.Status = models.StatusRunning
	s.model.StartedAt = time.Now().UTC()
	s.mu.Unlock()
	e.events.ScanStarted(s.model.ID)
	logrus.Infof("session %s running", s.model.ID)

	modules := e.registry.Select(s.model.Modules)
	scoreCompliance := wantsCompliance(s.model.Modules)
	ctx := context.Background()
	total := len(s.specs)

	for i, spec := range s.specs {
		if s.abort.Load() {
			s.mu.Lock()
			s.model.Status = models.StatusStopped
			s.model.FinishedAt = time.Now().UTC()
			s.mu.Unlock()
			logrus.Infof("session %s stopped after %d/%d targets", s.model.ID, i, total)
			e.events.ScanStopped(s.model.ID)
			e.archive(s)
			return
		}

		var targetFindings []models.Finding
		for _, mod := range modules {
			targetFindings = append(targetFindings, e.runModule(ctx, mod, spec, s.cfg)...)
		}
		if scoreCompliance && e.scorer != nil {
			_, complianceFindings := e.scorer.AssessAll(spec.Host, targetFindings, s.cfg)
			targetFindings = append(targetFindings, complianceFindings...)
		}

		s.mu.Lock()
		s.model.Findings = append(s.model.Findings, targetFindings...)
		s.model.CompletedTargets = i + 1
		progress := int(math.Round(float64(i+1) / float64(total) * 100))
		if progress > s.model.Progress {
			s.model.Progress = progress
		}
		current := s.model.Progress
		s.mu.Unlock()
		e.events.ScanProgress(s.model.ID, current)
	}

	s.mu.Lock()
	s.model.Status = models.StatusCompleted
	s.model.Progress = 100
	s.model.FinishedAt = time.Now().UTC()
	s.mu.Unlock()
	logrus.Infof("session %s completed with %d findings", s.model.ID, len(s.model.Findings))
	e.events.ScanCompleted(s.model.ID)
	e.archive(s)
}

// runModule isolates one module call: a panic becomes a scan_error
// finding and the scan proceeds to the next module.
func (e *Engine) runModule(ctx context.Context, mod plugin.Module, spec targetSpec, cfg *models.ScanConfig) (findings []models.Finding) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("module %s panicked on %s: %v", mod.Name(), spec.Host, r)
			findings = append(findings, models.NewScanError(spec.Host, mod.Name(),
				fmt.Sprintf("module failure: %v", r)))
		}
	}()

	scanTarget := spec.Host
	if mod.Name() == plugin.WebScanner && target.IsWebTarget(spec.Raw) {
		scanTarget = spec.Raw
	}
	return mod.Scan(ctx, scanTarget, cfg)
}

func (e *Engine) archive(s *session) {
	if e.archiver == nil {
		return
	}
	s.mu.RLock()
	cp := s.model
	summary := cp.Summarize()
	s.mu.RUnlock()
	if err := e.archiver.Archive(&cp, summary); err != nil {
		logrus.Warnf("archiving session %s failed: %v", cp.ID, err)
	}
}

func cfgModules(cfg *models.ScanConfig) []string {
	if cfg == nil {
		return nil
	}
	return cfg.Modules
}

// wantsCompliance reports whether the selection asks for compliance
// scoring, which the engine performs over the per-target finding set
// after the probing modules ran. An empty selection means everything.
func wantsCompliance(ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == plugin.ComplianceScanner {
			return true
		}
	}
	return false
}
