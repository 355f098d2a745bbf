package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

const (
	// DefaultSettle is how long a file must go without writes before it is
	// submitted.
	DefaultSettle = 500 * time.Millisecond

	queueSize = 64
)

// Config holds watcher options.
type Config struct {
	// Dir is the directory to watch (required).
	Dir string

	// Bucket is passed to every submission. Empty uses the configured bucket.
	Bucket string

	// OutputDir receives enhanced files. Empty writes them next to the input.
	OutputDir string

	// Suffix marks enhanced files so they are not submitted again.
	Suffix string

	// PerMinute caps how many submissions start each minute.
	PerMinute int

	// Settle is the quiet period after the last write (default: DefaultSettle).
	Settle time.Duration
}

// Result is the outcome of one watched file.
type Result struct {
	// Path is the submitted file.
	Path string

	// State is the terminal workflow state.
	State domain.WorkflowState

	// OutputPath is where the enhanced file was written, if anywhere.
	OutputPath string

	// Err is set when the file could not be submitted or saved.
	Err error
}

// Handler receives each result in submission order.
type Handler func(Result)

// Watcher submits new spreadsheets one at a time, paced by a token bucket.
type Watcher struct {
	ports   *Ports
	cfg     Config
	limiter *rate.Limiter

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]bool
	queue   chan string
}

// New creates a watcher.
func New(ports *Ports, cfg Config) (*Watcher, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: watch directory is required", domain.ErrInvalidInput)
	}

	defaults := domain.DefaultAppSettings()
	if cfg.Suffix == "" {
		cfg.Suffix = defaults.Output.Suffix
	}
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = defaults.Watch.PerMinute
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}

	return &Watcher{
		ports:   ports,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), 1),
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]bool),
		queue:   make(chan string, queueSize),
	}, nil
}

// Eligible reports whether a file in the watched directory should be
// submitted. Hidden files, office lock files and enhanced outputs are skipped.
func (w *Watcher) Eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	if !services.IsSpreadsheet(name) {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return !strings.HasSuffix(stem, w.cfg.Suffix)
}

// Run watches the directory until ctx is cancelled. Existing files are
// not submitted; only files created or rewritten while watching are.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.cfg.Dir, err)
	}
	logger.Info("Watching %s (%d submissions/minute)", w.cfg.Dir, w.cfg.PerMinute)

	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.work(ctx, handle)
	}()
	defer func() {
		cancel()
		w.stopTimers()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent schedules a submission once writes to the file settle.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.Eligible(event.Name) {
		logger.Debug("Skipping %s", event.Name)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[event.Name]; ok {
		t.Reset(w.cfg.Settle)
		return
	}
	path := event.Name
	w.timers[path] = time.AfterFunc(w.cfg.Settle, func() {
		w.enqueue(ctx, path)
	})
}

func (w *Watcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.pending[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = true
	w.mu.Unlock()

	select {
	case w.queue <- path:
		logger.Debug("Queued %s", path)
	case <-ctx.Done():
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// work drains the queue sequentially; the workflow accepts one submission
// at a time.
func (w *Watcher) work(ctx context.Context, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()

			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			result := w.Process(ctx, path)
			if handle != nil {
				handle(result)
			}
		}
	}
}

// Process submits a single file and saves its enhanced output.
func (w *Watcher) Process(ctx context.Context, path string) Result {
	result := Result{Path: path}

	file, err := services.LoadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	state, err := w.ports.Workflow.Run(ctx, file, w.cfg.Bucket)
	result.State = state
	if err != nil {
		result.Err = err
		return result
	}
	if state.Phase != domain.PhaseReady || !state.HasArtifact() {
		return result
	}

	out, err := services.SaveArtifact(state.Artifact, path, w.cfg.OutputDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.OutputPath = out
	logger.Info("Saved %s", out)

	if w.ports.History != nil && state.SubmissionID != "" {
		if err := w.ports.History.RecordOutput(ctx, state.SubmissionID, out); err != nil {
			logger.Warn("recording output path: %v", err)
		}
	}
	return result
}
