package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/depscope/depscope/pkg/builder"
	"github.com/depscope/depscope/pkg/manifest"
)

// Watcher re-ingests dependency manifests as they change on disk and
// periodically re-derives package-to-package edges.
type Watcher struct {
	builder  *builder.Builder
	registry *manifest.Registry
	logger   *logrus.Logger
	debounce time.Duration
	schedule string

	fsw  *fsnotify.Watcher
	cron *cron.Cron

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher. Schedule is a cron expression for the periodic
// relink pass; an empty schedule disables it.
func New(b *builder.Builder, registry *manifest.Registry, logger *logrus.Logger, debounce time.Duration, schedule string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{
		builder:  b,
		registry: registry,
		logger:   logger,
		debounce: debounce,
		schedule: schedule,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Add registers a directory tree for watching
func (w *Watcher) Add(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run processes file events until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	if w.schedule != "" {
		w.cron = cron.New()
		_, err := w.cron.AddFunc(w.schedule, func() { w.relink(ctx) })
		if err != nil {
			return fmt.Errorf("invalid relink schedule %q: %w", w.schedule, err)
		}
		w.cron.Start()
		defer w.cron.Stop()
	}

	w.logger.WithField("debounce", w.debounce).Info("watching for manifest changes")

	for {
		select {
		case <-ctx.Done():
			w.drainTimers()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

// Close releases the underlying file watcher
func (w *Watcher) Close() error {
	w.drainTimers()
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories join the watch set so nested manifests are seen.
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.WithError(err).WithField("dir", event.Name).Warn("failed to watch new directory")
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if w.registry.Lookup(filepath.Base(event.Name)) == nil {
		return
	}

	// Editors fire several writes per save; coalesce them per path.
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.reingest(ctx, path)
	})
}

func (w *Watcher) reingest(ctx context.Context, path string) {
	log := w.logger.WithField("manifest", path)

	rec, err := w.registry.ParseFile(path)
	if err != nil {
		log.WithError(err).Error("failed to parse changed manifest")
		return
	}

	deps, err := w.builder.BuildProjectGraph(ctx, rec)
	if err != nil {
		log.WithError(err).Error("failed to re-ingest manifest")
		return
	}

	linked, err := w.builder.LinkPackageDependencies(ctx)
	if err != nil {
		log.WithError(err).Error("failed to re-derive package links")
		return
	}

	log.WithFields(logrus.Fields{
		"project":      rec.ProjectName,
		"dependencies": deps,
		"linked":       linked,
	}).Info("re-ingested changed manifest")
}

// relink re-derives package edges; the operation is idempotent so a
// periodic run is safe even with no intervening changes.
func (w *Watcher) relink(ctx context.Context) {
	linked, err := w.builder.LinkPackageDependencies(ctx)
	if err != nil {
		w.logger.WithError(err).Error("scheduled relink failed")
		return
	}
	w.logger.WithField("linked", linked).Debug("scheduled relink completed")
}

func (w *Watcher) drainTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
