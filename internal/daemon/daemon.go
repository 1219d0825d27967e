package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"quill/internal/api"
	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/queue"
	"quill/internal/worker"
)

// Daemon coordinates the queue worker and admin API and enforces single
// instance execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	worker *worker.Worker
	svc    *api.Service
	server *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, w *worker.Worker, svc *api.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || w == nil || svc == nil {
		return nil, errors.New("daemon requires config, store, worker, and api service")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "quilld.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		store:    store,
		worker:   w,
		svc:      svc,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, svc, logger)
	return d, nil
}

// Start acquires the daemon lock, launches the worker, and begins serving the
// admin API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another quill daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.worker.Start(runCtx)
	if err := d.server.start(runCtx); err != nil {
		d.worker.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("quill daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and worker and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	d.worker.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("quill daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon has started and not yet stopped.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// APIAddress returns the bound admin API address, or empty before Start.
func (d *Daemon) APIAddress() string {
	return d.server.address()
}

// LockFilePath returns the path of the single-instance lock file.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}
