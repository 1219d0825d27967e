package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"quill/internal/generation"
	"quill/internal/logging"
	"quill/internal/notifications"
	"quill/internal/queue"
)

// Store is the slice of the queue store the worker drives.
type Store interface {
	NextPending(ctx context.Context) (*queue.Item, error)
	TryClaim(ctx context.Context, id string) (*queue.Item, error)
	Complete(ctx context.Context, id, outputJSON string) error
	Fail(ctx context.Context, id, message string) error
}

// PipelineRunner executes the generation pipeline for one claimed item.
type PipelineRunner interface {
	Run(ctx context.Context, itemID string, requestType generation.RequestType, input generation.Input) (generation.Output, error)
}

// Worker polls the queue on an interval and processes at most one item per
// tick. Manual triggers and the timer share the same single flight guard.
type Worker struct {
	store    Store
	pipeline PipelineRunner
	notifier notifications.Service
	logger   *slog.Logger

	pollInterval  time.Duration
	retryInterval time.Duration

	tickMu sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a worker. Intervals at or below zero fall back to safe
// defaults so a zero value config cannot spin the poll loop.
func New(store Store, pipeline PipelineRunner, notifier notifications.Service, logger *slog.Logger, pollInterval, retryInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	if retryInterval <= 0 {
		retryInterval = pollInterval
	}
	return &Worker{
		store:         store,
		pipeline:      pipeline,
		notifier:      notifier,
		logger:        logging.WithComponent(logger, "worker"),
		pollInterval:  pollInterval,
		retryInterval: retryInterval,
	}
}

// Start launches the polling loop. Calling Start on a running worker is a
// no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.run(loopCtx)
	w.logger.Info("worker started", logging.Duration("poll_interval", w.pollInterval))
}

// Stop stops the timer loop and waits for any in-flight tick to run to
// completion, so no claimed item is abandoned in processing. Stopping a
// stopped worker is a no-op.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.mu.Lock()
	w.running = false
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// IsRunning reports whether the polling loop is active.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Tick processes one queue item immediately. It reports whether an item was
// claimed and processed; an empty queue, a lost claim, or another tick
// already in flight all return false.
func (w *Worker) Tick(ctx context.Context) bool {
	if !w.tickMu.TryLock() {
		w.logger.Debug("tick skipped, previous tick still running")
		return false
	}
	defer w.tickMu.Unlock()

	processed, _ := w.tick(ctx)
	return processed
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wait := w.pollInterval
		if w.tickMu.TryLock() {
			if _, err := w.tick(ctx); err != nil {
				wait = w.retryInterval
			}
			w.tickMu.Unlock()
		}

		timer.Reset(wait)
	}
}

// tick claims and processes at most one pending item. Callers must hold
// tickMu. The returned error covers queue access problems only; pipeline
// failures are recorded on the item and do not bubble up.
func (w *Worker) tick(ctx context.Context) (bool, error) {
	// A claimed item must reach a terminal state even when the caller goes
	// away. Provider calls enforce their own timeouts, so honoring the
	// caller's cancellation here could only strand the item in processing.
	ctx = context.WithoutCancel(ctx)

	correlationID := uuid.NewString()
	log := w.logger.With(logging.String(logging.FieldCorrelationID, correlationID))

	next, err := w.store.NextPending(ctx)
	if err != nil {
		log.Error("poll queue", logging.Error(err))
		return false, err
	}
	if next == nil {
		return false, nil
	}

	claimed, err := w.store.TryClaim(ctx, next.ID)
	if err != nil {
		log.Error("claim item", logging.String(logging.FieldItemID, next.ID), logging.Error(err))
		return false, err
	}
	if claimed == nil {
		log.Debug("claim lost, item no longer pending", logging.String(logging.FieldItemID, next.ID))
		return false, nil
	}

	w.process(ctx, log, claimed)
	return true, nil
}

func (w *Worker) process(ctx context.Context, log *slog.Logger, item *queue.Item) {
	log = log.With(
		logging.String(logging.FieldItemID, item.ID),
		logging.String(logging.FieldRequestType, item.RequestType))
	started := time.Now()
	log.Info("processing item")

	requestType, ok := generation.ParseRequestType(item.RequestType)
	if !ok {
		w.failItem(ctx, log, item, "unknown request type "+item.RequestType)
		return
	}

	input, err := generation.DecodeInput(item.InputJSON)
	if err != nil {
		w.failItem(ctx, log, item, "invalid input payload: "+err.Error())
		return
	}

	output, err := w.pipeline.Run(ctx, item.ID, requestType, input)
	if err != nil {
		w.failItem(ctx, log, item, err.Error())
		return
	}

	encoded, err := generation.EncodeOutput(output)
	if err != nil {
		w.failItem(ctx, log, item, "encode output payload: "+err.Error())
		return
	}

	if err := w.store.Complete(ctx, item.ID, encoded); err != nil {
		if errors.Is(err, queue.ErrConflict) {
			log.Warn("item left processing before completion could be recorded")
			return
		}
		log.Error("record completion", logging.Error(err))
		return
	}

	log.Info("item completed",
		logging.Bool("polished", output.Polished),
		logging.Duration("elapsed", time.Since(started)))

	if w.notifier != nil {
		if err := w.notifier.NotifyDraftCompleted(ctx, item.ID, item.RequestType, output.Title, output.Polished); err != nil {
			log.Warn("completion notification failed", logging.Error(err))
		}
	}
}

func (w *Worker) failItem(ctx context.Context, log *slog.Logger, item *queue.Item, reason string) {
	if err := w.store.Fail(ctx, item.ID, reason); err != nil {
		if errors.Is(err, queue.ErrConflict) {
			log.Warn("item left processing before failure could be recorded")
			return
		}
		log.Error("record failure", logging.Error(err))
		return
	}
	log.Warn("item failed", logging.String("reason", reason))

	if w.notifier != nil {
		if err := w.notifier.NotifyDraftFailed(ctx, item.ID, item.RequestType, reason); err != nil {
			log.Warn("failure notification failed", logging.Error(err))
		}
	}
}
