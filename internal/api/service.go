package api

import (
	"context"
	"log/slog"
	"strings"

	"quill/internal/generation"
	"quill/internal/health"
	"quill/internal/logging"
	"quill/internal/queue"
	"quill/internal/services"
)

// Ticker is the slice of the worker the API exposes.
type Ticker interface {
	Tick(ctx context.Context) bool
	IsRunning() bool
}

// Prober produces provider health snapshots.
type Prober interface {
	Check(ctx context.Context) health.Snapshot
}

// Service implements the admin API operations over the queue store, worker,
// and health probe. The HTTP layer in internal/daemon is a thin shell around
// it.
type Service struct {
	store  *queue.Store
	ticker Ticker
	prober Prober
	logger *slog.Logger
}

// NewService wires the admin API service.
func NewService(store *queue.Store, ticker Ticker, prober Prober, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		ticker: ticker,
		prober: prober,
		logger: logging.WithComponent(logger, "api"),
	}
}

// Enqueue validates and persists a new generation request.
func (s *Service) Enqueue(ctx context.Context, req EnqueueRequest) (ItemView, error) {
	requestType, ok := generation.ParseRequestType(req.RequestType)
	if !ok {
		return ItemView{}, services.Wrap(
			services.ErrValidation, "enqueue", "validate request type",
			"unknown request type "+strings.TrimSpace(req.RequestType), nil)
	}
	req.Input = generation.NormalizeInput(req.Input)
	if err := generation.ValidateInput(req.Input); err != nil {
		return ItemView{}, err
	}

	inputJSON, err := generation.EncodeInput(req.Input)
	if err != nil {
		return ItemView{}, services.Wrap(services.ErrValidation, "enqueue", "encode input", "", err)
	}

	item, err := s.store.Insert(ctx, string(requestType), inputJSON, strings.TrimSpace(req.RequestedBy))
	if err != nil {
		return ItemView{}, services.Wrap(services.ErrPersistence, "enqueue", "insert item", "", err)
	}

	s.logger.Info("item enqueued",
		logging.String(logging.FieldItemID, item.ID),
		logging.String(logging.FieldRequestType, item.RequestType))
	return itemView(item)
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id string) (ItemView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ItemView{}, services.Wrap(services.ErrValidation, "get", "validate id", "item id is required", nil)
	}
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ItemView{}, services.Wrap(services.ErrPersistence, "get", "load item", "", err)
	}
	if item == nil {
		return ItemView{}, services.Wrap(services.ErrNotFound, "get", "load item", "no item with id "+id, nil)
	}
	return itemView(item)
}

// List returns a page of items, newest first, optionally filtered to one
// status. A zero limit falls back to the store default.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]ItemView, error) {
	var statuses []queue.Status
	if trimmed := strings.TrimSpace(opts.Status); trimmed != "" {
		status, ok := queue.ParseStatus(trimmed)
		if !ok {
			return nil, services.Wrap(
				services.ErrValidation, "list", "parse status filter",
				"unknown status "+trimmed, nil)
		}
		statuses = append(statuses, status)
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, services.Wrap(
			services.ErrValidation, "list", "check paging",
			"limit and offset must not be negative", nil)
	}

	var (
		items []*queue.Item
		err   error
	)
	if len(statuses) == 0 && opts.Offset == 0 {
		items, err = s.store.ListRecent(ctx, opts.Limit)
	} else {
		items, err = s.store.List(ctx, queue.ListQuery{
			Statuses: statuses,
			Limit:    opts.Limit,
			Offset:   opts.Offset,
		})
	}
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "list", "load items", "", err)
	}
	return itemViews(items)
}

// Stats returns per-status counts, worker liveness, and a fresh provider
// health snapshot.
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	counts, err := s.store.Stats(ctx)
	if err != nil {
		return StatsResponse{}, services.Wrap(services.ErrPersistence, "stats", "load counts", "", err)
	}

	response := StatsResponse{CountsByStatus: make(map[string]int, len(counts))}
	for _, status := range queue.AllStatuses() {
		count := counts[status]
		response.CountsByStatus[string(status)] = count
		response.Total += count
	}
	if s.ticker != nil {
		response.WorkerRunning = s.ticker.IsRunning()
	}
	if s.prober != nil {
		response.Health = s.prober.Check(ctx)
	}
	return response, nil
}

// HealthStatus aggregates provider, queue, and database health. It never
// fails; diagnostics errors are reported inside the response.
func (s *Service) HealthStatus(ctx context.Context) HealthResponse {
	var response HealthResponse

	if s.prober != nil {
		response.Provider = s.prober.Check(ctx)
	}

	if summary, err := s.store.Health(ctx); err != nil {
		s.logger.Warn("queue health query failed", logging.Error(err))
	} else {
		response.Queue = QueueCounts{
			Total:      summary.Total,
			Pending:    summary.Pending,
			Processing: summary.Processing,
			Completed:  summary.Completed,
			Failed:     summary.Failed,
		}
	}

	diag, err := s.store.CheckHealth(ctx)
	if err != nil {
		s.logger.Warn("database health check failed", logging.Error(err))
	}
	response.Database = DatabaseView{
		Path:           diag.DBPath,
		Exists:         diag.DatabaseExists,
		Readable:       diag.DatabaseReadable,
		TableExists:    diag.TableExists,
		IntegrityCheck: diag.IntegrityCheck,
		TotalItems:     diag.TotalItems,
		Error:          diag.Error,
	}
	return response
}

// TriggerProcess runs one worker tick immediately. It reports whether an
// item was processed; an empty queue or an in-flight tick both report false.
func (s *Service) TriggerProcess(ctx context.Context) bool {
	if s.ticker == nil {
		return false
	}
	return s.ticker.Tick(ctx)
}

// Remove deletes one item. Processing items cannot be removed.
func (s *Service) Remove(ctx context.Context, id string) error {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "remove", "load item", "", err)
	}
	if item == nil {
		return services.Wrap(services.ErrNotFound, "remove", "load item", "no item with id "+id, nil)
	}
	if item.Status == queue.StatusProcessing {
		return services.Wrap(services.ErrValidation, "remove", "check status", "cannot remove an item that is processing", nil)
	}

	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "remove", "delete item", "", err)
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "remove", "delete item", "no item with id "+id, nil)
	}
	return nil
}

// Clear removes every item in one terminal status.
func (s *Service) Clear(ctx context.Context, status queue.Status) (int64, error) {
	switch status {
	case queue.StatusCompleted:
		removed, err := s.store.ClearCompleted(ctx)
		if err != nil {
			return 0, services.Wrap(services.ErrPersistence, "clear", "clear completed", "", err)
		}
		return removed, nil
	case queue.StatusFailed:
		removed, err := s.store.ClearFailed(ctx)
		if err != nil {
			return 0, services.Wrap(services.ErrPersistence, "clear", "clear failed", "", err)
		}
		return removed, nil
	default:
		return 0, services.Wrap(
			services.ErrValidation, "clear", "check status",
			"only completed or failed items can be cleared", nil)
	}
}
