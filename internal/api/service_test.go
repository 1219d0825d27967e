package api_test

import (
	"context"
	"errors"
	"testing"

	"quill/internal/api"
	"quill/internal/generation"
	"quill/internal/health"
	"quill/internal/queue"
	"quill/internal/services"
	"quill/internal/testsupport"
)

type stubTicker struct {
	running   bool
	triggered int
	accept    bool
}

func (s *stubTicker) Tick(context.Context) bool {
	s.triggered++
	return s.accept
}

func (s *stubTicker) IsRunning() bool { return s.running }

type stubProber struct {
	snapshot health.Snapshot
}

func (s *stubProber) Check(context.Context) health.Snapshot { return s.snapshot }

func newService(t *testing.T) (*api.Service, *queue.Store, *stubTicker) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ticker := &stubTicker{accept: true}
	svc := api.NewService(store, ticker, &stubProber{}, nil)
	return svc, store, ticker
}

func validEnqueue() api.EnqueueRequest {
	return api.EnqueueRequest{
		RequestType: "generate-post",
		Input: generation.Input{
			DocumentText: "Council memo text.",
			MediaType:    "text/plain",
		},
		RequestedBy: "editor@example.gov",
	}
}

func TestEnqueueAndGetRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Enqueue(ctx, validEnqueue())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if created.ID == "" {
		t.Fatal("enqueued item should get an id")
	}
	if created.Status != string(queue.StatusPending) {
		t.Errorf("status = %q, want pending", created.Status)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.RequestType != "generate-post" || fetched.RequestedBy != "editor@example.gov" {
		t.Errorf("round trip mismatch: %+v", fetched)
	}
	if fetched.StartedAt != nil || fetched.CompletedAt != nil {
		t.Errorf("pending item must not carry processing timestamps: %+v", fetched)
	}
}

func TestEnqueueRejectsUnknownRequestType(t *testing.T) {
	svc, _, _ := newService(t)
	req := validEnqueue()
	req.RequestType = "generate-minutes"

	_, err := svc.Enqueue(context.Background(), req)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestEnqueueRejectsMissingDocument(t *testing.T) {
	svc, _, _ := newService(t)
	req := validEnqueue()
	req.Input.DocumentText = "   "

	_, err := svc.Enqueue(context.Background(), req)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Get(context.Background(), "no-such-item")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Enqueue(ctx, validEnqueue())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := svc.Enqueue(ctx, validEnqueue()); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	claimed, err := store.TryClaim(ctx, first.ID)
	if err != nil || claimed == nil {
		t.Fatalf("TryClaim: item=%v err=%v", claimed, err)
	}
	if err := store.Fail(ctx, first.ID, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	failed, err := svc.List(ctx, api.ListOptions{Status: "failed"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != first.ID {
		t.Errorf("failed filter mismatch: %+v", failed)
	}
	if failed[0].ErrorMessage != "boom" {
		t.Errorf("error message = %q", failed[0].ErrorMessage)
	}

	all, err := svc.List(ctx, api.ListOptions{})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	page, err := svc.List(ctx, api.ListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page size = %d, want 1", len(page))
	}

	if _, err := svc.List(ctx, api.ListOptions{Status: "bogus"}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("bogus status filter: err = %v, want ErrValidation", err)
	}
	if _, err := svc.List(ctx, api.ListOptions{Limit: -1}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("negative limit: err = %v, want ErrValidation", err)
	}
}

func TestStatsCountsAndWorkerFlag(t *testing.T) {
	svc, _, ticker := newService(t)
	ctx := context.Background()
	ticker.running = true

	if _, err := svc.Enqueue(ctx, validEnqueue()); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 1 || stats.CountsByStatus["pending"] != 1 {
		t.Errorf("stats mismatch: %+v", stats)
	}
	if !stats.WorkerRunning {
		t.Error("worker flag should reflect the ticker")
	}
	for _, status := range queue.AllStatuses() {
		if _, ok := stats.CountsByStatus[string(status)]; !ok {
			t.Errorf("stats should list every status, missing %s", status)
		}
	}
}

func TestEnqueueDefaultsMediaType(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	req := validEnqueue()
	req.Input.MediaType = ""
	created, err := svc.Enqueue(ctx, req)
	if err != nil {
		t.Fatalf("Enqueue without media type: %v", err)
	}

	item, err := store.GetByID(ctx, created.ID)
	if err != nil || item == nil {
		t.Fatalf("GetByID: item=%v err=%v", item, err)
	}
	input, err := generation.DecodeInput(item.InputJSON)
	if err != nil {
		t.Fatalf("DecodeInput: %v", err)
	}
	if input.MediaType != generation.MediaTypePlain {
		t.Errorf("media type = %q, want %q", input.MediaType, generation.MediaTypePlain)
	}
}

func TestStatsIncludesHealthSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	prober := &stubProber{snapshot: health.Snapshot{Configured: true, Connected: true}}
	svc := api.NewService(store, &stubTicker{}, prober, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !stats.Health.Configured || !stats.Health.Connected {
		t.Errorf("stats should embed the provider snapshot: %+v", stats.Health)
	}
}

func TestCompletedItemCarriesOutput(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Enqueue(ctx, validEnqueue())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := store.TryClaim(ctx, created.ID); err != nil {
		t.Fatalf("TryClaim: %v", err)
	}
	outputJSON, err := generation.EncodeOutput(generation.Output{Title: "T", Content: "C", Polished: true})
	if err != nil {
		t.Fatalf("EncodeOutput: %v", err)
	}
	if err := store.Complete(ctx, created.ID, outputJSON); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Output == nil || fetched.Output.Title != "T" || !fetched.Output.Polished {
		t.Errorf("completed item should expose decoded output: %+v", fetched.Output)
	}
	if fetched.CompletedAt == nil {
		t.Error("completed item should carry CompletedAt")
	}
}

func TestTriggerProcessDelegatesToWorker(t *testing.T) {
	svc, _, ticker := newService(t)
	if !svc.TriggerProcess(context.Background()) {
		t.Error("trigger should report the processed item")
	}
	ticker.accept = false
	if svc.TriggerProcess(context.Background()) {
		t.Error("trigger with nothing to process should report false")
	}
	if ticker.triggered != 2 {
		t.Errorf("ticker calls = %d, want 2", ticker.triggered)
	}
}

func TestRemoveRefusesProcessingItems(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Enqueue(ctx, validEnqueue())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := store.TryClaim(ctx, created.ID); err != nil {
		t.Fatalf("TryClaim: %v", err)
	}

	if err := svc.Remove(ctx, created.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("removing a processing item: err = %v, want ErrValidation", err)
	}

	if err := store.Fail(ctx, created.ID, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if err := svc.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove after failure: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("removed item should be gone, err = %v", err)
	}
}

func TestClearRemovesTerminalItemsOnly(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Enqueue(ctx, validEnqueue())
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := store.TryClaim(ctx, created.ID); err != nil {
		t.Fatalf("TryClaim: %v", err)
	}
	if err := store.Fail(ctx, created.ID, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if _, err := svc.Enqueue(ctx, validEnqueue()); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	removed, err := svc.Clear(ctx, queue.StatusFailed)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := svc.Clear(ctx, queue.StatusPending); !errors.Is(err, services.ErrValidation) {
		t.Errorf("clearing pending: err = %v, want ErrValidation", err)
	}

	remaining, err := svc.List(ctx, api.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("pending item should survive the clear, got %d items", len(remaining))
	}
}
