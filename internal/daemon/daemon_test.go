package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"quill/internal/api"
	"quill/internal/generation"
	"quill/internal/testsupport"
	"quill/internal/worker"
)

type idlePipeline struct{}

func (idlePipeline) Run(context.Context, string, generation.RequestType, generation.Input) (generation.Output, error) {
	return generation.Output{Title: "T", Content: "C"}, nil
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	w := worker.New(store, idlePipeline{}, nil, nil, time.Minute, time.Minute)
	svc := api.NewService(store, w, nil, nil)

	d, err := New(cfg, store, w, svc, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if !d.Running() {
		t.Fatal("daemon should report running")
	}
	if d.APIAddress() == "" {
		t.Fatal("daemon should expose the bound api address")
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon should report stopped")
	}
	d.Stop()
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	d := newTestDaemon(t)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	w := worker.New(store, idlePipeline{}, nil, nil, time.Minute, time.Minute)
	svc := api.NewService(store, w, nil, nil)
	second, err := New(cfg, store, w, svc, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Point the second daemon at the first one's lock file.
	second.lockPath = d.lockPath
	second.lock = flock.New(d.lockPath)

	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance sharing the lock should fail to start")
	}
}
