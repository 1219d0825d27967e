package testsupport

import (
	"context"
	"testing"

	"quill/internal/config"
	"quill/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem inserts a pending generation request for tests.
func NewItem(t testing.TB, store *queue.Store, requestType, inputJSON string) *queue.Item {
	t.Helper()

	item, err := store.Insert(context.Background(), requestType, inputJSON, "test")
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return item
}
