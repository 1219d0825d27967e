package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftCompleted(context.Background(), "item-1", "generate-post", "Example", true); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func captureServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
}

func ntfyConfig(url string) config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	cfg.Notifications.RequestTimeout = 5
	cfg.Notifications.Completed = true
	cfg.Notifications.Errors = true
	return cfg
}

func TestNtfyServiceFormatsDraftCompleted(t *testing.T) {
	var captured capturedRequest
	server := captureServer(t, &captured)
	defer server.Close()

	cfg := ntfyConfig(server.URL)
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftCompleted(context.Background(), "item-1", "generate-post", "Road Closures This Week", true); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}

	if captured.title != "Quill - Draft Ready" {
		t.Fatalf("unexpected title %q", captured.title)
	}
	if captured.body != "Draft ready: Road Closures This Week (generate-post)" {
		t.Fatalf("unexpected message %q", captured.body)
	}
	if captured.tags != "quill,draft,completed" {
		t.Fatalf("unexpected tags %q", captured.tags)
	}
	if captured.priority != "" {
		t.Fatalf("unexpected priority %q", captured.priority)
	}
}

func TestNtfyServiceNotesSkippedPolish(t *testing.T) {
	var captured capturedRequest
	server := captureServer(t, &captured)
	defer server.Close()

	cfg := ntfyConfig(server.URL)
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftCompleted(context.Background(), "item-1", "generate-event", "Movie Night", false); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	want := "Draft ready: Movie Night (generate-event)\nPolish step skipped; draft is unedited"
	if captured.body != want {
		t.Fatalf("unexpected message %q", captured.body)
	}
}

func TestNtfyServiceFormatsDraftFailed(t *testing.T) {
	var captured capturedRequest
	server := captureServer(t, &captured)
	defer server.Close()

	cfg := ntfyConfig(server.URL)
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftFailed(context.Background(), "item-9", "generate-newsletter", "provider timeout"); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}

	if captured.title != "Quill - Draft Failed" {
		t.Fatalf("unexpected title %q", captured.title)
	}
	if captured.body != "Generation failed (generate-newsletter, item item-9): provider timeout" {
		t.Fatalf("unexpected message %q", captured.body)
	}
	if captured.priority != "high" {
		t.Fatalf("unexpected priority %q", captured.priority)
	}
}

func TestNtfyServiceSuppressesDisabledEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Completed = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftCompleted(context.Background(), "item-1", "generate-post", "Example", true); err != nil {
		t.Fatalf("suppressed completed event returned error: %v", err)
	}
	if err := svc.NotifyDraftFailed(context.Background(), "item-1", "generate-post", "boom"); err != nil {
		t.Fatalf("suppressed error event returned error: %v", err)
	}
}
