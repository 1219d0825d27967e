package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quill/internal/config"
)

const userAgent = "Quill-Go/0.1.0"

// Service defines the notification surface exposed to the worker and CLI.
type Service interface {
	NotifyDraftCompleted(ctx context.Context, itemID, requestType, title string, polished bool) error
	NotifyDraftFailed(ctx context.Context, itemID, requestType, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		sendCompleted: cfg.Notifications.Completed,
		sendErrors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	sendCompleted bool
	sendErrors    bool
}

func (n *ntfyService) NotifyDraftCompleted(ctx context.Context, itemID, requestType, title string, polished bool) error {
	if !n.sendCompleted {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "(untitled)"
	}
	message := fmt.Sprintf("Draft ready: %s (%s)", title, requestType)
	if !polished {
		message += "\nPolish step skipped; draft is unedited"
	}
	data := payload{
		title:   "Quill - Draft Ready",
		message: message,
		tags:    []string{"quill", "draft", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDraftFailed(ctx context.Context, itemID, requestType, reason string) error {
	if !n.sendErrors {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Quill - Draft Failed",
		message:  fmt.Sprintf("Generation failed (%s, item %s): %s", requestType, itemID, reason),
		tags:     []string{"quill", "draft", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Quill - Test",
		message:  "Notification system test",
		tags:     []string{"quill", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDraftCompleted(context.Context, string, string, string, bool) error {
	return nil
}
func (noopService) NotifyDraftFailed(context.Context, string, string, string) error { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
