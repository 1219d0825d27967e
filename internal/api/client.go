package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quill/internal/queue"
	"quill/internal/services"
)

// Client talks to a running daemon's admin API. The CLI is its only
// consumer.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs an API client for the given bind address. The address
// may be a bare host:port or a full http URL.
func NewClient(address, token string) *Client {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return &Client{
		baseURL: strings.TrimRight(address, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enqueue submits a new generation request.
func (c *Client) Enqueue(ctx context.Context, req EnqueueRequest) (ItemView, error) {
	var item ItemView
	err := c.do(ctx, http.MethodPost, "/api/queue", req, &item)
	return item, err
}

// Get fetches one item by id.
func (c *Client) Get(ctx context.Context, id string) (ItemView, error) {
	var item ItemView
	err := c.do(ctx, http.MethodGet, "/api/queue/"+url.PathEscape(id), nil, &item)
	return item, err
}

// List fetches a page of items, newest first. A zero limit uses the server
// default page size.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]ItemView, error) {
	params := url.Values{}
	if trimmed := strings.TrimSpace(opts.Status); trimmed != "" {
		params.Set("status", trimmed)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/api/queue"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var response ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// Stats fetches queue counts and worker liveness.
func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var response StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/queue/stats", nil, &response)
	return response, err
}

// Health fetches the aggregated health report.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var response HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &response)
	return response, err
}

// TriggerProcess asks the daemon to run one worker tick now. The result
// reports whether an item was processed.
func (c *Client) TriggerProcess(ctx context.Context) (bool, error) {
	var response ProcessResponse
	if err := c.do(ctx, http.MethodPost, "/api/queue/process", nil, &response); err != nil {
		return false, err
	}
	return response.Processed, nil
}

// Remove deletes one item.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/queue/"+url.PathEscape(id), nil, nil)
}

// Clear removes every item in one terminal status and returns the count.
func (c *Client) Clear(ctx context.Context, status queue.Status) (int64, error) {
	var response ClearResponse
	err := c.do(ctx, http.MethodPost, "/api/queue/clear?status="+url.QueryEscape(string(status)), nil, &response)
	return response.Removed, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call daemon API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var payload ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", services.ErrNotFound, message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", services.ErrValidation, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("unauthorized: %s (check paths.api_token)", message)
	default:
		return fmt.Errorf("daemon API returned %d: %s", resp.StatusCode, message)
	}
}
