package api

import (
	"time"

	"quill/internal/generation"
	"quill/internal/health"
	"quill/internal/queue"
)

// EnqueueRequest is the payload accepted by POST /api/queue.
type EnqueueRequest struct {
	RequestType string           `json:"requestType"`
	Input       generation.Input `json:"input"`
	RequestedBy string           `json:"requestedBy,omitempty"`
}

// ItemView is the wire representation of a queue item. The raw input payload
// is omitted from list responses to keep them small.
type ItemView struct {
	ID           string             `json:"id"`
	RequestType  string             `json:"requestType"`
	Status       string             `json:"status"`
	RequestedBy  string             `json:"requestedBy,omitempty"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	Output       *generation.Output `json:"output,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	StartedAt    *time.Time         `json:"startedAt,omitempty"`
	CompletedAt  *time.Time         `json:"completedAt,omitempty"`
}

// ListResponse wraps the items returned by GET /api/queue.
type ListResponse struct {
	Items []ItemView `json:"items"`
}

// StatsResponse is the payload of GET /api/queue/stats.
type StatsResponse struct {
	CountsByStatus map[string]int  `json:"countsByStatus"`
	Total          int             `json:"total"`
	WorkerRunning  bool            `json:"isWorkerRunning"`
	Health         health.Snapshot `json:"health"`
}

// ListOptions narrows and pages a queue listing.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

// QueueCounts mirrors the aggregated queue totals for health responses.
type QueueCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// DatabaseView reports queue database diagnostics.
type DatabaseView struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	Readable       bool   `json:"readable"`
	TableExists    bool   `json:"tableExists"`
	IntegrityCheck bool   `json:"integrityCheck"`
	TotalItems     int    `json:"totalItems"`
	Error          string `json:"error,omitempty"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Provider health.Snapshot `json:"provider"`
	Queue    QueueCounts     `json:"queue"`
	Database DatabaseView    `json:"database"`
}

// ProcessResponse reports whether a manual trigger processed an item.
type ProcessResponse struct {
	Processed bool `json:"processed"`
}

// ClearResponse reports how many items a maintenance call removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func itemView(item *queue.Item) (ItemView, error) {
	view := ItemView{
		ID:           item.ID,
		RequestType:  item.RequestType,
		Status:       string(item.Status),
		RequestedBy:  item.RequestedBy,
		ErrorMessage: item.ErrorMessage,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		StartedAt:    item.StartedAt,
		CompletedAt:  item.CompletedAt,
	}
	if item.OutputJSON != "" {
		output, err := generation.DecodeOutput(item.OutputJSON)
		if err != nil {
			return ItemView{}, err
		}
		view.Output = &output
	}
	return view, nil
}

func itemViews(items []*queue.Item) ([]ItemView, error) {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		view, err := itemView(item)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
