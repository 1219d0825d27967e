package health

import (
	"context"
	"log/slog"
	"time"

	"quill/internal/logging"
)

// Snapshot is the result of one provider health check. It is always a value,
// never an error: probe failures are reported inside the snapshot.
type Snapshot struct {
	Configured     bool      `json:"configured"`
	Connected      bool      `json:"connected"`
	ModelAvailable bool      `json:"modelAvailable"`
	LatencyMs      *int64    `json:"latencyMs"`
	Error          string    `json:"error,omitempty"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// ModelLister is the slice of the LLM client the probe needs.
type ModelLister interface {
	Configured() bool
	Model() string
	Models(ctx context.Context) ([]string, error)
}

// Probe checks reachability of the generation provider.
type Probe struct {
	client  ModelLister
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewProbe constructs a provider health probe.
func NewProbe(client ModelLister, timeout time.Duration, logger *slog.Logger) *Probe {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Probe{
		client:  client,
		timeout: timeout,
		logger:  logging.WithComponent(logger, "health"),
		now:     time.Now,
	}
}

// Check probes the provider and reports the result. When no API key is
// configured it short circuits without any network traffic. Check never
// returns an error; callers always get a usable snapshot.
func (p *Probe) Check(ctx context.Context) Snapshot {
	snapshot := Snapshot{CheckedAt: p.now()}

	if p.client == nil || !p.client.Configured() {
		return snapshot
	}
	snapshot.Configured = true

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := p.now()
	models, err := p.client.Models(probeCtx)

	// LatencyMs stays nil unless a probe call was actually made, so a null
	// latency is distinguishable from a measured zero.
	latency := p.now().Sub(started).Milliseconds()
	snapshot.LatencyMs = &latency

	if err != nil {
		snapshot.Error = err.Error()
		p.logger.Warn("provider health check failed",
			logging.Duration("elapsed", time.Duration(latency)*time.Millisecond),
			logging.Error(err))
		return snapshot
	}

	snapshot.Connected = true
	configured := p.client.Model()
	for _, model := range models {
		if model == configured {
			snapshot.ModelAvailable = true
			break
		}
	}
	if !snapshot.ModelAvailable {
		p.logger.Warn("configured model not advertised by provider",
			logging.String("model", configured))
	}
	return snapshot
}
