package health

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubLister struct {
	configured bool
	model      string
	models     []string
	err        error
	calls      int
}

func (s *stubLister) Configured() bool { return s.configured }
func (s *stubLister) Model() string    { return s.model }

func (s *stubLister) Models(_ context.Context) ([]string, error) {
	s.calls++
	return s.models, s.err
}

func TestCheckUnconfiguredShortCircuits(t *testing.T) {
	lister := &stubLister{configured: false}
	snapshot := NewProbe(lister, time.Second, nil).Check(context.Background())

	if snapshot.Configured || snapshot.Connected || snapshot.ModelAvailable {
		t.Errorf("unconfigured snapshot should be all false: %+v", snapshot)
	}
	if snapshot.Error != "" {
		t.Errorf("unconfigured snapshot should carry no error: %q", snapshot.Error)
	}
	if lister.calls != 0 {
		t.Errorf("unconfigured probe must not touch the network, calls = %d", lister.calls)
	}
	if snapshot.LatencyMs != nil {
		t.Errorf("latency must be null when no probe call was made, got %d", *snapshot.LatencyMs)
	}
	if snapshot.CheckedAt.IsZero() {
		t.Error("CheckedAt should be set")
	}
}

func TestCheckReportsModelAvailability(t *testing.T) {
	lister := &stubLister{configured: true, model: "gpt-4o-mini", models: []string{"gpt-4o", "gpt-4o-mini"}}
	snapshot := NewProbe(lister, time.Second, nil).Check(context.Background())

	if !snapshot.Configured || !snapshot.Connected || !snapshot.ModelAvailable {
		t.Errorf("healthy snapshot expected: %+v", snapshot)
	}
	if snapshot.Error != "" {
		t.Errorf("unexpected error: %q", snapshot.Error)
	}
	if snapshot.LatencyMs == nil || *snapshot.LatencyMs < 0 {
		t.Errorf("probe call should record a latency: %v", snapshot.LatencyMs)
	}
}

func TestCheckMissingModel(t *testing.T) {
	lister := &stubLister{configured: true, model: "gpt-4o-mini", models: []string{"other-model"}}
	snapshot := NewProbe(lister, time.Second, nil).Check(context.Background())

	if !snapshot.Connected {
		t.Error("provider responded, Connected should be true")
	}
	if snapshot.ModelAvailable {
		t.Error("configured model is absent, ModelAvailable should be false")
	}
}

func TestCheckProviderErrorNeverPanicsOrErrors(t *testing.T) {
	lister := &stubLister{configured: true, model: "gpt-4o-mini", err: errors.New("connection refused")}
	snapshot := NewProbe(lister, time.Second, nil).Check(context.Background())

	if !snapshot.Configured {
		t.Error("Configured should remain true on probe failure")
	}
	if snapshot.Connected || snapshot.ModelAvailable {
		t.Errorf("failed probe must not report connectivity: %+v", snapshot)
	}
	if snapshot.Error == "" {
		t.Error("probe failure should be reported in the snapshot")
	}
}

func TestSnapshotSerializesUnmeasuredLatencyAsNull(t *testing.T) {
	lister := &stubLister{configured: false}
	snapshot := NewProbe(lister, time.Second, nil).Check(context.Background())

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if !strings.Contains(string(data), `"latencyMs":null`) {
		t.Errorf("unmeasured latency should serialize as null: %s", data)
	}
}

func TestCheckNilClient(t *testing.T) {
	snapshot := NewProbe(nil, time.Second, nil).Check(context.Background())
	if snapshot.Configured {
		t.Error("nil client means unconfigured")
	}
}
