package sim

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"e2sim/internal/telemetry"
)

func TestFileSenderWritesEnvelopes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indications.log")
	fs, err := NewFileSender(path)
	if err != nil {
		t.Fatalf("NewFileSender: %v", err)
	}

	res, err := fs.Send(context.Background(), "kpimon", sampleIndication())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if _, err := fs.Send(context.Background(), "ran-control", sampleIndication()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var envs []Envelope
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var env Envelope
		if err := json.Unmarshal(sc.Bytes(), &env); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		envs = append(envs, env)
	}
	if len(envs) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(envs))
	}
	if envs[0].Destination != "kpimon" || envs[0].Kind != telemetry.KindControl {
		t.Errorf("unexpected first envelope: %+v", envs[0])
	}
	var payload telemetry.ControlEvent
	if err := json.Unmarshal(envs[0].Payload, &payload); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if payload.CellID != "cell_001" {
		t.Errorf("payload cell_id = %q", payload.CellID)
	}
}
