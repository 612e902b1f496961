package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"e2sim/internal/telemetry"
)

func TestJSONStdoutSender(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutSender{out: buf}

	res, err := w.Send(context.Background(), "kpimon", sampleIndication())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	var env Envelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("expected JSON envelope, got %q: %v", buf.String(), err)
	}
	if env.Destination != "kpimon" || env.Kind != telemetry.KindControl {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestColorStdoutSender(t *testing.T) {
	cfg := testConfig()
	buf := &bytes.Buffer{}
	w := &ColorStdoutSender{cfg: cfg, out: buf}

	if _, err := w.Send(context.Background(), "ran-control", sampleIndication()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Simulation Configuration:") || !strings.Contains(output, "Destinations:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Fatalf("expected color codes in output: %q", output)
	}
	if !strings.Contains(output, "ran-control") {
		t.Errorf("destination missing from output: %q", output)
	}

	// Overview printed only once.
	buf.Reset()
	if _, err := w.Send(context.Background(), "ran-control", sampleIndication()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if strings.Contains(buf.String(), "Simulation Configuration:") {
		t.Error("overview printed twice")
	}
}
