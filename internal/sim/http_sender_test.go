package sim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"e2sim/internal/config"
	"e2sim/internal/telemetry"
)

// destinationFor builds a destination registry entry pointing at a test server.
func destinationFor(t *testing.T, name, serverURL string) config.Destination {
	t.Helper()
	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse server port: %v", err)
	}
	return config.Destination{Name: name, Host: u.Hostname(), Port: port, Path: "/e2/indication"}
}

func sampleIndication() telemetry.Indication {
	return telemetry.ControlEvent{
		Timestamp: time.Now(),
		CellID:    "cell_001",
		EventType: telemetry.ControlPowerControl,
		TriggerCondition: telemetry.TriggerCondition{
			PRBUsage:  80,
			ActiveUEs: 12,
		},
	}
}

func TestHTTPSenderDelivered(t *testing.T) {
	var gotContentType, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPSender([]config.Destination{destinationFor(t, "kpimon", srv.URL)}, time.Second)
	res, err := s.Send(context.Background(), "kpimon", sampleIndication())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v, want delivered", res.Outcome)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotPath != "/e2/indication" {
		t.Errorf("path = %q", gotPath)
	}
	var decoded telemetry.ControlEvent
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if decoded.CellID != "cell_001" || decoded.EventType != telemetry.ControlPowerControl {
		t.Errorf("unexpected body: %+v", decoded)
	}
}

func TestHTTPSenderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHTTPSender([]config.Destination{destinationFor(t, "ran-control", srv.URL)}, time.Second)
	res, err := s.Send(context.Background(), "ran-control", sampleIndication())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %v, want rejected", res.Outcome)
	}
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", res.StatusCode)
	}
}

func TestHTTPSenderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dest := destinationFor(t, "qoe-predictor", srv.URL)
	srv.Close() // nobody listening anymore

	s := NewHTTPSender([]config.Destination{dest}, time.Second)
	res, err := s.Send(context.Background(), "qoe-predictor", sampleIndication())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeUnreachable {
		t.Fatalf("outcome = %v, want unreachable", res.Outcome)
	}
	if res.Err == nil {
		t.Error("expected transport error to be recorded")
	}
}

func TestHTTPSenderUnknownDestination(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	s := NewHTTPSender([]config.Destination{destinationFor(t, "kpimon", srv.URL)}, time.Second)
	_, err := s.Send(context.Background(), "nonexistent", sampleIndication())
	if !errors.Is(err, ErrUnknownDestination) {
		t.Fatalf("expected ErrUnknownDestination, got %v", err)
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should name the destination: %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no network call, saw %d requests", requests)
	}
}
