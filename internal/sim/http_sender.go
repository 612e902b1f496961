package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"e2sim/internal/config"
	"e2sim/internal/telemetry"
)

// HTTPSender posts indications as JSON to destination endpoints. Each Send
// issues exactly one request with a bounded timeout; failures are classified,
// never retried.
type HTTPSender struct {
	client       *http.Client
	destinations map[string]config.Destination
}

// NewHTTPSender creates an HTTPSender for the given destination registry.
// A timeout <= 0 falls back to the 5s default.
func NewHTTPSender(destinations []config.Destination, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	m := make(map[string]config.Destination, len(destinations))
	for _, d := range destinations {
		m[d.Name] = d
	}
	return &HTTPSender{
		client:       &http.Client{Timeout: timeout},
		destinations: m,
	}
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, destination string, ind telemetry.Indication) (Result, error) {
	dest, ok := s.destinations[destination]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownDestination, destination)
	}

	body, err := json.Marshal(ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest.URL(), bytes.NewReader(body))
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Outcome: OutcomeUnreachable, Err: err}, nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Outcome: OutcomeDelivered, StatusCode: resp.StatusCode}, nil
	}
	return Result{Outcome: OutcomeRejected, StatusCode: resp.StatusCode}, nil
}
