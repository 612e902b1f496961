// Delivery abstractions shared by all sender implementations.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"e2sim/internal/telemetry"
)

// Outcome classifies a single delivery attempt.
type Outcome int

const (
	// OutcomeDelivered means the destination acknowledged with a success status.
	OutcomeDelivered Outcome = iota
	// OutcomeRejected means the destination was reachable but returned a
	// non-success status.
	OutcomeRejected
	// OutcomeUnreachable means no connection could be established. Expected
	// during partial rollouts while a consumer is not listening yet.
	OutcomeUnreachable
	// OutcomeMalformed means the record could not be serialized or the
	// request could not be built.
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeMalformed:
		return "malformed"
	}
	return "unknown"
}

// Result describes what happened to one delivery attempt.
type Result struct {
	Outcome    Outcome
	StatusCode int // set when Outcome is OutcomeRejected
	Err        error
}

// ErrUnknownDestination signals a destination name absent from the registry.
// This is a configuration fault, not a network failure; no request is made.
var ErrUnknownDestination = errors.New("unknown destination")

// Sender delivers one indication to a named destination. A non-nil error
// means the attempt was misconfigured and nothing was sent; otherwise the
// Result classifies the attempt. Implementations never retry.
type Sender interface {
	Send(ctx context.Context, destination string, ind telemetry.Indication) (Result, error)
}

// Envelope is the JSONL representation of one emitted indication, used by
// the file sender and replayed by the replay command.
type Envelope struct {
	Destination string          `json:"destination"`
	Kind        string          `json:"kind"`
	Timestamp   time.Time       `json:"ts"`
	Payload     json.RawMessage `json:"payload"`
}

func newEnvelope(destination string, ind telemetry.Indication) (Envelope, error) {
	payload, err := json.Marshal(ind)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Destination: destination,
		Kind:        ind.Kind(),
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}, nil
}
