package sim

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"e2sim/internal/telemetry"
)

// FileSender appends every indication to a JSONL file as an Envelope,
// preserving the destination so runs can be replayed later.
type FileSender struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileSender creates (truncates) the log file at path.
func NewFileSender(path string) (*FileSender, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSender{file: f, enc: json.NewEncoder(f)}, nil
}

// Send implements Sender.
func (w *FileSender) Send(_ context.Context, destination string, ind telemetry.Indication) (Result, error) {
	env, err := newEnvelope(destination, ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(env); err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	return Result{Outcome: OutcomeDelivered}, nil
}

// Close closes the underlying file.
func (w *FileSender) Close() error {
	return w.file.Close()
}
