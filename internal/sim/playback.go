package sim

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"e2sim/internal/telemetry"
)

// ReplayLog re-delivers envelopes from r through sender. A speed >0 scales
// the recorded inter-record gaps; speed <= 0 inserts no delay.
func ReplayLog(ctx context.Context, r io.Reader, sender Sender, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var env Envelope
		if err := dec.Decode(&env); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := env.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		ind := telemetry.RawIndication{RecordKind: env.Kind, Body: env.Payload}
		if _, err := sender.Send(ctx, env.Destination, ind); err != nil {
			return err
		}
		prev = env.Timestamp
	}
}

// ReplayLogFile opens a file and replays its envelopes.
func ReplayLogFile(ctx context.Context, path string, sender Sender, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, sender, speed)
}
