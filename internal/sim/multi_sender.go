package sim

import (
	"context"

	"e2sim/internal/telemetry"
)

// MultiSender fans one indication out to several senders. The first sender
// is authoritative: its result and error are returned, so the real delivery
// outcome is unaffected by secondary sinks (log files, archives, TUI feeds).
type MultiSender struct {
	senders []Sender
}

// NewMultiSender creates a MultiSender. The primary sender comes first.
func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders}
}

// Send implements Sender.
func (mw *MultiSender) Send(ctx context.Context, destination string, ind telemetry.Indication) (Result, error) {
	var primary Result
	var primaryErr error
	for i, s := range mw.senders {
		res, err := s.Send(ctx, destination, ind)
		if i == 0 {
			primary, primaryErr = res, err
		}
	}
	return primary, primaryErr
}
