// Sender implementations printing indications to STDOUT
package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"e2sim/internal/config"
	"e2sim/internal/telemetry"
)

// JSONStdoutSender prints one envelope per indication as a JSON line.
type JSONStdoutSender struct {
	out io.Writer
}

// NewJSONStdoutSender creates a JSONStdoutSender writing to os.Stdout.
func NewJSONStdoutSender() *JSONStdoutSender {
	return &JSONStdoutSender{out: os.Stdout}
}

// Send implements Sender.
func (w *JSONStdoutSender) Send(_ context.Context, destination string, ind telemetry.Indication) (Result, error) {
	env, err := newEnvelope(destination, ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	data, _ := json.Marshal(env)
	fmt.Fprintln(w.out, string(data))
	return Result{Outcome: OutcomeDelivered}, nil
}

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var kindPalette = map[string]string{
	telemetry.KindKPI:      colorGreen,
	telemetry.KindHandover: colorYellow,
	telemetry.KindQoE:      colorCyan,
	telemetry.KindControl:  colorMagenta,
}

// ColorStdoutSender prints human-friendly, colorized indication lines,
// prefixed once with a configuration overview.
type ColorStdoutSender struct {
	cfg  *config.SimulationConfig
	out  io.Writer
	once sync.Once
}

// NewColorStdoutSender creates a ColorStdoutSender writing to os.Stdout.
func NewColorStdoutSender(cfg *config.SimulationConfig) *ColorStdoutSender {
	return &ColorStdoutSender{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutSender) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Cells:\t%d\n", len(w.cfg.Cells))
	fmt.Fprintf(tw, "UEs:\t%d\n", w.cfg.UECount)
	fmt.Fprintf(tw, "Tick Interval:\t%s\n", w.cfg.TickInterval.Std())
	fmt.Fprintf(tw, "Handover Probability:\t%.2f\n", w.cfg.HandoverProbability)
	fmt.Fprintf(tw, "Control Probability:\t%.2f\n", w.cfg.ControlProbability)
	tw.Flush()

	fmt.Fprintln(w.out, "\nDestinations:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tEndpoint\n")
	for _, d := range w.cfg.Destinations {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.URL())
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Send implements Sender.
func (w *ColorStdoutSender) Send(_ context.Context, destination string, ind telemetry.Indication) (Result, error) {
	w.once.Do(w.printOverview)

	payload, err := json.Marshal(ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	kindColor, ok := kindPalette[ind.Kind()]
	if !ok {
		kindColor = colorBlue
	}
	fmt.Fprintf(w.out, "%s[%s]%s %s%-16s%s %s->%s%s %s\n",
		colorGray, time.Now().Format(time.RFC3339), colorReset,
		kindColor, ind.Kind(), colorReset,
		colorBlue, destination, colorReset,
		string(payload))
	return Result{Outcome: OutcomeDelivered}, nil
}
