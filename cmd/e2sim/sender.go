package main

import (
	"os"

	"golang.org/x/term"

	"e2sim/internal/config"
	"e2sim/internal/sim"
)

type senderOptions struct {
	printOnly bool
	tui       bool
	logFile   string
	nodeID    string
}

// newSenders wires the delivery pipeline based on flags and env vars. It
// returns the sender and a cleanup function to close any resources.
func newSenders(cfg *config.SimulationConfig, opts senderOptions) (sim.Sender, func(), error) {
	cleanup := func() {}

	sender := baseSender(cfg, opts)

	// Optional secondary sinks; the base sender stays authoritative.
	var secondaries []sim.Sender
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		gw, err := sim.NewGreptimeSender(endpoint, database, opts.nodeID)
		if err != nil {
			return nil, nil, err
		}
		secondaries = append(secondaries, gw)
	}
	if opts.logFile != "" {
		fw, err := sim.NewFileSender(opts.logFile)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { fw.Close() }
		secondaries = append(secondaries, fw)
	}
	if len(secondaries) > 0 {
		sender = sim.NewMultiSender(append([]sim.Sender{sender}, secondaries...)...)
	}

	if opts.tui {
		tw := sim.NewTUISender(cfg, sender)
		inner := cleanup
		cleanup = func() {
			tw.Close()
			inner()
		}
		sender = tw
	}
	return sender, cleanup, nil
}

// baseSender chooses HTTP delivery or a stdout sender for print-only mode.
func baseSender(cfg *config.SimulationConfig, opts senderOptions) sim.Sender {
	if !opts.printOnly {
		return sim.NewHTTPSender(cfg.Destinations, cfg.RequestTimeout.Std())
	}
	if !opts.tui && term.IsTerminal(int(os.Stdout.Fd())) {
		return sim.NewColorStdoutSender(cfg)
	}
	return sim.NewJSONStdoutSender()
}
