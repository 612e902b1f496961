package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"e2sim/internal/config"
	"e2sim/internal/logging"
	"e2sim/internal/sim"
)

var (
	replayInput      string
	replaySpeed      float64
	replayPrintOnly  bool
	replayConfigPath string
	replaySchemaPath string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded indication log",
	Long:  "replay re-delivers indications from a JSONL log file to their original destinations, or to STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := config.Load(replayConfigPath, replaySchemaPath)
		if err != nil {
			return err
		}
		sender, cleanup, err := newSenders(cfg, senderOptions{printOnly: replayPrintOnly})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logging.New()))
		defer cancel()
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		return sim.ReplayLogFile(ctx, replayInput, sender, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to indication log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print indications to STDOUT instead of delivering over HTTP")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "config/e2sim.yaml", "Path to simulation configuration YAML")
	replayCmd.Flags().StringVar(&replaySchemaPath, "schema", "schemas/e2sim.cue", "Path to CUE schema file")
	replayCmd.MarkFlagRequired("input")
}
