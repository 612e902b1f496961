package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"e2sim/internal/config"
	"e2sim/internal/logging"
	"e2sim/internal/sim"
)

var (
	simPrintOnly  bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simLogFile    string
	simSeed       int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time E2 traffic simulator",
	Long:  "simulate starts the indication loop, delivering KPI, handover, QoE, and control records to the configured xApps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		nodeID := os.Getenv("E2_NODE_ID")
		if nodeID == "" {
			nodeID = cfg.NodeID
		}
		if nodeID == "" {
			nodeID = "e2node-" + uuid.New().String()
		}

		sender, cleanup, err := newSenders(cfg, senderOptions{
			printOnly: simPrintOnly,
			tui:       simTUI,
			logFile:   simLogFile,
			nodeID:    nodeID,
		})
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		var rng *rand.Rand
		if simSeed != 0 {
			rng = rand.New(rand.NewSource(simSeed))
		}

		logger := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		simulator := sim.NewSimulator(nodeID, cfg, sender, tickInterval, rng)

		done := make(chan struct{})
		go func() {
			simulator.Run(ctx)
			close(done)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		// Let an in-flight tick finish before exiting.
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
		logger.Info("E2 simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print indications to STDOUT instead of delivering over HTTP")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Show a live delivery dashboard")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/e2sim.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/e2sim.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 0, "Tick interval override (e.g. 500ms, 2s); defaults to the configured interval")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export emitted indications (JSONL)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed for reproducible runs (0 = time-based)")
}
