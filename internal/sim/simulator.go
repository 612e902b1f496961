// Simulator orchestrating indication generation and delivery ticks
package sim

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"e2sim/internal/config"
	"e2sim/internal/logging"
	"e2sim/internal/telemetry"
)

// Simulator drives the fixed-interval generation loop. One background
// goroutine runs the loop; the only state shared with the control side is
// the running flag and the context used to stop it.
type Simulator struct {
	nodeID       string
	gen          *telemetry.Generator
	sender       Sender
	tickInterval time.Duration
	handoverProb float64
	controlProb  float64
	routes       config.Routes
	rand         *rand.Rand
	running      atomic.Bool
}

// NewSimulator builds a simulator from the loaded configuration. A nil rand
// source is seeded from the current time; pass a seeded source for
// reproducible runs.
func NewSimulator(nodeID string, cfg *config.SimulationConfig, sender Sender, tickInterval time.Duration, r *rand.Rand) *Simulator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if tickInterval <= 0 {
		tickInterval = cfg.TickInterval.Std()
	}
	return &Simulator{
		nodeID:       nodeID,
		gen:          telemetry.NewGenerator(cfg.Registry(), r),
		sender:       sender,
		tickInterval: tickInterval,
		handoverProb: cfg.HandoverProbability,
		controlProb:  cfg.ControlProbability,
		routes:       cfg.Routes,
		rand:         r,
	}
}

// Running reports whether the loop is active.
func (s *Simulator) Running() bool {
	return s.running.Load()
}

// Run starts the simulation loop and stops when the context is done.
// Shutdown takes effect at the next loop iteration boundary.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator",
		"node_id", s.nodeID,
		"tick_interval", s.tickInterval,
		"handover_probability", s.handoverProb,
		"control_probability", s.controlProb)

	s.running.Store(true)
	defer s.running.Store(false)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// tick generates one round of indications and delivers them sequentially:
// KPI always, handover with configured probability, QoE always, control with
// configured probability. No delivery failure stops the remaining steps.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	kpi := s.gen.KPIIndication()
	s.deliver(ctx, s.routes.KPI, kpi)
	log.Info("generated KPI indication", "cell_id", kpi.CellID, "ue_id", kpi.UEID)

	if telemetry.Chance(s.rand, s.handoverProb) {
		ho, err := s.gen.HandoverEvent()
		if err != nil {
			log.Error("handover generation failed", "err", err)
		} else {
			s.deliver(ctx, s.routes.Handover, ho)
			log.Info("generated handover event", "source_cell", ho.SourceCell, "target_cell", ho.TargetCell)
		}
	}

	qoe := s.gen.QoEReport()
	s.deliver(ctx, s.routes.QoE, qoe)
	log.Info("generated QoE report", "ue_id", qoe.UEID, "qoe_score", qoe.Metrics.QoEScore)

	if telemetry.Chance(s.rand, s.controlProb) {
		ce := s.gen.ControlEvent()
		s.deliver(ctx, s.routes.Control, ce)
		log.Info("generated control event", "event_type", ce.EventType)
	}
}

// deliver sends one record and logs the outcome at the severity matching its
// class. Configuration errors and malformed records log at error level,
// rejections at warn, unreachable destinations at debug.
func (s *Simulator) deliver(ctx context.Context, destination string, ind telemetry.Indication) {
	log := logging.FromContext(ctx)

	res, err := s.sender.Send(ctx, destination, ind)
	if err != nil {
		log.Error("delivery misconfigured", "destination", destination, "kind", ind.Kind(), "err", err)
		return
	}
	switch res.Outcome {
	case OutcomeDelivered:
		log.Debug("delivered", "destination", destination, "kind", ind.Kind())
	case OutcomeRejected:
		log.Warn("delivery rejected", "destination", destination, "kind", ind.Kind(), "status", res.StatusCode)
	case OutcomeUnreachable:
		log.Debug("destination unreachable", "destination", destination, "kind", ind.Kind(), "err", res.Err)
	case OutcomeMalformed:
		log.Error("delivery failed", "destination", destination, "kind", ind.Kind(), "err", res.Err)
	}
}
