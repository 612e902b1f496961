package telemetry

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrTooFewCells is returned when a handover is requested with fewer than
// two configured cells.
var ErrTooFewCells = errors.New("handover requires at least two cells")

// Generator synthesizes indication records from the configured registry.
// The random source and clock are injectable for reproducible runs.
type Generator struct {
	reg  Registry
	rand *rand.Rand
	now  func() time.Time
}

// NewGenerator creates a Generator. A nil rand source is seeded from the
// current time.
func NewGenerator(reg Registry, r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{reg: reg, rand: r, now: time.Now}
}

// KPIIndication generates an E2SM-KPM report for a random cell/UE pair.
// The ten measurements are always present, in this order.
func (g *Generator) KPIIndication() KPIIndication {
	ts := g.now()
	return KPIIndication{
		Timestamp: ts,
		CellID:    Pick(g.rand, g.reg.Cells),
		UEID:      FormatUE(Pick(g.rand, g.reg.UEs)),
		Measurements: []Measurement{
			{Name: "DRB.PacketLossDl", Value: Uniform(g.rand, 0.1, 5.0)},
			{Name: "DRB.PacketLossUl", Value: Uniform(g.rand, 0.1, 5.0)},
			{Name: "DRB.UEThpDl", Value: Uniform(g.rand, 10.0, 100.0)},
			{Name: "DRB.UEThpUl", Value: Uniform(g.rand, 5.0, 50.0)},
			{Name: "RRU.PrbUsedDl", Value: Uniform(g.rand, 30.0, 85.0)},
			{Name: "RRU.PrbUsedUl", Value: Uniform(g.rand, 20.0, 70.0)},
			{Name: "UE.RSRP", Value: Uniform(g.rand, -120.0, -80.0)},
			{Name: "UE.RSRQ", Value: Uniform(g.rand, -15.0, -5.0)},
			{Name: "UE.SINR", Value: Uniform(g.rand, 5.0, 25.0)},
			{Name: "RRC.ConnEstabSucc", Value: Uniform(g.rand, 95.0, 99.9)},
		},
		// Wall-clock milliseconds; duplicates possible within one ms.
		IndicationSN:   ts.UnixMilli(),
		IndicationType: IndicationTypeReport,
	}
}

// HandoverEvent generates a handover request between two distinct cells.
func (g *Generator) HandoverEvent() (HandoverEvent, error) {
	if len(g.reg.Cells) < 2 {
		return HandoverEvent{}, ErrTooFewCells
	}
	src := g.rand.Intn(len(g.reg.Cells))
	dst := g.rand.Intn(len(g.reg.Cells) - 1)
	if dst >= src {
		dst++
	}
	return HandoverEvent{
		Timestamp:  g.now(),
		EventType:  EventHandoverRequest,
		UEID:       FormatUE(Pick(g.rand, g.reg.UEs)),
		SourceCell: g.reg.Cells[src],
		TargetCell: g.reg.Cells[dst],
		RSRP:       Uniform(g.rand, -120.0, -80.0),
		RSRQ:       Uniform(g.rand, -15.0, -5.0),
		Trigger:    TriggerA3Event,
	}, nil
}

// QoEReport generates per-UE link metrics with a derived QoE score.
func (g *Generator) QoEReport() QoEReport {
	bitrate := Uniform(g.rand, 2.0, 10.0)
	loss := Uniform(g.rand, 0.0, 2.0)
	latency := Uniform(g.rand, 10.0, 100.0)
	jitter := Uniform(g.rand, 1.0, 20.0)

	return QoEReport{
		Timestamp: g.now(),
		UEID:      FormatUE(Pick(g.rand, g.reg.UEs)),
		CellID:    Pick(g.rand, g.reg.Cells),
		Metrics: QoEMetrics{
			VideoBitrateMbps:  bitrate,
			PacketLossPercent: loss,
			LatencyMs:         latency,
			JitterMs:          jitter,
			QoEScore:          QoEScore(loss, latency, jitter),
		},
	}
}

// QoEScore derives the 0-100 quality score from packet loss, latency, and
// jitter. Loss costs 5 points per percent, latency above 50ms costs half a
// point per ms, jitter costs 2 points per ms.
func QoEScore(lossPercent, latencyMs, jitterMs float64) float64 {
	score := 100.0
	score -= lossPercent * 5.0
	score -= math.Max(0, (latencyMs-50.0)/2.0)
	score -= jitterMs * 2.0
	return math.Max(0.0, math.Min(100.0, score))
}

// ControlEvent generates a RAN control action for a random cell.
func (g *Generator) ControlEvent() ControlEvent {
	return ControlEvent{
		Timestamp: g.now(),
		CellID:    Pick(g.rand, g.reg.Cells),
		EventType: Pick(g.rand, []string{
			ControlLoadBalancing,
			ControlInterferenceMitigation,
			ControlPowerControl,
		}),
		TriggerCondition: TriggerCondition{
			PRBUsage:  Uniform(g.rand, 70.0, 95.0),
			ActiveUEs: IntBetween(g.rand, 10, 50),
		},
	}
}
