// Indication record types sent toward xApp consumers.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"
)

// Indication is implemented by every record the simulator emits.
// Kind identifies the record type for logging and log-file envelopes.
type Indication interface {
	Kind() string
}

// Record kinds.
const (
	KindKPI      = "kpi_indication"
	KindHandover = "handover_event"
	KindQoE      = "qoe_report"
	KindControl  = "control_event"
)

// Event type and trigger literals.
const (
	IndicationTypeReport = "report"
	EventHandoverRequest = "handover_request"
	// TriggerA3Event marks a coverage-triggered handover cause.
	TriggerA3Event = "A3_event"
)

// Control event types.
const (
	ControlLoadBalancing          = "load_balancing"
	ControlInterferenceMitigation = "interference_mitigation"
	ControlPowerControl           = "power_control"
)

// Registry is the sampling universe for generators: configured cell
// identifiers and the UE identifier range. Read-only after construction.
type Registry struct {
	Cells []string
	UEs   []int
}

// FormatUE renders a UE identifier the way consumers expect it on the wire.
func FormatUE(n int) string {
	return fmt.Sprintf("ue_%03d", n)
}

// Measurement is one named KPI value. Order within a KPIIndication is fixed.
type Measurement struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// KPIIndication is an E2SM-KPM style report with exactly ten measurements.
type KPIIndication struct {
	Timestamp      time.Time     `json:"timestamp"`
	CellID         string        `json:"cell_id"`
	UEID           string        `json:"ue_id"`
	Measurements   []Measurement `json:"measurements"`
	IndicationSN   int64         `json:"indication_sn"`
	IndicationType string        `json:"indication_type"`
}

func (KPIIndication) Kind() string { return KindKPI }

// HandoverEvent reports a coverage-triggered handover request.
// TargetCell is always distinct from SourceCell.
type HandoverEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  string    `json:"event_type"`
	UEID       string    `json:"ue_id"`
	SourceCell string    `json:"source_cell"`
	TargetCell string    `json:"target_cell"`
	RSRP       float64   `json:"rsrp"`
	RSRQ       float64   `json:"rsrq"`
	Trigger    string    `json:"trigger"`
}

func (HandoverEvent) Kind() string { return KindHandover }

// QoEMetrics carries sampled link metrics plus the derived QoE score.
type QoEMetrics struct {
	VideoBitrateMbps  float64 `json:"video_bitrate_mbps"`
	PacketLossPercent float64 `json:"packet_loss_percent"`
	LatencyMs         float64 `json:"latency_ms"`
	JitterMs          float64 `json:"jitter_ms"`
	QoEScore          float64 `json:"qoe_score"`
}

// QoEReport is a per-UE quality-of-experience record.
type QoEReport struct {
	Timestamp time.Time  `json:"timestamp"`
	UEID      string     `json:"ue_id"`
	CellID    string     `json:"cell_id"`
	Metrics   QoEMetrics `json:"metrics"`
}

func (QoEReport) Kind() string { return KindQoE }

// TriggerCondition describes the cell load that triggered a control event.
type TriggerCondition struct {
	PRBUsage  float64 `json:"prb_usage"`
	ActiveUEs int     `json:"active_ues"`
}

// ControlEvent is a RAN control action request.
type ControlEvent struct {
	Timestamp        time.Time        `json:"timestamp"`
	CellID           string           `json:"cell_id"`
	EventType        string           `json:"event_type"`
	TriggerCondition TriggerCondition `json:"trigger_condition"`
}

func (ControlEvent) Kind() string { return KindControl }

// RawIndication wraps an already-serialized record, used when replaying
// log files where the concrete type is only known by its kind tag.
type RawIndication struct {
	RecordKind string
	Body       json.RawMessage
}

func (r RawIndication) Kind() string { return r.RecordKind }

// MarshalJSON emits the stored body unchanged.
func (r RawIndication) MarshalJSON() ([]byte, error) {
	if len(r.Body) == 0 {
		return []byte("null"), nil
	}
	return r.Body, nil
}
