package sim

import (
	"context"
	"encoding/json"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"e2sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeSenderArchivesIndication(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeSender{client: m, nodeID: "e2node-test", table: "e2_indications"}

	ind := sampleIndication()
	res, err := w.Send(context.Background(), "ran-control", ind)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	rows := m.table.GetRows()
	if len(rows.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows.Rows))
	}
	values := rows.Rows[0].Values
	if got := values[0].GetStringValue(); got != "e2node-test" {
		t.Errorf("node_id = %q", got)
	}
	if got := values[1].GetStringValue(); got != "ran-control" {
		t.Errorf("destination = %q", got)
	}
	if got := values[2].GetStringValue(); got != telemetry.KindControl {
		t.Errorf("kind = %q", got)
	}

	var payload telemetry.ControlEvent
	if err := json.Unmarshal([]byte(values[3].GetStringValue()), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.CellID != "cell_001" {
		t.Errorf("payload cell_id = %q", payload.CellID)
	}
}
