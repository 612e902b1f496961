package sim

import (
	"context"
	"encoding/json"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"e2sim/internal/telemetry"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeSender archives every emitted indication to a GreptimeDB table.
// Used as a secondary sink behind MultiSender, so archive failures never
// affect the real delivery outcome.
type GreptimeSender struct {
	client greptimeClient
	nodeID string
	table  string
}

// NewGreptimeSender connects to GreptimeDB at endpoint ("host" or
// "host:port", gRPC port 4001 by default).
func NewGreptimeSender(endpoint, database, nodeID string) (*GreptimeSender, error) {
	host := endpoint
	port := 4001
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeSender{client: client, nodeID: nodeID, table: "e2_indications"}, nil
}

// Send implements Sender.
func (w *GreptimeSender) Send(ctx context.Context, destination string, ind telemetry.Indication) (Result, error) {
	payload, err := json.Marshal(ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	if err := w.buildSchema(tbl); err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}

	env, err := newEnvelope(destination, ind)
	if err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}
	if err := tbl.AddRow(w.nodeID, destination, ind.Kind(), string(payload), env.Timestamp); err != nil {
		return Result{Outcome: OutcomeMalformed, Err: err}, nil
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		return Result{Outcome: OutcomeUnreachable, Err: err}, nil
	}
	return Result{Outcome: OutcomeDelivered}, nil
}

func (w *GreptimeSender) buildSchema(tbl *table.Table) error {
	if err := tbl.AddTagColumn("node_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("destination", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("payload", types.STRING); err != nil {
		return err
	}
	return tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
}
