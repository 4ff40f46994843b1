// Package audit defines the sink to which successful ledger writes are
// reported. Audit is not a correctness concern of the ledger: sink
// failures are logged by the caller and never propagated.
package audit

import (
	"context"
	"time"

	"greenbook/pkg/logger"
)

// Entry is one audit record.
type Entry struct {
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Sink receives audit entries after a successful commit.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// LogSink writes audit entries to the structured log. Used when no
// durable audit store is configured.
type LogSink struct{}

func (LogSink) Record(ctx context.Context, entry Entry) error {
	logger.Info(ctx, "audit",
		"actor", entry.Actor,
		"action", entry.Action,
		"detail", entry.Detail,
	)
	return nil
}

var _ Sink = LogSink{}
