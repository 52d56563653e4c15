// Package mqreader delivers raw PCF payload buffers to the collector.
// It owns connection lifecycle and end-of-queue detection; decoding is
// someone else's job.
package mqreader

import (
	"context"
	"time"
)

// Message kinds reported by sources. A hint from the transport, not a
// decode result: the header decoder has the final say.
const (
	KindStatistics = "statistics"
	KindAccounting = "accounting"
)

// RawMessage is one raw PCF payload delivered by a source
type RawMessage struct {
	Kind      string // source-level hint: statistics or accounting
	Body      []byte
	Timestamp time.Time
	Origin    string // queue name or file path the payload came from
}

// MessageSource delivers raw PCF buffers with drain semantics: each
// Drain reads everything currently available and returns, so a
// collection cycle sees a consistent snapshot.
type MessageSource interface {
	Drain(ctx context.Context) ([]RawMessage, error)
	Close() error
}
