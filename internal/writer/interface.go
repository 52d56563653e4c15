package writer

import (
	"context"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// BatchWriter persists collected facts in batches
type BatchWriter interface {
	// WriteQueueOperations adds a queue-operations fact to the batch
	WriteQueueOperations(ctx context.Context, fact *domain.QueueOperationsFact) error

	// WriteConnection adds a connection fact to the batch
	WriteConnection(ctx context.Context, fact *domain.ConnectionFact) error

	// WriteCollectionMetrics writes a cycle summary immediately
	WriteCollectionMetrics(ctx context.Context, metrics *domain.CollectionMetrics) error

	// Flush forces writing all pending facts
	Flush(ctx context.Context) error

	// Close flushes pending facts and closes the writer
	Close() error
}

// BatchConfig configures batch behavior
type BatchConfig struct {
	MaxSize      int   // Maximum records per batch
	FlushTimeout int64 // Maximum milliseconds to wait before flush
}
