package checkpoint

import (
	"context"
	"time"
)

// QueueCheckpoint is the persisted cumulative state for one queue, kept
// across restarts so drained deltas are not double-reported.
type QueueCheckpoint struct {
	QueueName      string    `json:"queue_name"`
	TotalGets      int64     `json:"total_gets"`
	TotalPuts      int64     `json:"total_puts"`
	TotalBrowses   int64     `json:"total_browses"`
	LastCollection time.Time `json:"last_collection"`
	LastCycleID    string    `json:"last_cycle_id"`
}

// Store persists per-queue checkpoints between collection cycles
type Store interface {
	// Get retrieves the checkpoint for a queue; a zero-value checkpoint
	// with the queue name filled in is returned for unseen queues.
	Get(ctx context.Context, queueManager, queueName string) (QueueCheckpoint, error)

	// Put stores the checkpoint for a queue
	Put(ctx context.Context, queueManager string, cp QueueCheckpoint) error

	// List returns all stored checkpoints for a queue manager
	List(ctx context.Context, queueManager string) ([]QueueCheckpoint, error)

	// Close releases the underlying database
	Close() error
}
