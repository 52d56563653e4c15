package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// ClickHouseWriter writes collected facts to ClickHouse in batches
type ClickHouseWriter struct {
	conn clickhouse.Conn
	cfg  BatchConfig

	queueOpsBatch   []*domain.QueueOperationsFact
	connectionBatch []*domain.ConnectionFact

	lastFlush time.Time
}

// NewClickHouseWriter creates a new ClickHouse batch writer
func NewClickHouseWriter(conn clickhouse.Conn, cfg BatchConfig) *ClickHouseWriter {
	return &ClickHouseWriter{
		conn:            conn,
		cfg:             cfg,
		queueOpsBatch:   make([]*domain.QueueOperationsFact, 0, cfg.MaxSize),
		connectionBatch: make([]*domain.ConnectionFact, 0, cfg.MaxSize),
		lastFlush:       time.Now(),
	}
}

// WriteQueueOperations adds a queue-operations fact to the batch
func (w *ClickHouseWriter) WriteQueueOperations(ctx context.Context, fact *domain.QueueOperationsFact) error {
	factCopy := *fact
	w.queueOpsBatch = append(w.queueOpsBatch, &factCopy)

	if len(w.queueOpsBatch) >= w.cfg.MaxSize || time.Since(w.lastFlush).Milliseconds() >= w.cfg.FlushTimeout {
		return w.flushQueueOps(ctx)
	}
	return nil
}

// WriteConnection adds a connection fact to the batch
func (w *ClickHouseWriter) WriteConnection(ctx context.Context, fact *domain.ConnectionFact) error {
	factCopy := *fact
	w.connectionBatch = append(w.connectionBatch, &factCopy)

	if len(w.connectionBatch) >= w.cfg.MaxSize || time.Since(w.lastFlush).Milliseconds() >= w.cfg.FlushTimeout {
		return w.flushConnections(ctx)
	}
	return nil
}

// WriteCollectionMetrics writes a cycle summary immediately, bypassing
// the batch. One row per cycle is not worth buffering.
func (w *ClickHouseWriter) WriteCollectionMetrics(ctx context.Context, metrics *domain.CollectionMetrics) error {
	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO mqstats.collector_metrics")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	err = batch.Append(
		metrics.Timestamp,
		metrics.CycleID,
		metrics.QueueManager,
		metrics.StatisticsMessages,
		metrics.AccountingMessages,
		metrics.CorruptMessages,
		metrics.ReadersIdentified,
		metrics.WritersIdentified,
		metrics.TotalGets,
		metrics.TotalPuts,
		metrics.TotalBrowses,
		metrics.StartTime,
		metrics.EndTime,
		metrics.DecodeTimeMs,
		metrics.WriteTimeMs,
		metrics.ErrorCount,
	)
	if err != nil {
		return fmt.Errorf("failed to append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Debug().
		Str("cycle_id", metrics.CycleID).
		Int64("statistics_messages", metrics.StatisticsMessages).
		Int64("accounting_messages", metrics.AccountingMessages).
		Int64("corrupt_messages", metrics.CorruptMessages).
		Msg("Collection metrics written to ClickHouse")

	return nil
}

// Flush forces writing all pending facts
func (w *ClickHouseWriter) Flush(ctx context.Context) error {
	if err := w.flushQueueOps(ctx); err != nil {
		return err
	}
	return w.flushConnections(ctx)
}

// Close flushes and closes the writer
func (w *ClickHouseWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return w.Flush(ctx)
}

func (w *ClickHouseWriter) flushQueueOps(ctx context.Context) error {
	if len(w.queueOpsBatch) == 0 {
		return nil
	}

	snapshot := make([]*domain.QueueOperationsFact, len(w.queueOpsBatch))
	copy(snapshot, w.queueOpsBatch)
	w.queueOpsBatch = w.queueOpsBatch[:0]

	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO mqstats.queue_operations")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for i, fact := range snapshot {
		err := batch.Append(
			fact.Timestamp,
			fact.CycleID,
			fact.QueueManager,
			fact.QueueName,
			fact.Owner,
			fact.Team,
			fact.MessageKind,
			fact.Corrupted,
			fact.GetCount,
			fact.PutCount,
			fact.BrowseCount,
			fact.OpenInputCount,
			fact.OpenOutputCount,
			fact.EnqueueCount,
			fact.DequeueCount,
			fact.CurrentDepth,
			fact.MaxDepth,
			fact.PutBytes,
			fact.GetBytes,
			fact.PutTime,
			fact.GetTime,
			fact.HasReaders,
			fact.HasWriters,
		)
		if err != nil {
			return fmt.Errorf("failed to append to batch (record %d, queue=%s): %w", i, fact.QueueName, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch (%d records): %w", len(snapshot), err)
	}

	log.Info().
		Int("written", len(snapshot)).
		Msg("Flushed queue operations batch to ClickHouse")

	w.lastFlush = time.Now()
	return nil
}

func (w *ClickHouseWriter) flushConnections(ctx context.Context) error {
	if len(w.connectionBatch) == 0 {
		return nil
	}

	snapshot := make([]*domain.ConnectionFact, len(w.connectionBatch))
	copy(snapshot, w.connectionBatch)
	w.connectionBatch = w.connectionBatch[:0]

	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO mqstats.connections")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for i, fact := range snapshot {
		err := batch.Append(
			fact.Timestamp,
			fact.CycleID,
			fact.QueueManager,
			fact.ChannelName,
			fact.Owner,
			fact.ConnectionName,
			fact.ApplicationName,
			fact.UserID,
			fact.ConnectCount,
			fact.DisconnectCount,
			fact.ChannelType,
			fact.TransportType,
			fact.ChannelStatus,
			fact.Corrupted,
			fact.Identity.ApplicationName,
			fact.Identity.ClientAddress,
			fact.Identity.Method,
			fact.Identity.Found,
		)
		if err != nil {
			return fmt.Errorf("failed to append to batch (record %d, channel=%s): %w", i, fact.ChannelName, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch (%d records): %w", len(snapshot), err)
	}

	log.Info().
		Int("written", len(snapshot)).
		Msg("Flushed connections batch to ClickHouse")

	w.lastFlush = time.Now()
	return nil
}
