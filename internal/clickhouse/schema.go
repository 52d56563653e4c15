package clickhouse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaStatements creates the database and the three tables the batch
// writer inserts into. Column order must match the writer's Append
// order: batches are prepared without an explicit column list.
var schemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS mqstats`,

	`CREATE TABLE IF NOT EXISTS mqstats.queue_operations (
		Timestamp       DateTime64(3),
		CycleID         String,
		QueueManager    String,
		QueueName       String,
		Owner           String,
		Team            String,
		MessageKind     String,
		Corrupted       Bool,
		GetCount        Int64,
		PutCount        Int64,
		BrowseCount     Int64,
		OpenInputCount  Int64,
		OpenOutputCount Int64,
		EnqueueCount    Int64,
		DequeueCount    Int64,
		CurrentDepth    Int64,
		MaxDepth        Int64,
		PutBytes        Int64,
		GetBytes        Int64,
		PutTime         Int64,
		GetTime         Int64,
		HasReaders      Bool,
		HasWriters      Bool
	) ENGINE = MergeTree()
	ORDER BY (QueueManager, QueueName, Timestamp)`,

	`CREATE TABLE IF NOT EXISTS mqstats.connections (
		Timestamp             DateTime64(3),
		CycleID               String,
		QueueManager          String,
		ChannelName           String,
		Owner                 String,
		ConnectionName        String,
		ApplicationName       String,
		UserID                String,
		ConnectCount          Int64,
		DisconnectCount       Int64,
		ChannelType           String,
		TransportType         String,
		ChannelStatus         String,
		Corrupted             Bool,
		IdentityApplication   String,
		IdentityClientAddress String,
		IdentityMethod        String,
		IdentityFound         Bool
	) ENGINE = MergeTree()
	ORDER BY (QueueManager, ChannelName, Timestamp)`,

	`CREATE TABLE IF NOT EXISTS mqstats.collector_metrics (
		Timestamp          DateTime64(3),
		CycleID            String,
		QueueManager       String,
		StatisticsMessages Int64,
		AccountingMessages Int64,
		CorruptMessages    Int64,
		ReadersIdentified  Int64,
		WritersIdentified  Int64,
		TotalGets          Int64,
		TotalPuts          Int64,
		TotalBrowses       Int64,
		StartTime          DateTime64(3),
		EndTime            DateTime64(3),
		DecodeTimeMs       UInt64,
		WriteTimeMs        UInt64,
		ErrorCount         UInt32
	) ENGINE = MergeTree()
	ORDER BY (QueueManager, Timestamp)`,
}

// EnsureSchema creates the sink database and tables if they do not
// exist. Called once at startup, before the first batch is written.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := c.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	log.Info().
		Int("statements", len(schemaStatements)).
		Msg("ClickHouse schema ensured")

	return nil
}
