package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mqwatch/mq-stats-collector/internal/checkpoint"
	"github.com/mqwatch/mq-stats-collector/internal/domain"
	"github.com/mqwatch/mq-stats-collector/internal/export"
	"github.com/mqwatch/mq-stats-collector/internal/extract"
	"github.com/mqwatch/mq-stats-collector/internal/mapping"
	"github.com/mqwatch/mq-stats-collector/internal/mqreader"
	"github.com/mqwatch/mq-stats-collector/internal/pcf"
	"github.com/mqwatch/mq-stats-collector/internal/writer"
)

// Collector runs the collection loop: drain the source, decode PCF
// payloads, extract facts, enrich them with queue-map ownership, persist
// them and publish the renderable snapshot.
type Collector struct {
	source      mqreader.MessageSource
	writer      writer.BatchWriter // nil in read-only mode
	checkpoints checkpoint.Store   // nil when checkpointing is disabled
	queueMap    *mapping.QueueMap
	exporter    *export.Server // nil when no metrics endpoint is configured

	queueManager string
	interval     time.Duration
	maxCycles    int // 0 means run until stopped
	exportDir    string

	fileRenderer *export.PrometheusRenderer
	stopChan     chan struct{}
}

// CollectorOptions configures a Collector
type CollectorOptions struct {
	Source      mqreader.MessageSource
	Writer      writer.BatchWriter
	Checkpoints checkpoint.Store
	QueueMap    *mapping.QueueMap

	QueueManager string
	Interval     time.Duration
	MaxCycles    int
	Exporter     *export.Server
	ExportDir    string
}

// NewCollector creates a collector
func NewCollector(opts CollectorOptions) (*Collector, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("message source is required")
	}
	if opts.QueueManager == "" {
		return nil, fmt.Errorf("queue manager name is required")
	}

	queueMap := opts.QueueMap
	if queueMap == nil {
		queueMap = mapping.Empty()
	}

	return &Collector{
		source:       opts.Source,
		writer:       opts.Writer,
		checkpoints:  opts.Checkpoints,
		queueMap:     queueMap,
		exporter:     opts.Exporter,
		queueManager: opts.QueueManager,
		interval:     opts.Interval,
		maxCycles:    opts.MaxCycles,
		exportDir:    opts.ExportDir,
		fileRenderer: export.NewPrometheusRenderer(),
		stopChan:     make(chan struct{}),
	}, nil
}

// Start runs the collection loop until the context is cancelled, Stop is
// called or the configured cycle limit is reached
func (c *Collector) Start(ctx context.Context) error {
	log.Info().
		Str("queue_manager", c.queueManager).
		Dur("interval", c.interval).
		Int("max_cycles", c.maxCycles).
		Bool("read_only", c.writer == nil).
		Msg("Starting collector")

	// Run immediately on startup
	cycles := 1
	c.runCycle(ctx)
	if c.maxCycles > 0 && cycles >= c.maxCycles {
		log.Info().Int("cycles", cycles).Msg("Cycle limit reached")
		return nil
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCycle(ctx)
			cycles++
			if c.maxCycles > 0 && cycles >= c.maxCycles {
				log.Info().Int("cycles", cycles).Msg("Cycle limit reached")
				return nil
			}
		case <-c.stopChan:
			log.Info().Msg("Collector stopped")
			return nil
		case <-ctx.Done():
			log.Info().Msg("Collector context cancelled")
			return ctx.Err()
		}
	}
}

// Stop stops the collection loop
func (c *Collector) Stop() {
	close(c.stopChan)
}

// runCycle performs one collection cycle
func (c *Collector) runCycle(ctx context.Context) {
	cycleID := uuid.New().String()
	now := time.Now()

	ctx, span := startSpan(ctx, "collector.cycle",
		attribute.String("cycle_id", cycleID),
		attribute.String("queue_manager", c.queueManager),
	)

	metrics := &domain.CollectionMetrics{
		CycleID:      cycleID,
		QueueManager: c.queueManager,
		Timestamp:    now,
		StartTime:    now,
	}

	log.Info().
		Str("cycle_id", cycleID).
		Msg("Starting collection cycle")

	messages, drainErr := c.source.Drain(ctx)
	if drainErr != nil {
		log.Error().Err(drainErr).Msg("Failed to drain message source")
		metrics.ErrorCount++
	}

	decodeStart := time.Now()
	queueFacts, connFacts := c.decodeAll(messages, cycleID, metrics)
	metrics.DecodeTimeMs = uint64(time.Since(decodeStart).Milliseconds())

	for _, fact := range queueFacts {
		metrics.TotalGets += fact.GetCount
		metrics.TotalPuts += fact.PutCount
		metrics.TotalBrowses += fact.BrowseCount
		if fact.HasReaders {
			metrics.ReadersIdentified++
		}
		if fact.HasWriters {
			metrics.WritersIdentified++
		}
	}

	c.updateCheckpoints(ctx, queueFacts, cycleID, metrics)

	if c.writer != nil {
		writeStart := time.Now()
		c.persist(ctx, queueFacts, connFacts, metrics)
		metrics.WriteTimeMs = uint64(time.Since(writeStart).Milliseconds())
	}

	metrics.EndTime = time.Now()

	if c.writer != nil {
		if err := c.writer.WriteCollectionMetrics(ctx, metrics); err != nil {
			log.Error().Err(err).Msg("Failed to write collection metrics")
			metrics.ErrorCount++
		}
	}

	c.publish(queueFacts, connFacts, metrics)

	log.Info().
		Str("cycle_id", cycleID).
		Int("messages", len(messages)).
		Int64("statistics", metrics.StatisticsMessages).
		Int64("accounting", metrics.AccountingMessages).
		Int64("corrupt", metrics.CorruptMessages).
		Int64("readers", metrics.ReadersIdentified).
		Int64("writers", metrics.WritersIdentified).
		Uint32("errors", metrics.ErrorCount).
		Dur("duration", time.Since(now)).
		Msg("Collection cycle completed")

	endSpanWithError(span, drainErr, "collection cycle")
}

// decodeAll decodes every drained payload and extracts the facts it
// carries. Decoding never aborts the cycle: undecodable payloads are
// counted as corrupt and skipped.
func (c *Collector) decodeAll(messages []mqreader.RawMessage, cycleID string, metrics *domain.CollectionMetrics) ([]domain.QueueOperationsFact, []domain.ConnectionFact) {
	var queueFacts []domain.QueueOperationsFact
	var connFacts []domain.ConnectionFact

	for _, raw := range messages {
		msg, err := pcf.DecodeMessage(raw.Body)
		if err != nil {
			log.Warn().
				Err(err).
				Str("origin", raw.Origin).
				Int("size", len(raw.Body)).
				Msg("Payload too short to decode")
			metrics.CorruptMessages++
			continue
		}

		switch msg.Header.Kind {
		case domain.KindStatistics:
			metrics.StatisticsMessages++
		case domain.KindAccounting:
			metrics.AccountingMessages++
		}
		if msg.Header.Corrupted {
			metrics.CorruptMessages++
		}

		ops := extract.QueueOperations(msg)
		if ops.QueueName != "unknown" || hasActivity(ops) {
			queueFacts = append(queueFacts, domain.QueueOperationsFact{
				CycleID:         cycleID,
				QueueManager:    c.queueManager,
				Timestamp:       raw.Timestamp,
				MessageKind:     string(msg.Header.Kind),
				Corrupted:       msg.Header.Corrupted,
				Owner:           c.queueMap.OwnerForQueue(ops.QueueName),
				Team:            c.queueMap.TeamForQueue(ops.QueueName),
				QueueOperations: ops,
			})
		}

		// Connection facts come from accounting traffic; corrupted
		// payloads still go through the identity salvage chain.
		if msg.Header.Kind == domain.KindAccounting || msg.Header.Corrupted {
			conn := extract.ConnectionInfo(msg)
			identity := extract.Identity(raw.Body)
			if identity.Found || conn.ApplicationName != "unknown" || conn.ChannelName != "unknown" {
				connFacts = append(connFacts, domain.ConnectionFact{
					CycleID:        cycleID,
					QueueManager:   c.queueManager,
					Timestamp:      raw.Timestamp,
					Corrupted:      msg.Header.Corrupted,
					Owner:          c.queueMap.OwnerForChannel(conn.ChannelName),
					ConnectionInfo: conn,
					Identity:       identity,
				})
			}
		}
	}

	return queueFacts, connFacts
}

func hasActivity(ops domain.QueueOperations) bool {
	return ops.GetCount > 0 || ops.PutCount > 0 || ops.BrowseCount > 0 ||
		ops.EnqueueCount > 0 || ops.DequeueCount > 0 ||
		ops.OpenInputCount > 0 || ops.OpenOutputCount > 0
}

// updateCheckpoints folds the cycle's deltas into the persisted
// cumulative totals
func (c *Collector) updateCheckpoints(ctx context.Context, facts []domain.QueueOperationsFact, cycleID string, metrics *domain.CollectionMetrics) {
	if c.checkpoints == nil {
		return
	}

	for _, fact := range facts {
		cp, err := c.checkpoints.Get(ctx, c.queueManager, fact.QueueName)
		if err != nil {
			log.Error().Err(err).Str("queue", fact.QueueName).Msg("Failed to load checkpoint")
			metrics.ErrorCount++
			continue
		}

		cp.TotalGets += fact.GetCount
		cp.TotalPuts += fact.PutCount
		cp.TotalBrowses += fact.BrowseCount
		cp.LastCollection = fact.Timestamp
		cp.LastCycleID = cycleID

		if err := c.checkpoints.Put(ctx, c.queueManager, cp); err != nil {
			log.Error().Err(err).Str("queue", fact.QueueName).Msg("Failed to store checkpoint")
			metrics.ErrorCount++
		}
	}
}

// persist hands the cycle's facts to the batch writer
func (c *Collector) persist(ctx context.Context, queueFacts []domain.QueueOperationsFact, connFacts []domain.ConnectionFact, metrics *domain.CollectionMetrics) {
	ctx, span := startSpan(ctx, "collector.flush",
		attribute.Int("queue_facts", len(queueFacts)),
		attribute.Int("connection_facts", len(connFacts)),
	)

	for i := range queueFacts {
		if err := c.writer.WriteQueueOperations(ctx, &queueFacts[i]); err != nil {
			log.Error().Err(err).Str("queue", queueFacts[i].QueueName).Msg("Failed to write queue fact")
			metrics.ErrorCount++
		}
	}
	for i := range connFacts {
		if err := c.writer.WriteConnection(ctx, &connFacts[i]); err != nil {
			log.Error().Err(err).Msg("Failed to write connection fact")
			metrics.ErrorCount++
		}
	}

	err := c.writer.Flush(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to flush batch writer")
		metrics.ErrorCount++
	}
	endSpanWithError(span, err, "sink flush")
}

// publish builds the cycle snapshot and pushes it to the metrics
// endpoint and the export directory
func (c *Collector) publish(queueFacts []domain.QueueOperationsFact, connFacts []domain.ConnectionFact, metrics *domain.CollectionMetrics) {
	snap := &export.Snapshot{
		QueueManager:    c.queueManager,
		Timestamp:       metrics.Timestamp,
		CycleID:         metrics.CycleID,
		StatisticsCount: int(metrics.StatisticsMessages),
		AccountingCount: int(metrics.AccountingMessages),
		CorruptCount:    int(metrics.CorruptMessages),
		Queues:          queueFacts,
		Connections:     connFacts,
	}
	snap.BuildSummary()

	if c.exporter != nil {
		c.exporter.Publish(snap)
	}

	if c.exportDir != "" {
		c.writeExportFiles(snap)
	}
}

// writeExportFiles writes the three renderings of the snapshot into the
// export directory, overwriting the previous cycle's files
func (c *Collector) writeExportFiles(snap *export.Snapshot) {
	prom := c.fileRenderer.Render(snap)
	if err := os.WriteFile(filepath.Join(c.exportDir, "mq_stats.prom"), []byte(prom), 0644); err != nil {
		log.Error().Err(err).Msg("Failed to write prometheus export file")
	}

	jsonDoc, err := export.RenderJSON(snap)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render JSON export")
	} else if err := os.WriteFile(filepath.Join(c.exportDir, "mq_stats.json"), jsonDoc, 0644); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON export file")
	}

	influx := export.RenderLineProtocol(snap)
	if err := os.WriteFile(filepath.Join(c.exportDir, "mq_stats.influx"), []byte(influx), 0644); err != nil {
		log.Error().Err(err).Msg("Failed to write line protocol export file")
	}
}
