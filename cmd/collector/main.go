package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mqwatch/mq-stats-collector/internal/checkpoint"
	"github.com/mqwatch/mq-stats-collector/internal/clickhouse"
	"github.com/mqwatch/mq-stats-collector/internal/config"
	"github.com/mqwatch/mq-stats-collector/internal/export"
	"github.com/mqwatch/mq-stats-collector/internal/mapping"
	"github.com/mqwatch/mq-stats-collector/internal/mqreader"
	"github.com/mqwatch/mq-stats-collector/internal/observability"
	"github.com/mqwatch/mq-stats-collector/internal/service"
	"github.com/mqwatch/mq-stats-collector/internal/writer"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	observability.InitLogger(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("version", version).
		Str("source", cfg.Source).
		Str("queue_manager", cfg.QueueManager).
		Msg("Starting MQ stats collector")

	// Initialize tracer (if enabled)
	shutdownTracer, err := observability.InitTracer(observability.TracerConfig{
		ServiceName:    "mq-stats-collector",
		ServiceVersion: version,
		Endpoint:       cfg.TracingEndpoint,
		Protocol:       cfg.TracingProtocol,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer shutdownTracer(context.Background())
	}

	// Message source
	source, err := buildSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create message source")
	}
	defer source.Close()

	// ClickHouse writer, unless running read-only
	var batchWriter writer.BatchWriter
	if !cfg.ReadOnly {
		chClient, err := clickhouse.NewClient(clickhouse.Options{
			Host:     cfg.ClickHouseHost,
			Port:     cfg.ClickHousePort,
			Database: cfg.ClickHouseDB,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to ClickHouse")
		}
		defer chClient.Close()

		if err := chClient.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure ClickHouse schema")
		}

		batchWriter = writer.NewClickHouseWriter(chClient.Conn(), writer.BatchConfig{
			MaxSize:      cfg.BatchMaxSize,
			FlushTimeout: cfg.BatchFlushTimeout.Milliseconds(),
		})
		defer batchWriter.Close()
	} else {
		log.Info().Msg("Read-only mode: ClickHouse writes disabled")
	}

	// Checkpoint store
	var checkpoints checkpoint.Store
	if cfg.CheckpointPath != "" {
		checkpoints, err = checkpoint.NewBoltDBStore(cfg.CheckpointPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open checkpoint store")
		}
		defer checkpoints.Close()
	}

	// Queue ownership map
	queueMap := mapping.Empty()
	if cfg.QueueMapPath != "" {
		queueMap, err = mapping.LoadQueueMap(cfg.QueueMapPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.QueueMapPath).Msg("Failed to load queue map")
		}
	}

	// Metrics endpoint
	exporter := export.NewServer(cfg.MetricsAddr)
	go func() {
		if err := exporter.Start(); err != nil {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()

	collector, err := service.NewCollector(service.CollectorOptions{
		Source:       source,
		Writer:       batchWriter,
		Checkpoints:  checkpoints,
		QueueMap:     queueMap,
		QueueManager: cfg.QueueManager,
		Interval:     cfg.CollectInterval,
		MaxCycles:    cfg.MaxCycles,
		Exporter:     exporter,
		ExportDir:    cfg.ExportDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create collector")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- collector.Start(ctx)
	}()

	select {
	case <-sigChan:
		log.Info().Msg("Received shutdown signal")
		collector.Stop()
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Collector error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := exporter.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping metrics server")
	}

	log.Info().Msg("Collector stopped")
}

// buildSource creates the configured message source
func buildSource(cfg *config.Config) (mqreader.MessageSource, error) {
	switch cfg.Source {
	case config.SourceAMQP:
		return mqreader.NewAMQPSource(mqreader.AMQPConfig{
			URL:             cfg.AMQPURL,
			StatisticsQueue: cfg.StatisticsQueue,
			AccountingQueue: cfg.AccountingQueue,
		})
	case config.SourceSpool:
		return mqreader.NewSpoolSource(cfg.SpoolDirs)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
