package mqreader

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/mqwatch/mq-stats-collector/internal/retry"
)

// AMQPConfig configures the AMQP bridge source
type AMQPConfig struct {
	URL             string
	StatisticsQueue string // "" disables the statistics stream
	AccountingQueue string // "" disables the accounting stream
}

// AMQPSource consumes PCF payloads relayed from the queue manager's
// admin queues onto an AMQP broker. It talks AMQP only; the queue
// manager's own wire protocol stays on the bridge side.
type AMQPSource struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     AMQPConfig
}

// NewAMQPSource dials the broker and declares the configured queues
func NewAMQPSource(cfg AMQPConfig) (*AMQPSource, error) {
	conn, err := retry.DoWithResult(context.Background(), retry.DefaultConfig(), func() (*amqp.Connection, error) {
		return amqp.Dial(cfg.URL)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to open channel: %w", err), conn.Close())
	}

	for _, queue := range []string{cfg.StatisticsQueue, cfg.AccountingQueue} {
		if queue == "" {
			continue
		}
		if _, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,   // args
		); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to declare queue %s: %w", queue, err), ch.Close(), conn.Close())
		}
	}

	log.Info().
		Str("statistics_queue", cfg.StatisticsQueue).
		Str("accounting_queue", cfg.AccountingQueue).
		Msg("Connected to AMQP broker")

	return &AMQPSource{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

// Drain reads every message currently queued on both streams. Empty
// queues are not an error; an empty cycle returns an empty slice.
func (s *AMQPSource) Drain(ctx context.Context) ([]RawMessage, error) {
	var messages []RawMessage

	streams := []struct {
		queue string
		kind  string
	}{
		{s.cfg.StatisticsQueue, KindStatistics},
		{s.cfg.AccountingQueue, KindAccounting},
	}

	for _, stream := range streams {
		if stream.queue == "" {
			continue
		}
		count := 0
		for {
			if ctx.Err() != nil {
				return messages, ctx.Err()
			}

			delivery, ok, err := s.channel.Get(stream.queue, true)
			if err != nil {
				return messages, fmt.Errorf("failed to get from %s: %w", stream.queue, err)
			}
			if !ok {
				break // queue is empty
			}

			ts := delivery.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}

			messages = append(messages, RawMessage{
				Kind:      stream.kind,
				Body:      delivery.Body,
				Timestamp: ts,
				Origin:    stream.queue,
			})
			count++
		}

		log.Debug().
			Str("queue", stream.queue).
			Int("messages", count).
			Msg("Drained queue")
	}

	return messages, nil
}

// Close closes the channel and connection
func (s *AMQPSource) Close() error {
	var chanErr error
	if s.channel != nil {
		chanErr = s.channel.Close()
	}
	if s.conn != nil {
		return errors.Join(chanErr, s.conn.Close())
	}
	return chanErr
}
