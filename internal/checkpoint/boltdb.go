package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

const (
	bucketName = "checkpoints"
)

// BoltDBStore implements Store using bbolt
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore creates a new bbolt checkpoint store
func NewBoltDBStore(dbPath string) (*BoltDBStore, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		// A held file lock usually means a previous collector was killed
		// without graceful shutdown.
		return nil, fmt.Errorf("failed to open boltdb (file may be locked by another process): %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info().
		Str("db_path", dbPath).
		Msg("Checkpoint store initialized")

	return &BoltDBStore{db: db}, nil
}

// Get retrieves the checkpoint for a queue
func (s *BoltDBStore) Get(ctx context.Context, queueManager, queueName string) (QueueCheckpoint, error) {
	cp := QueueCheckpoint{QueueName: queueName}

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		val := b.Get([]byte(makeKey(queueManager, queueName)))
		if val == nil {
			return nil
		}
		return json.Unmarshal(val, &cp)
	})
	if err != nil {
		return QueueCheckpoint{}, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return cp, nil
}

// Put stores the checkpoint for a queue
func (s *BoltDBStore) Put(ctx context.Context, queueManager string, cp QueueCheckpoint) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		val, err := json.Marshal(cp)
		if err != nil {
			return fmt.Errorf("failed to marshal checkpoint: %w", err)
		}
		return b.Put([]byte(makeKey(queueManager, cp.QueueName)), val)
	})
	if err != nil {
		return fmt.Errorf("failed to put checkpoint: %w", err)
	}

	log.Debug().
		Str("queue_manager", queueManager).
		Str("queue", cp.QueueName).
		Int64("total_gets", cp.TotalGets).
		Int64("total_puts", cp.TotalPuts).
		Msg("Checkpoint updated")

	return nil
}

// List returns all stored checkpoints for a queue manager
func (s *BoltDBStore) List(ctx context.Context, queueManager string) ([]QueueCheckpoint, error) {
	var result []QueueCheckpoint
	prefix := queueManager + ":"

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.ForEach(func(k, v []byte) error {
			if !strings.HasPrefix(string(k), prefix) {
				return nil
			}
			var cp QueueCheckpoint
			if err := json.Unmarshal(v, &cp); err != nil {
				log.Warn().
					Str("key", string(k)).
					Err(err).
					Msg("Skipping unreadable checkpoint entry")
				return nil
			}
			result = append(result, cp)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	return result, nil
}

// Close closes the bbolt database
func (s *BoltDBStore) Close() error {
	log.Info().Msg("Closing checkpoint store")
	return s.db.Close()
}

// makeKey creates a composite key from queue manager and queue name
func makeKey(queueManager, queueName string) string {
	return fmt.Sprintf("%s:%s", queueManager, queueName)
}
