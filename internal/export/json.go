package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// jsonDocument is the on-the-wire layout of the JSON snapshot
type jsonDocument struct {
	CollectionInfo jsonCollectionInfo           `json:"collection_info"`
	Queues         []domain.QueueOperationsFact `json:"queues"`
	Connections    []domain.ConnectionFact      `json:"connections"`
	Summary        Summary                      `json:"summary"`
}

type jsonCollectionInfo struct {
	Timestamp       time.Time `json:"timestamp"`
	CycleID         string    `json:"cycle_id"`
	QueueManager    string    `json:"queue_manager"`
	StatisticsCount int       `json:"statistics_count"`
	AccountingCount int       `json:"accounting_count"`
	CorruptCount    int       `json:"corrupt_count"`
}

// RenderJSON produces an indented JSON snapshot document
func RenderJSON(snap *Snapshot) ([]byte, error) {
	doc := jsonDocument{
		CollectionInfo: jsonCollectionInfo{
			Timestamp:       snap.Timestamp,
			CycleID:         snap.CycleID,
			QueueManager:    snap.QueueManager,
			StatisticsCount: snap.StatisticsCount,
			AccountingCount: snap.AccountingCount,
			CorruptCount:    snap.CorruptCount,
		},
		Queues:      snap.Queues,
		Connections: snap.Connections,
		Summary:     snap.Summary,
	}
	if doc.Queues == nil {
		doc.Queues = []domain.QueueOperationsFact{}
	}
	if doc.Connections == nil {
		doc.Connections = []domain.ConnectionFact{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
