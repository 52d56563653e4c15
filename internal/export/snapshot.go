// Package export renders collected facts for external consumers: a
// Prometheus text exposition, a JSON snapshot document and an
// influx-style line protocol, plus the HTTP endpoint serving them.
package export

import (
	"time"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// Snapshot is the renderable result of one collection cycle
type Snapshot struct {
	QueueManager    string    `json:"queue_manager"`
	Timestamp       time.Time `json:"timestamp"`
	CycleID         string    `json:"cycle_id"`
	StatisticsCount int       `json:"statistics_count"`
	AccountingCount int       `json:"accounting_count"`
	CorruptCount    int       `json:"corrupt_count"`

	Queues      []domain.QueueOperationsFact `json:"-"`
	Connections []domain.ConnectionFact      `json:"-"`

	Summary Summary `json:"-"`
}

// Summary aggregates the cycle for quick inspection
type Summary struct {
	TotalMessages     int   `json:"total_messages"`
	ReadersIdentified int   `json:"readers_identified"`
	WritersIdentified int   `json:"writers_identified"`
	TotalGets         int64 `json:"total_gets"`
	TotalPuts         int64 `json:"total_puts"`
	TotalBrowses      int64 `json:"total_browses"`
}

// BuildSummary derives the summary from the snapshot's facts
func (s *Snapshot) BuildSummary() {
	summary := Summary{
		TotalMessages: s.StatisticsCount + s.AccountingCount,
	}
	for _, q := range s.Queues {
		if q.HasReaders {
			summary.ReadersIdentified++
		}
		if q.HasWriters {
			summary.WritersIdentified++
		}
		summary.TotalGets += q.GetCount
		summary.TotalPuts += q.PutCount
		summary.TotalBrowses += q.BrowseCount
	}
	s.Summary = summary
}
