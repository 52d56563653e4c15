package domain

import "time"

// CollectionMetrics summarizes one collection cycle for observability
// and for the collector_metrics table.
type CollectionMetrics struct {
	CycleID      string // UUID, shared by all facts of the cycle
	QueueManager string
	Timestamp    time.Time

	StatisticsMessages int64
	AccountingMessages int64
	CorruptMessages    int64

	ReadersIdentified int64
	WritersIdentified int64
	TotalGets         int64
	TotalPuts         int64
	TotalBrowses      int64

	StartTime    time.Time
	EndTime      time.Time
	DecodeTimeMs uint64
	WriteTimeMs  uint64
	ErrorCount   uint32
}
