package domain

import "time"

// QueueOperations aggregates per-queue activity derived from one decoded
// statistics or accounting message. Built fresh on every request.
type QueueOperations struct {
	QueueName string `json:"queue_name"`

	GetCount        int64 `json:"get_count"`
	PutCount        int64 `json:"put_count"`
	BrowseCount     int64 `json:"browse_count"`
	OpenInputCount  int64 `json:"open_input_count"`
	OpenOutputCount int64 `json:"open_output_count"`
	EnqueueCount    int64 `json:"enqueue_count"`
	DequeueCount    int64 `json:"dequeue_count"`
	CurrentDepth    int64 `json:"current_depth"`
	MaxDepth        int64 `json:"max_depth"`
	PutBytes        int64 `json:"put_bytes"`
	GetBytes        int64 `json:"get_bytes"`
	PutTime         int64 `json:"put_time"`
	GetTime         int64 `json:"get_time"`

	HasReaders bool `json:"has_readers"`
	HasWriters bool `json:"has_writers"`
}

// ConnectionInfo identifies the application, peer and channel behind one
// accounting message. Code fields are resolved to readable names.
type ConnectionInfo struct {
	ChannelName     string `json:"channel_name"`
	ConnectionName  string `json:"connection_name"`
	ApplicationName string `json:"application_name"`
	UserID          string `json:"user_id"`

	ConnectCount    int64 `json:"connect_count"`
	DisconnectCount int64 `json:"disconnect_count"`

	ChannelType   string `json:"channel_type"`
	TransportType string `json:"transport_type"`
	ChannelStatus string `json:"channel_status"`
}

// QueueOperationsFact is one queue-operations record tagged with the
// collection cycle that produced it, ready for the sink and exporters.
type QueueOperationsFact struct {
	CycleID      string    `json:"cycle_id"`
	QueueManager string    `json:"queue_manager"`
	Timestamp    time.Time `json:"timestamp"`
	MessageKind  string    `json:"message_kind"`
	Corrupted    bool      `json:"corrupted"`

	// Owner labels from the queue map; Owner falls back to the queue
	// name when the queue is unmapped.
	Owner string `json:"owner"`
	Team  string `json:"team,omitempty"`

	QueueOperations
}

// ConnectionFact is one connection-info record tagged with the cycle,
// combined with the identity salvaged from the raw buffer.
type ConnectionFact struct {
	CycleID      string    `json:"cycle_id"`
	QueueManager string    `json:"queue_manager"`
	Timestamp    time.Time `json:"timestamp"`
	Corrupted    bool      `json:"corrupted"`

	// Owner label from the channel map; falls back to the channel name
	// when the channel is unmapped.
	Owner string `json:"owner"`

	ConnectionInfo
	Identity IdentityInfo `json:"identity"`
}

// Extraction methods reported by the identity fallback chain.
const (
	ExtractionStructured = "structured_pcf"
	ExtractionPattern    = "pattern_matching"
	ExtractionBruteForce = "brute_force"
	ExtractionNone       = "none"
)

// IdentityInfo holds application identity and peer address pulled out of
// a raw buffer, possibly one the structured decoder gave up on. Method
// records which fallback tier produced the result.
type IdentityInfo struct {
	ApplicationName string `json:"application_name"`
	ClientAddress   string `json:"client_address"`
	ConnectionName  string `json:"connection_name"`
	ChannelName     string `json:"channel_name"`
	UserID          string `json:"user_id"`

	Method string `json:"extraction_method"`
	Found  bool   `json:"found"`
}
