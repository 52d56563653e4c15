package service

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/mqwatch/mq-stats-collector/internal/checkpoint"
	"github.com/mqwatch/mq-stats-collector/internal/domain"
	"github.com/mqwatch/mq-stats-collector/internal/mapping"
	"github.com/mqwatch/mq-stats-collector/internal/mqreader"
	"github.com/mqwatch/mq-stats-collector/internal/pcf"
)

// fakeSource delivers a fixed set of payloads once, then drains empty
type fakeSource struct {
	messages []mqreader.RawMessage
	drained  bool
}

func (s *fakeSource) Drain(_ context.Context) ([]mqreader.RawMessage, error) {
	if s.drained {
		return nil, nil
	}
	s.drained = true
	return s.messages, nil
}

func (s *fakeSource) Close() error { return nil }

// memWriter collects written facts in memory
type memWriter struct {
	mu      sync.Mutex
	queues  []domain.QueueOperationsFact
	conns   []domain.ConnectionFact
	metrics []domain.CollectionMetrics
	flushes int
}

func (w *memWriter) WriteQueueOperations(_ context.Context, fact *domain.QueueOperationsFact) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queues = append(w.queues, *fact)
	return nil
}

func (w *memWriter) WriteConnection(_ context.Context, fact *domain.ConnectionFact) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conns = append(w.conns, *fact)
	return nil
}

func (w *memWriter) WriteCollectionMetrics(_ context.Context, m *domain.CollectionMetrics) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.metrics = append(w.metrics, *m)
	return nil
}

func (w *memWriter) Flush(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushes++
	return nil
}

func (w *memWriter) Close() error { return nil }

// memStore is an in-memory checkpoint store
type memStore struct {
	mu  sync.Mutex
	cps map[string]checkpoint.QueueCheckpoint
}

func newMemStore() *memStore {
	return &memStore{cps: make(map[string]checkpoint.QueueCheckpoint)}
}

func (s *memStore) Get(_ context.Context, queueManager, queueName string) (checkpoint.QueueCheckpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cp, ok := s.cps[queueManager+":"+queueName]; ok {
		return cp, nil
	}
	return checkpoint.QueueCheckpoint{QueueName: queueName}, nil
}

func (s *memStore) Put(_ context.Context, queueManager string, cp checkpoint.QueueCheckpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cps[queueManager+":"+cp.QueueName] = cp
	return nil
}

func (s *memStore) List(_ context.Context, _ string) ([]checkpoint.QueueCheckpoint, error) {
	return nil, nil
}

func (s *memStore) Close() error { return nil }

func encodeHeader(structType, command, paramCount int32) []byte {
	fields := []int32{structType, 36, 1, command, 1, 1, 0, 0, paramCount}
	buf := make([]byte, 0, 36)
	for _, f := range fields {
		buf = binary.BigEndian.AppendUint32(buf, uint32(f))
	}
	return buf
}

func appendIntegerParam(buf []byte, id uint32, value int32) []byte {
	buf = binary.BigEndian.AppendUint32(buf, id)
	buf = binary.BigEndian.AppendUint32(buf, uint32(pcf.TypeInteger))
	buf = binary.BigEndian.AppendUint32(buf, uint32(value))
	return buf
}

func appendStringParam(buf []byte, id uint32, value string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, id)
	buf = binary.BigEndian.AppendUint32(buf, uint32(pcf.TypeString))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(value)))
	buf = append(buf, value...)
	return buf
}

func statisticsPayload(queue string, gets, puts int32) []byte {
	buf := encodeHeader(pcf.TypeStatistics, pcf.CmdStatisticsQ, 4)
	buf = appendStringParam(buf, 2016, queue)
	buf = appendIntegerParam(buf, 52, gets)
	buf = appendIntegerParam(buf, 51, puts)
	buf = appendIntegerParam(buf, 50, 1) // open input handle
	return buf
}

func accountingPayload(application, connection string) []byte {
	buf := encodeHeader(pcf.TypeAccounting, pcf.CmdAccountingQ, 2)
	buf = appendStringParam(buf, 2024, application)
	buf = appendStringParam(buf, 3506, connection)
	return buf
}

func testCollector(t *testing.T, src mqreader.MessageSource, w *memWriter, cps checkpoint.Store) *Collector {
	t.Helper()
	c, err := NewCollector(CollectorOptions{
		Source:       src,
		Writer:       w,
		Checkpoints:  cps,
		QueueManager: "TEST_QM",
		Interval:     time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c
}

func TestRunCycleDecodesAndPersists(t *testing.T) {
	src := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindStatistics, Body: statisticsPayload("ORDER.REQUEST", 5, 10), Timestamp: time.Now()},
		{Kind: mqreader.KindAccounting, Body: accountingPayload("billing.exe", "10.0.0.5(1414)"), Timestamp: time.Now()},
	}}
	w := &memWriter{}
	c := testCollector(t, src, w, newMemStore())

	c.runCycle(context.Background())

	if len(w.queues) != 1 {
		t.Fatalf("queue facts written = %d, want 1", len(w.queues))
	}
	q := w.queues[0]
	if q.QueueName != "ORDER.REQUEST" || q.GetCount != 5 || q.PutCount != 10 {
		t.Errorf("unexpected queue fact: %+v", q)
	}
	if !q.HasReaders || !q.HasWriters {
		t.Errorf("HasReaders=%v HasWriters=%v, want both true", q.HasReaders, q.HasWriters)
	}
	if q.QueueManager != "TEST_QM" || q.CycleID == "" {
		t.Errorf("fact not stamped with cycle identity: %+v", q)
	}

	if len(w.conns) != 1 {
		t.Fatalf("connection facts written = %d, want 1", len(w.conns))
	}
	conn := w.conns[0]
	if conn.ApplicationName != "billing.exe" {
		t.Errorf("ApplicationName = %q, want billing.exe", conn.ApplicationName)
	}
	if conn.Identity.Method != domain.ExtractionStructured {
		t.Errorf("identity method = %q, want %q", conn.Identity.Method, domain.ExtractionStructured)
	}

	if len(w.metrics) != 1 {
		t.Fatalf("metrics written = %d, want 1", len(w.metrics))
	}
	m := w.metrics[0]
	if m.StatisticsMessages != 1 || m.AccountingMessages != 1 || m.CorruptMessages != 0 {
		t.Errorf("message counts = %d/%d/%d, want 1/1/0",
			m.StatisticsMessages, m.AccountingMessages, m.CorruptMessages)
	}
	if m.TotalGets != 5 || m.TotalPuts != 10 {
		t.Errorf("totals = gets %d puts %d, want 5/10", m.TotalGets, m.TotalPuts)
	}
	if w.flushes != 1 {
		t.Errorf("flushes = %d, want 1", w.flushes)
	}
}

func TestConnectionFactCarriesChannelOwner(t *testing.T) {
	payload := encodeHeader(pcf.TypeAccounting, pcf.CmdAccountingQ, 2)
	payload = appendStringParam(payload, 3501, "TO.GATEWAY")
	payload = appendStringParam(payload, 2024, "billing.exe")

	src := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindAccounting, Body: payload, Timestamp: time.Now()},
	}}
	w := &memWriter{}
	queueMap := mapping.Empty()
	queueMap.Channels["TO.GATEWAY"] = mapping.ChannelInfo{Application: "gateway"}

	c, err := NewCollector(CollectorOptions{
		Source:       src,
		Writer:       w,
		QueueMap:     queueMap,
		QueueManager: "TEST_QM",
		Interval:     time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.runCycle(context.Background())

	if len(w.conns) != 1 {
		t.Fatalf("connection facts = %d, want 1", len(w.conns))
	}
	if got := w.conns[0].Owner; got != "gateway" {
		t.Errorf("Owner = %q, want gateway from channel map", got)
	}

	// Unmapped channels fall back to the channel name itself.
	second := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindAccounting, Body: payload, Timestamp: time.Now()},
	}}
	c2 := testCollector(t, second, w, newMemStore())
	c2.runCycle(context.Background())

	if len(w.conns) != 2 {
		t.Fatalf("connection facts = %d, want 2", len(w.conns))
	}
	if got := w.conns[1].Owner; got != "TO.GATEWAY" {
		t.Errorf("Owner = %q, want channel name fallback", got)
	}
}

func TestRunCycleCountsCorruptMessages(t *testing.T) {
	corrupt := encodeHeader(369098752, pcf.CmdAccountingQ, 1)
	corrupt = append(corrupt, []byte("report_job.py\x00")...)

	src := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindAccounting, Body: corrupt, Timestamp: time.Now()},
		{Kind: mqreader.KindStatistics, Body: []byte{0x01, 0x02}, Timestamp: time.Now()},
	}}
	w := &memWriter{}
	c := testCollector(t, src, w, newMemStore())

	c.runCycle(context.Background())

	if len(w.metrics) != 1 {
		t.Fatalf("metrics written = %d, want 1", len(w.metrics))
	}
	if got := w.metrics[0].CorruptMessages; got != 2 {
		t.Errorf("CorruptMessages = %d, want 2", got)
	}

	// The corrupted accounting payload still yields an identity through
	// the salvage chain.
	if len(w.conns) != 1 {
		t.Fatalf("connection facts = %d, want 1", len(w.conns))
	}
	if w.conns[0].Identity.Method != domain.ExtractionPattern {
		t.Errorf("identity method = %q, want %q", w.conns[0].Identity.Method, domain.ExtractionPattern)
	}
	if !w.conns[0].Corrupted {
		t.Error("connection fact from corrupted payload not flagged")
	}
}

func TestRunCycleAccumulatesCheckpoints(t *testing.T) {
	store := newMemStore()
	w := &memWriter{}

	first := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindStatistics, Body: statisticsPayload("APP.IN", 3, 7), Timestamp: time.Now()},
	}}
	c := testCollector(t, first, w, store)
	c.runCycle(context.Background())

	second := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindStatistics, Body: statisticsPayload("APP.IN", 2, 1), Timestamp: time.Now()},
	}}
	c2 := testCollector(t, second, w, store)
	c2.runCycle(context.Background())

	cp, err := store.Get(context.Background(), "TEST_QM", "APP.IN")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cp.TotalGets != 5 || cp.TotalPuts != 8 {
		t.Errorf("cumulative totals = gets %d puts %d, want 5/8", cp.TotalGets, cp.TotalPuts)
	}
	if cp.LastCycleID == "" {
		t.Error("LastCycleID not stamped")
	}
}

func TestRunCycleReadOnly(t *testing.T) {
	src := &fakeSource{messages: []mqreader.RawMessage{
		{Kind: mqreader.KindStatistics, Body: statisticsPayload("APP.IN", 1, 1), Timestamp: time.Now()},
	}}
	c, err := NewCollector(CollectorOptions{
		Source:       src,
		QueueManager: "TEST_QM",
		Interval:     time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	// Must not panic without a writer or checkpoint store.
	c.runCycle(context.Background())
}

func TestStartHonorsCycleLimit(t *testing.T) {
	src := &fakeSource{}
	w := &memWriter{}
	c, err := NewCollector(CollectorOptions{
		Source:       src,
		Writer:       w,
		QueueManager: "TEST_QM",
		Interval:     time.Millisecond,
		MaxCycles:    2,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v, want nil after cycle limit", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not stop at cycle limit")
	}

	w.mu.Lock()
	cycles := len(w.metrics)
	w.mu.Unlock()
	if cycles != 2 {
		t.Errorf("cycles run = %d, want 2", cycles)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	src := &fakeSource{}
	c, err := NewCollector(CollectorOptions{
		Source:       src,
		QueueManager: "TEST_QM",
		Interval:     time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not stop on cancellation")
	}
}

func TestNewCollectorValidation(t *testing.T) {
	if _, err := NewCollector(CollectorOptions{QueueManager: "QM"}); err == nil {
		t.Error("expected error without a source")
	}
	if _, err := NewCollector(CollectorOptions{Source: &fakeSource{}}); err == nil {
		t.Error("expected error without a queue manager")
	}
}
