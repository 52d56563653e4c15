package export

import (
	"fmt"
	"strings"
)

// RenderLineProtocol produces influx-style line protocol, one line per
// queue fact plus one collection summary line. Timestamps are in
// nanoseconds as the format requires.
func RenderLineProtocol(snap *Snapshot) string {
	var b strings.Builder
	ts := snap.Timestamp.UnixNano()

	for _, q := range snap.Queues {
		fmt.Fprintf(&b, "mq_queue,queue=%s,queue_manager=%s ", escapeTag(q.QueueName), escapeTag(snap.QueueManager))
		fmt.Fprintf(&b, "get_count=%di,put_count=%di,browse_count=%di,current_depth=%di,max_depth=%di,has_readers=%di,has_writers=%di %d\n",
			q.GetCount, q.PutCount, q.BrowseCount, q.CurrentDepth, q.MaxDepth,
			boolInt(q.HasReaders), boolInt(q.HasWriters), ts)
	}

	for _, c := range snap.Connections {
		fmt.Fprintf(&b, "mq_connection,application=%s,queue_manager=%s ", escapeTag(c.ApplicationName), escapeTag(snap.QueueManager))
		fmt.Fprintf(&b, "connect_count=%di,disconnect_count=%di %d\n",
			c.ConnectCount, c.DisconnectCount, ts)
	}

	fmt.Fprintf(&b, "mq_collection,queue_manager=%s ", escapeTag(snap.QueueManager))
	fmt.Fprintf(&b, "statistics_messages=%di,accounting_messages=%di,corrupt_messages=%di,readers=%di,writers=%di %d\n",
		snap.StatisticsCount, snap.AccountingCount, snap.CorruptCount,
		snap.Summary.ReadersIdentified, snap.Summary.WritersIdentified, ts)

	return b.String()
}

// escapeTag escapes the three characters line protocol treats as
// delimiters in tag values
func escapeTag(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, " ", `\ `)
	s = strings.ReplaceAll(s, "=", `\=`)
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
