package export

import (
	"fmt"
	"sort"
	"strings"
)

// defaultNamespace prefixes every exported metric name
const defaultNamespace = "ibmmq"

var helpText = map[string]string{
	"queue_depth_current":           "Current depth of IBM MQ queue",
	"queue_depth_max":               "Maximum configured depth of IBM MQ queue",
	"queue_enqueue_count":           "Total number of messages enqueued to IBM MQ queue",
	"queue_dequeue_count":           "Total number of messages dequeued from IBM MQ queue",
	"queue_input_handles":           "Number of input handles open for IBM MQ queue",
	"queue_output_handles":          "Number of output handles open for IBM MQ queue",
	"queue_has_readers":             "Whether IBM MQ queue has active readers (1=yes, 0=no)",
	"queue_has_writers":             "Whether IBM MQ queue has active writers (1=yes, 0=no)",
	"mqi_puts_total":                "Total number of MQI PUT operations",
	"mqi_gets_total":                "Total number of MQI GET operations",
	"mqi_browses_total":             "Total number of MQI BROWSE operations",
	"connection_count":              "Number of connect operations recorded for the application",
	"last_collection_timestamp":     "Timestamp of the last successful collection",
	"statistics_messages_processed": "Total number of statistics messages processed",
	"accounting_messages_processed": "Total number of accounting messages processed",
	"corrupt_messages_detected":     "Total number of messages with corruption signatures",
}

type metricEntry struct {
	value  float64
	labels map[string]string
}

// PrometheusRenderer renders a snapshot in Prometheus text format
type PrometheusRenderer struct {
	namespace string
	metrics   map[string][]metricEntry
	order     []string
}

// NewPrometheusRenderer creates a renderer with the ibmmq namespace
func NewPrometheusRenderer() *PrometheusRenderer {
	return &PrometheusRenderer{namespace: defaultNamespace}
}

// Render produces the full exposition for one snapshot
func (r *PrometheusRenderer) Render(snap *Snapshot) string {
	r.metrics = make(map[string][]metricEntry)
	r.order = nil

	qm := snap.QueueManager

	for _, q := range snap.Queues {
		queueLabels := map[string]string{
			"queue":         q.QueueName,
			"queue_manager": qm,
		}
		r.add("queue_depth_current", float64(q.CurrentDepth), queueLabels)
		r.add("queue_depth_max", float64(q.MaxDepth), queueLabels)
		r.add("queue_enqueue_count", float64(q.EnqueueCount), queueLabels)
		r.add("queue_dequeue_count", float64(q.DequeueCount), queueLabels)
		r.add("queue_input_handles", float64(q.OpenInputCount), queueLabels)
		r.add("queue_output_handles", float64(q.OpenOutputCount), queueLabels)

		readerLabels := map[string]string{
			"queue":         q.QueueName,
			"queue_manager": qm,
			"application":   q.Owner,
		}
		r.add("queue_has_readers", boolValue(q.HasReaders), readerLabels)
		r.add("queue_has_writers", boolValue(q.HasWriters), readerLabels)
	}

	for _, c := range snap.Connections {
		appLabels := map[string]string{
			"queue_manager": qm,
			"application":   c.ApplicationName,
			"client_ip":     c.Identity.ClientAddress,
		}
		if c.ConnectCount > 0 {
			r.add("connection_count", float64(c.ConnectCount), appLabels)
		}
	}

	qmLabels := map[string]string{"queue_manager": qm}
	r.add("mqi_gets_total", float64(snap.Summary.TotalGets), qmLabels)
	r.add("mqi_puts_total", float64(snap.Summary.TotalPuts), qmLabels)
	r.add("mqi_browses_total", float64(snap.Summary.TotalBrowses), qmLabels)

	r.add("last_collection_timestamp", float64(snap.Timestamp.Unix()), qmLabels)
	r.add("statistics_messages_processed", float64(snap.StatisticsCount), qmLabels)
	r.add("accounting_messages_processed", float64(snap.AccountingCount), qmLabels)
	r.add("corrupt_messages_detected", float64(snap.CorruptCount), qmLabels)

	return r.format()
}

func (r *PrometheusRenderer) add(name string, value float64, labels map[string]string) {
	if _, seen := r.metrics[name]; !seen {
		r.order = append(r.order, name)
	}
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	r.metrics[name] = append(r.metrics[name], metricEntry{value: value, labels: copied})
}

func (r *PrometheusRenderer) format() string {
	var b strings.Builder

	for _, name := range r.order {
		fullName := r.namespace + "_" + name

		help, ok := helpText[name]
		if !ok {
			help = "IBM MQ metric " + name
		}
		fmt.Fprintf(&b, "# HELP %s %s\n", fullName, help)
		fmt.Fprintf(&b, "# TYPE %s gauge\n", fullName)

		for _, entry := range r.metrics[name] {
			fmt.Fprintf(&b, "%s%s %s\n", fullName, formatLabels(entry.labels), formatValue(entry.value))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatLabels renders a sorted, escaped label set
func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		escaped := strings.ReplaceAll(labels[k], `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		pairs = append(pairs, fmt.Sprintf(`%s="%s"`, k, escaped))
	}

	return "{" + strings.Join(pairs, ",") + "}"
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
