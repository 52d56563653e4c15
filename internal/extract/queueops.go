// Package extract derives structured facts from decoded PCF messages,
// and salvages application identity from buffers the structured decoder
// could not handle.
package extract

import (
	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// QueueOperations derives per-queue operation counters from a decoded
// message. One pass over the parameters in wire order; duplicates are
// last-write-wins, names outside the known set are ignored. Pure
// function, built fresh on every call.
func QueueOperations(msg *domain.Message) domain.QueueOperations {
	ops := domain.QueueOperations{
		QueueName: "unknown",
	}
	if msg == nil {
		return ops
	}

	for _, p := range msg.Parameters {
		switch p.Name {
		case "MQCA_Q_NAME", "MQCA_Q_NAME_ALT":
			if s := p.Text(); s != "" {
				ops.QueueName = s
			}
		case "MQIA_GET_COUNT":
			ops.GetCount = int64(p.Int())
		case "MQIA_PUT_COUNT":
			ops.PutCount = int64(p.Int())
		case "MQIA_BROWSE_COUNT":
			ops.BrowseCount = int64(p.Int())
		case "MQIA_OPEN_INPUT_COUNT", "MQIA_OPEN_INPUT_COUNT_ALT":
			ops.OpenInputCount = int64(p.Int())
		case "MQIA_OPEN_OUTPUT_COUNT", "MQIA_OPEN_OUTPUT_COUNT_ALT":
			ops.OpenOutputCount = int64(p.Int())
		case "MQIA_MSG_ENQ_COUNT", "MQIA_MSG_ENQ_COUNT_ALT":
			ops.EnqueueCount = int64(p.Int())
		case "MQIA_MSG_DEQ_COUNT", "MQIA_MSG_DEQ_COUNT_ALT":
			ops.DequeueCount = int64(p.Int())
		case "MQIA_CURRENT_Q_DEPTH", "MQIA_CURRENT_Q_DEPTH_ALT":
			ops.CurrentDepth = int64(p.Int())
		case "MQIA_MAX_Q_DEPTH":
			ops.MaxDepth = int64(p.Int())
		case "MQIA_PUT_BYTES":
			ops.PutBytes = int64(p.Int())
		case "MQIA_GET_BYTES":
			ops.GetBytes = int64(p.Int())
		case "MQIA_PUT_TIME":
			ops.PutTime = int64(p.Int())
		case "MQIA_GET_TIME":
			ops.GetTime = int64(p.Int())
		}
	}

	ops.HasReaders = ops.GetCount > 0 || ops.BrowseCount > 0 || ops.OpenInputCount > 0
	ops.HasWriters = ops.PutCount > 0 || ops.OpenOutputCount > 0

	return ops
}
