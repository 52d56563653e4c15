package extract

import (
	"github.com/mqwatch/mq-stats-collector/internal/domain"
	"github.com/mqwatch/mq-stats-collector/internal/pcf"
)

// ConnectionInfo derives channel and application identity for one
// accounting message. Numeric channel codes are resolved to readable
// names; every field defaults to "unknown" until a parameter fills it.
func ConnectionInfo(msg *domain.Message) domain.ConnectionInfo {
	info := domain.ConnectionInfo{
		ChannelName:     "unknown",
		ConnectionName:  "unknown",
		ApplicationName: "unknown",
		UserID:          "unknown",
		ChannelType:     "unknown",
		TransportType:   "unknown",
		ChannelStatus:   "unknown",
	}
	if msg == nil {
		return info
	}

	for _, p := range msg.Parameters {
		switch p.Name {
		case "MQCA_CHANNEL_NAME":
			if s := p.Text(); s != "" {
				info.ChannelName = s
			}
		case "MQCA_CONNECTION_NAME", "MQCACH_CONNECTION_NAME":
			if s := p.Text(); s != "" {
				info.ConnectionName = s
			}
		case "MQCA_APPL_NAME", "MQCA_APPL_IDENTITY_DATA":
			if s := p.Text(); s != "" {
				info.ApplicationName = s
			}
		case "MQIA_CONNECT_COUNT":
			info.ConnectCount = int64(p.Int())
		case "MQIA_DISCONNECT_COUNT":
			info.DisconnectCount = int64(p.Int())
		case "MQIACH_CHANNEL_TYPE":
			info.ChannelType = pcf.ChannelTypeName(p.Int())
		case "MQIACH_TRANSPORT_TYPE":
			info.TransportType = pcf.TransportTypeName(p.Int())
		case "MQIACH_CHANNEL_STATUS":
			info.ChannelStatus = pcf.ChannelStatusName(p.Int())
		}
	}

	return info
}
