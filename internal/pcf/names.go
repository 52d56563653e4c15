package pcf

import "fmt"

// parameterNames is the single authoritative id→name table. The ids span
// several historically disjoint numbering spaces: small integer
// attributes (1–100), character/string attributes (1000–4000, with
// channel sub-ranges), and the extended hex-aligned statistics and
// accounting ids in the hundreds of millions. Treat it as append-only:
// never reassign an id that is already present.
var parameterNames = map[uint32]string{
	// Integer queue attributes.
	1:  "MQIA_Q_TYPE_ALT",
	2:  "MQIA_MAX_Q_DEPTH",
	3:  "MQIA_CURRENT_Q_DEPTH",
	4:  "MQIA_BACKOUT_THRESHOLD",
	5:  "MQIA_SHAREABILITY",
	6:  "MQIA_DEF_SHAREABILITY",
	7:  "MQIA_HARDEN_GET_BACKOUT",
	8:  "MQIA_MSG_DELIVERY_SEQUENCE",
	9:  "MQIA_RETENTION_INTERVAL",
	10: "MQIA_Q_DEPTH_HIGH_EVENT",
	11: "MQIA_Q_DEPTH_LOW_EVENT",
	12: "MQIA_Q_SERVICE_INTERVAL_EVENT",
	13: "MQIA_Q_DEPTH_MAX_EVENT",
	14: "MQIA_CURRENT_Q_DEPTH_ALT",
	15: "MQIA_OPEN_INPUT_COUNT_ALT",
	16: "MQIA_OPEN_OUTPUT_COUNT_ALT",
	17: "MQIA_HIGH_Q_DEPTH_ALT",
	18: "MQIA_MSG_ENQ_COUNT_ALT",
	19: "MQIA_MSG_DEQ_COUNT_ALT",
	20: "MQIA_Q_TYPE",
	36: "MQIA_HIGH_Q_DEPTH",
	37: "MQIA_MSG_ENQ_COUNT",
	38: "MQIA_MSG_DEQ_COUNT",
	50: "MQIA_OPEN_INPUT_COUNT",
	51: "MQIA_PUT_COUNT",
	52: "MQIA_GET_COUNT",
	53: "MQIA_INQUIRE_COUNT",
	54: "MQIA_SET_COUNT",
	65: "MQIA_OPEN_INPUT_COUNT",
	66: "MQIA_OPEN_OUTPUT_COUNT",

	// Control parameters.
	1001:  "MQIACF_SEQUENCE_NUMBER",
	3603:  "MQCACF_COMMAND_TIME",
	10003: "MQIAMO_OPENS",

	// Channel integer attributes.
	1501: "MQIACH_CHANNEL_TYPE",
	1502: "MQIACH_TRANSPORT_TYPE",
	1503: "MQIACH_DATA_COUNT",
	1504: "MQIACH_NAME_COUNT",
	1505: "MQIACH_MAX_MSG_LENGTH",
	1506: "MQIACH_BATCH_SIZE",
	1507: "MQIACH_BATCH_INTERVAL",
	1508: "MQIACH_LONG_RETRY_COUNT",
	1509: "MQIACH_LONG_RETRY_INTERVAL",
	1510: "MQIACH_SHORT_RETRY_COUNT",
	1511: "MQIACH_SHORT_RETRY_INTERVAL",
	1512: "MQIACH_DISC_INTERVAL",
	1513: "MQIACH_THRESHOLD",
	1514: "MQIACH_PRIORITY",
	1515: "MQIACH_DATA_CONVERSION",
	1527: "MQIACH_CHANNEL_STATUS",

	// Character attributes.
	2001: "MQCA_Q_NAME_ALT",
	2002: "MQCA_Q_MGR_NAME",
	2003: "MQCA_PROCESS_NAME",
	2004: "MQCA_TRIGGER_DATA",
	2005: "MQCA_Q_DESC",
	2006: "MQCA_CREATION_DATE",
	2007: "MQCA_CREATION_TIME",
	2008: "MQCA_ALTERATION_DATE",
	2009: "MQCA_ALTERATION_TIME",
	2010: "MQCA_BACKOUT_REQ_Q_NAME",
	2011: "MQCA_INITIATION_Q_NAME",
	2012: "MQCA_DEAD_LETTER_Q_NAME",
	2013: "MQCA_DEF_XMIT_Q_NAME",
	2014: "MQCA_CF_STRUC_NAME",
	2015: "MQCA_QSG_NAME",
	2016: "MQCA_Q_NAME",
	2017: "MQCA_XCFGNAME",
	2018: "MQCA_XCFMNAME",
	2019: "MQCA_COMMAND_MQSC",
	2020: "MQCA_Q_MGR_IDENTIFIER",
	2021: "MQCA_CLUSTER_NAME",
	2022: "MQCA_CLUSTER_NAMELIST",
	2023: "MQCA_CLUSTER_Q_MGR_NAME",
	2024: "MQCA_APPL_NAME",

	// Channel character attributes.
	3501: "MQCA_CHANNEL_NAME",
	3502: "MQCA_CONNECTION_NAME",
	3503: "MQCACH_MODE_NAME",
	3504: "MQCACH_TP_NAME",
	3505: "MQCACH_XMIT_Q_NAME",
	3506: "MQCACH_CONNECTION_NAME",
	3507: "MQCACH_MCA_NAME",
	3508: "MQCACH_SEC_EXIT_NAME",

	// Extended statistics and accounting attributes. These ids align to
	// hex round numbers (0x0A000001, 0x20000000, ...).
	167772161:  "MQCA_APPL_NAME",
	167772162:  "MQCA_APPL_IDENTITY_DATA",
	301989889:  "MQIA_COMMAND_LEVEL",
	301989890:  "MQIA_PLATFORM",
	536870912:  "MQIA_PUT_TIME",
	536870913:  "MQIA_PUT_TIME_MIN",
	536870914:  "MQIA_PUT_TIME_MAX",
	536870915:  "MQIA_PUT_TIME_AVG",
	603979776:  "MQIA_GET_TIME",
	671088640:  "MQIA_PUT_BYTES",
	671088641:  "MQIA_GET_BYTES",
	805306368:  "MQIA_CONNECTION_COUNT",
	805306369:  "MQIA_CONNECT_COUNT",
	805306370:  "MQIA_DISCONNECT_COUNT",
	842019381:  "MQIA_ACCOUNTING_CONN_OVERRIDE",
	842019382:  "MQIA_ACCOUNTING_INTERVAL",
	842019383:  "MQIA_ACTIVITY_RECORDING",
	842019384:  "MQIA_ACCOUNTING_MQI",
	842019385:  "MQIA_ACCOUNTING_Q",
	842019390:  "MQIA_STATISTICS_INTERVAL",
	842019391:  "MQIA_STATISTICS_MQI",
	842019392:  "MQIA_STATISTICS_Q",
	842019393:  "MQIA_STATISTICS_CHANNEL",
	939524096:  "MQIA_BROWSE_COUNT",
	939524097:  "MQIA_BROWSE_BYTES",
	1207959552: "MQIA_CHANNEL_MSGS",
	1207959553: "MQIA_CHANNEL_BYTES",
	1342177280: "MQIA_CHANNEL_TIME_INDICATOR",
	1476395008: "MQIA_CHANNEL_COMPRESSION_RATE",
	1610612736: "MQIA_CURRENT_Q_DEPTH",
	1610612737: "MQIA_MAX_Q_DEPTH",
	1610612738: "MQIA_OPEN_INPUT_COUNT",
	1610612739: "MQIA_OPEN_OUTPUT_COUNT",
}

// unknownParamPrefix marks synthesized names for ids outside the table.
const unknownParamPrefix = "UNKNOWN_PARAM_"

// ResolveParameterName maps a numeric parameter id to its canonical
// name. Unknown ids get a synthesized name carrying both the decimal id
// and its hex form so operators can check vendor documentation.
func ResolveParameterName(id uint32) string {
	if name, ok := parameterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("%s%d_0x%08X", unknownParamPrefix, id, id)
}

// IsUnknownName reports whether name is a synthesized placeholder rather
// than a canonical table entry.
func IsUnknownName(name string) bool {
	return len(name) > len(unknownParamPrefix) && name[:len(unknownParamPrefix)] == unknownParamPrefix
}

var channelTypes = map[int32]string{
	1: "SENDER",
	2: "SERVER",
	3: "RECEIVER",
	4: "REQUESTER",
	5: "CLIENT_CONNECTION",
	6: "SERVER_CONNECTION",
	7: "CLUSTER_RECEIVER",
	8: "CLUSTER_SENDER",
}

var transportTypes = map[int32]string{
	1: "LU62",
	2: "TCP",
	3: "NETBIOS",
	4: "SPX",
	5: "DECnet",
	6: "UDP",
}

var channelStatuses = map[int32]string{
	0:  "INACTIVE",
	1:  "BINDING",
	2:  "STARTING",
	3:  "RUNNING",
	4:  "STOPPING",
	5:  "RETRYING",
	6:  "STOPPED",
	7:  "REQUESTING",
	8:  "PAUSED",
	13: "INITIALIZING",
}

// ChannelTypeName converts a channel type code to a readable name.
func ChannelTypeName(code int32) string {
	if name, ok := channelTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_CHANNEL_TYPE_%d", code)
}

// TransportTypeName converts a transport type code to a readable name.
func TransportTypeName(code int32) string {
	if name, ok := transportTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_TRANSPORT_%d", code)
}

// ChannelStatusName converts a channel status code to a readable name.
func ChannelStatusName(code int32) string {
	if name, ok := channelStatuses[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_STATUS_%d", code)
}
