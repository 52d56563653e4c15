package pcf

// Fixed sizes of the PCF wire format.
const (
	HeaderSize      = 36 // nine big-endian 32-bit integers
	ParamHeaderSize = 8  // id + declared type
)

// PCF structure/parameter type codes (MQCFT_*).
const (
	TypeNone             = 0
	TypeCommand          = 1
	TypeResponse         = 2
	TypeInteger          = 3
	TypeString           = 4
	TypeIntegerList      = 5
	TypeStringList       = 6
	TypeEvent            = 7
	TypeUser             = 8
	TypeByteString       = 9
	TypeTraceRoute       = 10
	TypeReport           = 11
	TypeIntegerFilter    = 12
	TypeStringFilter     = 13
	TypeByteStringFilter = 14
	TypeCommandXR        = 16
	TypeXRMsg            = 17
	TypeXRItem           = 18
	TypeXRSummary        = 19
	TypeGroup            = 20
	TypeStatistics       = 21
	TypeAccounting       = 22
)

// Statistics and accounting command codes (MQCMD_*).
const (
	CmdStatisticsMQI     = 112
	CmdStatisticsQ       = 113
	CmdStatisticsChannel = 114
	CmdAccountingMQI     = 138
	CmdAccountingQ       = 139
)

// Corruption heuristics. These are pattern matches against bad-data
// signatures seen on real statistics queues, not integrity checks; the
// format carries no checksum. Keep them named so they can be tuned.
const (
	// corruptStructureType shows up when the buffer is shifted by one
	// 32-bit word: 0x16000000 is MQCFT_ACCOUNTING (22) read one byte
	// early.
	corruptStructureType = 369098752

	// maxSaneParameterCount flags an implausible declared count without
	// blocking the decode.
	maxSaneParameterCount = 1_000_000

	// maxDecodedParams is the hard ceiling on records decoded from one
	// message, independent of the declared count.
	maxDecodedParams = 1000

	// maxSaneParamType: declared types above this mean the length field
	// that should follow probably does not exist.
	maxSaneParamType = 1_000_000

	// maxStringLength bounds the declared length of string and byte
	// string parameters.
	maxStringLength = 64 * 1024

	// Validity filter thresholds for decoded records.
	maxPlausibleParamID   = 1 << 24
	suspectParamType      = 10_000
	suspectUnknownParamID = 100_000_000
)
