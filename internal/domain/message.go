package domain

// MessageKind classifies a PCF message by its header structure type.
type MessageKind string

const (
	KindStatistics MessageKind = "statistics"
	KindAccounting MessageKind = "accounting"
	KindEvent      MessageKind = "event"
	KindCommand    MessageKind = "command"
	KindResponse   MessageKind = "response"
	KindReport     MessageKind = "report"

	// KindCorrupted marks headers matching a known bad-data signature.
	KindCorrupted MessageKind = "corrupted"
)

// Header is the fixed 36-byte leading record of a PCF message.
// All nine fields are big-endian 32-bit integers on the wire, in this order.
type Header struct {
	StructureType   int32
	StructureLength int32
	Version         int32
	Command         int32
	MsgSeqNumber    int32
	Control         int32
	CompletionCode  int32
	ReasonCode      int32
	ParameterCount  int32

	// Derived fields, not wire data.
	Kind             MessageKind
	Corrupted        bool
	CorruptionReason string
}

// Value is the decoded payload of a PCF parameter. It is a closed set:
// IntValue, StringValue, BytesValue, IntListValue or PlaceholderValue.
type Value interface {
	isValue()
}

// IntValue is a 32-bit integer parameter value.
type IntValue int32

// StringValue is a decoded text parameter value with padding stripped.
type StringValue string

// BytesValue is a byte-string parameter rendered as lowercase hex.
type BytesValue string

// IntListValue is an ordered list of 32-bit integers.
type IntListValue []int32

// PlaceholderValue stands in for unsupported or corrupt encodings.
type PlaceholderValue string

func (IntValue) isValue()         {}
func (StringValue) isValue()      {}
func (BytesValue) isValue()       {}
func (IntListValue) isValue()     {}
func (PlaceholderValue) isValue() {}

// Parameter is a single decoded PCF parameter record.
type Parameter struct {
	ID    uint32
	Type  int32  // declared type code from the 8-byte sub-header
	Name  string // resolved name, never empty
	Value Value

	// Length is the number of bytes the record occupies on the wire,
	// including the 8-byte sub-header.
	Length uint32
}

// Int returns the integer value of the parameter, or 0 if it is not an
// integer parameter.
func (p Parameter) Int() int32 {
	if v, ok := p.Value.(IntValue); ok {
		return int32(v)
	}
	return 0
}

// Text returns the string value of the parameter, or "" if it is not a
// string parameter.
func (p Parameter) Text() string {
	if v, ok := p.Value.(StringValue); ok {
		return string(v)
	}
	return ""
}

// Message is a fully decoded PCF message: header plus parameters in wire
// order. It is constructed once per input buffer and never mutated;
// duplicate parameter ids are kept, extractors take the last match.
type Message struct {
	Header     Header
	Parameters []Parameter
	Size       int // raw buffer length in bytes
}
