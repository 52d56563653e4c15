package pcf

import (
	"encoding/binary"
	"testing"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

func encodeIntegerParam(id uint32, value int32) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:], id)
	binary.BigEndian.PutUint32(buf[4:], TypeInteger)
	binary.BigEndian.PutUint32(buf[8:], uint32(value))
	return buf
}

func encodeStringParam(id uint32, text string) []byte {
	buf := make([]byte, 12+len(text))
	binary.BigEndian.PutUint32(buf[0:], id)
	binary.BigEndian.PutUint32(buf[4:], TypeString)
	binary.BigEndian.PutUint32(buf[8:], uint32(len(text)))
	copy(buf[12:], text)
	return buf
}

func encodeByteStringParam(id uint32, data []byte) []byte {
	buf := make([]byte, 12+len(data))
	binary.BigEndian.PutUint32(buf[0:], id)
	binary.BigEndian.PutUint32(buf[4:], TypeByteString)
	binary.BigEndian.PutUint32(buf[8:], uint32(len(data)))
	copy(buf[12:], data)
	return buf
}

func encodeIntegerListParam(id uint32, values []int32) []byte {
	buf := make([]byte, 12+len(values)*4)
	binary.BigEndian.PutUint32(buf[0:], id)
	binary.BigEndian.PutUint32(buf[4:], TypeIntegerList)
	binary.BigEndian.PutUint32(buf[8:], uint32(len(values)))
	for i, v := range values {
		binary.BigEndian.PutUint32(buf[12+i*4:], uint32(v))
	}
	return buf
}

func TestDecodeParameters_IntegerRoundTrip(t *testing.T) {
	buf := encodeIntegerParam(3004, 42)

	params := DecodeParameters(buf, 1)
	if len(params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(params))
	}
	p := params[0]
	if p.ID != 3004 {
		t.Errorf("expected id 3004, got %d", p.ID)
	}
	if p.Int() != 42 {
		t.Errorf("expected value 42, got %d", p.Int())
	}
	if p.Length != 12 {
		t.Errorf("expected length 12, got %d", p.Length)
	}
}

func TestDecodeParameters_StringRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantText   string
		wantLength uint32
	}{
		{"plain", "TEST.QUEUE", "TEST.QUEUE", 12 + 10},
		{"nul and space padding", "TEST.QUEUE\x00\x00  ", "TEST.QUEUE", 12 + 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DecodeParameters(encodeStringParam(2016, tt.text), 1)
			if len(params) != 1 {
				t.Fatalf("expected 1 parameter, got %d", len(params))
			}
			p := params[0]
			if p.Text() != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, p.Text())
			}
			if p.Length != tt.wantLength {
				t.Errorf("expected length %d, got %d", tt.wantLength, p.Length)
			}
			if p.Name != "MQCA_Q_NAME" {
				t.Errorf("expected resolved name MQCA_Q_NAME, got %s", p.Name)
			}
		})
	}
}

func TestDecodeParameters_ByteString(t *testing.T) {
	params := DecodeParameters(encodeByteStringParam(2024, []byte{0xDE, 0xAD, 0xBE, 0xEF}), 1)
	if len(params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(params))
	}
	v, ok := params[0].Value.(domain.BytesValue)
	if !ok {
		t.Fatalf("expected BytesValue, got %T", params[0].Value)
	}
	if string(v) != "deadbeef" {
		t.Errorf("expected deadbeef, got %s", v)
	}
	if params[0].Length != 16 {
		t.Errorf("expected length 16, got %d", params[0].Length)
	}
}

func TestDecodeParameters_IntegerList(t *testing.T) {
	params := DecodeParameters(encodeIntegerListParam(1001, []int32{7, -3, 500}), 1)
	if len(params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(params))
	}
	v, ok := params[0].Value.(domain.IntListValue)
	if !ok {
		t.Fatalf("expected IntListValue, got %T", params[0].Value)
	}
	if len(v) != 3 || v[0] != 7 || v[1] != -3 || v[2] != 500 {
		t.Errorf("unexpected list values: %v", v)
	}
	if params[0].Length != 24 {
		t.Errorf("expected length 24, got %d", params[0].Length)
	}
}

func TestDecodeParameters_MultipleInOrder(t *testing.T) {
	var buf []byte
	buf = append(buf, encodeStringParam(2016, "ORDERS.IN")...)
	buf = append(buf, encodeIntegerParam(51, 100)...)
	buf = append(buf, encodeIntegerParam(52, 95)...)

	params := DecodeParameters(buf, 3)
	if len(params) != 3 {
		t.Fatalf("expected 3 parameters, got %d", len(params))
	}
	if params[0].Text() != "ORDERS.IN" {
		t.Errorf("expected ORDERS.IN first, got %q", params[0].Text())
	}
	if params[1].Name != "MQIA_PUT_COUNT" || params[1].Int() != 100 {
		t.Errorf("unexpected second parameter: %+v", params[1])
	}
	if params[2].Name != "MQIA_GET_COUNT" || params[2].Int() != 95 {
		t.Errorf("unexpected third parameter: %+v", params[2])
	}
}

func TestDecodeParameters_ZeroSentinelSkipped(t *testing.T) {
	var buf []byte
	buf = append(buf, make([]byte, 8)...) // id=0, type=0 filler
	buf = append(buf, encodeIntegerParam(51, 10)...)

	params := DecodeParameters(buf, 2)
	if len(params) != 1 {
		t.Fatalf("expected filler dropped, got %d parameters", len(params))
	}
	if params[0].Int() != 10 {
		t.Errorf("expected value 10, got %d", params[0].Int())
	}
}

func TestDecodeParameters_AbsurdTypeAdvancesMinimally(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:], 51)
	binary.BigEndian.PutUint32(buf[4:], 2_000_000) // no length field exists
	buf = append(buf, encodeIntegerParam(52, 7)...)

	params := DecodeParameters(buf, 2)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if _, ok := params[0].Value.(domain.PlaceholderValue); !ok {
		t.Errorf("expected placeholder for corrupt type, got %T", params[0].Value)
	}
	if params[0].Length != ParamHeaderSize {
		t.Errorf("expected minimum safe length %d, got %d", ParamHeaderSize, params[0].Length)
	}
	if params[1].Int() != 7 {
		t.Errorf("expected following record decoded, got %+v", params[1])
	}
}

func TestDecodeParameters_UnsupportedType(t *testing.T) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint32(buf[0:], 2016)
	binary.BigEndian.PutUint32(buf[4:], TypeGroup)

	params := DecodeParameters(buf, 1)
	if len(params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(params))
	}
	v, ok := params[0].Value.(domain.PlaceholderValue)
	if !ok {
		t.Fatalf("expected PlaceholderValue, got %T", params[0].Value)
	}
	if string(v) != "unsupported_type_20" {
		t.Errorf("unexpected placeholder: %s", v)
	}
	if params[0].Length != 12 {
		t.Errorf("expected minimum safe length 12, got %d", params[0].Length)
	}
}

func TestDecodeParameters_TruncatedIntegerStops(t *testing.T) {
	// 10 bytes: sub-header plus a truncated value. The record claims 12
	// bytes, which exceeds the buffer, so the stream must stop cleanly.
	buf := encodeIntegerParam(51, 42)[:10]

	params := DecodeParameters(buf, 1)
	if len(params) != 0 {
		t.Errorf("expected truncated record rejected, got %d parameters", len(params))
	}
}

func TestDecodeParameters_OversizedStringLengthResyncs(t *testing.T) {
	buf := make([]byte, 32)
	binary.BigEndian.PutUint32(buf[0:], 2016)
	binary.BigEndian.PutUint32(buf[4:], TypeString)
	binary.BigEndian.PutUint32(buf[8:], 10_000_000) // over the 64 KiB bound

	// Must not read out of bounds and must not loop forever.
	params := DecodeParameters(buf, 5)
	for _, p := range params {
		if p.Length == 0 {
			t.Errorf("parameter with zero length: %+v", p)
		}
	}
}

func TestDecodeParameters_CorruptCountTerminates(t *testing.T) {
	var buf []byte
	buf = append(buf, encodeIntegerParam(51, 1)...)
	buf = append(buf, encodeIntegerParam(52, 2)...)

	params := DecodeParameters(buf, 2_000_000)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
}

func TestDecodeParameters_ValidityFilterDropsImplausibleIDs(t *testing.T) {
	var buf []byte
	buf = append(buf, encodeIntegerParam(999999999, 1)...) // unknown, above 24-bit range
	buf = append(buf, encodeIntegerParam(52, 2)...)

	params := DecodeParameters(buf, 2)
	if len(params) != 1 {
		t.Fatalf("expected implausible id dropped, got %d parameters", len(params))
	}
	if params[0].Name != "MQIA_GET_COUNT" {
		t.Errorf("expected MQIA_GET_COUNT kept, got %s", params[0].Name)
	}
}

func TestDecodeParameters_KnownExtendedIDsKept(t *testing.T) {
	params := DecodeParameters(encodeIntegerParam(671088640, 4096), 1)
	if len(params) != 1 {
		t.Fatalf("expected extended id kept, got %d parameters", len(params))
	}
	if params[0].Name != "MQIA_PUT_BYTES" {
		t.Errorf("expected MQIA_PUT_BYTES, got %s", params[0].Name)
	}
}

func TestDecodeMessage_EmptyParameterList(t *testing.T) {
	buf := encodeHeader(TypeStatistics, CmdStatisticsQ, 0)
	buf = append(buf, 0xAA, 0xBB, 0xCC) // trailing garbage must be ignored

	msg, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.Parameters) != 0 {
		t.Errorf("expected no parameters, got %d", len(msg.Parameters))
	}
	if msg.Size != len(buf) {
		t.Errorf("expected size %d, got %d", len(buf), msg.Size)
	}
}

func TestDecodeMessage_TooShort(t *testing.T) {
	if _, err := DecodeMessage(make([]byte, 20)); err == nil {
		t.Error("expected error for short buffer")
	}
}
