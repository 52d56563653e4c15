package pcf

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// ErrTooShort is returned when a buffer cannot hold the fixed header.
var ErrTooShort = errors.New("pcf: buffer too short for header")

var messageKinds = map[int32]domain.MessageKind{
	TypeStatistics: domain.KindStatistics,
	TypeAccounting: domain.KindAccounting,
	TypeEvent:      domain.KindEvent,
	TypeCommand:    domain.KindCommand,
	TypeResponse:   domain.KindResponse,
	TypeReport:     domain.KindReport,
}

// DecodeHeader decodes the fixed 36-byte PCF header. It fails only when
// the buffer is shorter than the header; corruption signatures are
// reported on the header itself and never stop the caller.
func DecodeHeader(buf []byte) (domain.Header, error) {
	if len(buf) < HeaderSize {
		return domain.Header{}, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(buf), HeaderSize)
	}

	h := domain.Header{
		StructureType:   int32(binary.BigEndian.Uint32(buf[0:4])),
		StructureLength: int32(binary.BigEndian.Uint32(buf[4:8])),
		Version:         int32(binary.BigEndian.Uint32(buf[8:12])),
		Command:         int32(binary.BigEndian.Uint32(buf[12:16])),
		MsgSeqNumber:    int32(binary.BigEndian.Uint32(buf[16:20])),
		Control:         int32(binary.BigEndian.Uint32(buf[20:24])),
		CompletionCode:  int32(binary.BigEndian.Uint32(buf[24:28])),
		ReasonCode:      int32(binary.BigEndian.Uint32(buf[28:32])),
		ParameterCount:  int32(binary.BigEndian.Uint32(buf[32:36])),
	}
	h.Kind = messageKind(h.StructureType)

	// Advisory corruption heuristics; see constants.go.
	if h.StructureType == corruptStructureType {
		h.Corrupted = true
		h.Kind = domain.KindCorrupted
		h.CorruptionReason = fmt.Sprintf("structure type 0x%08X matches word-shift signature", uint32(h.StructureType))
	}
	if h.ParameterCount > maxSaneParameterCount {
		h.Corrupted = true
		if h.CorruptionReason != "" {
			h.CorruptionReason += "; "
		}
		h.CorruptionReason += fmt.Sprintf("implausible parameter count %d", h.ParameterCount)
	}

	return h, nil
}

func messageKind(structureType int32) domain.MessageKind {
	if kind, ok := messageKinds[structureType]; ok {
		return kind
	}
	return domain.MessageKind(fmt.Sprintf("unknown_type_%d", structureType))
}
