package pcf

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// DecodeParameters decodes the parameter records following the header.
// It never fails on malformed input: it returns the longest valid prefix
// it could decode and always terminates, even under a corrupted declared
// count. Records failing the validity filter are dropped.
func DecodeParameters(buf []byte, declaredCount int32) []domain.Parameter {
	limit := int(declaredCount)
	if limit < 0 {
		limit = 0
	}
	if limit > maxDecodedParams {
		log.Debug().
			Int32("declared_count", declaredCount).
			Int("ceiling", maxDecodedParams).
			Msg("Declared parameter count exceeds decode ceiling")
		limit = maxDecodedParams
	}

	params := make([]domain.Parameter, 0, min(limit, 64))
	offset := 0

	for i := 0; i < limit; i++ {
		remaining := buf[offset:]
		if len(remaining) < ParamHeaderSize {
			break
		}

		id := binary.BigEndian.Uint32(remaining[0:4])
		declaredType := int32(binary.BigEndian.Uint32(remaining[4:8]))

		// Zero id with zero type is padding or corruption filler: a
		// sentinel record that advances past the sub-header and is
		// filtered out below.
		if id == 0 && declaredType == 0 {
			offset += ParamHeaderSize
			continue
		}

		// A declared type this large means the length field that
		// should follow probably is not there; advance by the minimum
		// safe size instead of interpreting garbage.
		if declaredType > maxSaneParamType {
			p := domain.Parameter{
				ID:     id,
				Type:   declaredType,
				Name:   ResolveParameterName(id),
				Value:  domain.PlaceholderValue(fmt.Sprintf("corrupt_type_%d", declaredType)),
				Length: ParamHeaderSize,
			}
			offset += ParamHeaderSize
			if keepParameter(p) {
				params = append(params, p)
			}
			continue
		}

		p, ok := decodeOneParameter(remaining, id, declaredType)
		if !ok {
			// Unparseable at this offset; skip to the next 4-byte
			// boundary plus one word and try again from there.
			offset = resyncOffset(offset)
			continue
		}

		// Length sanity: a record may never claim fewer bytes than its
		// own sub-header or more than remain in the buffer.
		if p.Length < ParamHeaderSize || int(p.Length) > len(remaining) {
			log.Debug().
				Uint32("parameter_id", p.ID).
				Uint32("length", p.Length).
				Int("remaining", len(remaining)).
				Msg("Parameter length out of bounds, stopping decode")
			break
		}

		offset += int(p.Length)
		if keepParameter(p) {
			params = append(params, p)
		}
	}

	return params
}

func decodeOneParameter(b []byte, id uint32, declaredType int32) (domain.Parameter, bool) {
	p := domain.Parameter{
		ID:   id,
		Type: declaredType,
		Name: ResolveParameterName(id),
	}

	switch declaredType {
	case TypeInteger:
		// Truncated buffers still yield a nominal 12-byte record so the
		// offset arithmetic stays aligned; the caller's length check
		// rejects it when fewer than 12 bytes remain.
		p.Length = 12
		if len(b) >= 12 {
			p.Value = domain.IntValue(int32(binary.BigEndian.Uint32(b[8:12])))
		} else {
			p.Value = domain.IntValue(0)
		}

	case TypeString:
		if len(b) < 12 {
			p.Value = domain.StringValue("")
			p.Length = 12
			break
		}
		strLen := binary.BigEndian.Uint32(b[8:12])
		if strLen > maxStringLength {
			return domain.Parameter{}, false
		}
		total := 12 + strLen
		if int(total) > len(b) {
			p.Value = domain.StringValue("")
			p.Length = 12
			break
		}
		p.Value = domain.StringValue(decodeText(b[12:total]))
		p.Length = total

	case TypeByteString:
		if len(b) < 12 {
			p.Value = domain.BytesValue("")
			p.Length = 12
			break
		}
		dataLen := binary.BigEndian.Uint32(b[8:12])
		if dataLen > maxStringLength {
			return domain.Parameter{}, false
		}
		total := 12 + dataLen
		if int(total) > len(b) {
			p.Value = domain.BytesValue("")
			p.Length = 12
			break
		}
		p.Value = domain.BytesValue(fmt.Sprintf("%x", b[12:total]))
		p.Length = total

	case TypeIntegerList:
		if len(b) < 12 {
			p.Value = domain.IntListValue(nil)
			p.Length = 12
			break
		}
		count := binary.BigEndian.Uint32(b[8:12])
		if count > maxStringLength/4 || 12+int(count)*4 > len(b) {
			p.Value = domain.IntListValue(nil)
			p.Length = 12
			break
		}
		values := make(domain.IntListValue, count)
		for i := range values {
			values[i] = int32(binary.BigEndian.Uint32(b[12+i*4 : 16+i*4]))
		}
		p.Value = values
		p.Length = 12 + count*4

	default:
		// Unsupported types have an unknown true length; a minimum safe
		// size keeps downstream offsets sane.
		p.Value = domain.PlaceholderValue(fmt.Sprintf("unsupported_type_%d", declaredType))
		p.Length = 12
	}

	return p, true
}

// keepParameter is the post-decode validity filter: it drops records
// matching known corruption signatures. Heuristic, tuned for precision
// over recall.
func keepParameter(p domain.Parameter) bool {
	if p.ID == 0 && p.Type == 0 {
		return false
	}
	// Known ids are vouched for by the table, including the extended
	// hex-aligned ranges above the thresholds below.
	if !IsUnknownName(p.Name) {
		return true
	}
	if p.ID > maxPlausibleParamID {
		return false
	}
	if p.Type > suspectParamType && p.ID > suspectUnknownParamID {
		return false
	}
	return true
}

// resyncOffset skips to the next 4-byte aligned boundary plus one word,
// a heuristic hop over unrecoverable padding. Always advances by at
// least one byte, so the decode loop makes progress.
func resyncOffset(offset int) int {
	return (offset+3)&^3 + 4
}

// decodeText decodes parameter text, never failing: UTF-8 when valid,
// otherwise a byte-per-rune fallback for legacy codepage data. Trailing
// NUL and space padding is stripped.
func decodeText(b []byte) string {
	var s string
	if utf8.Valid(b) {
		s = string(b)
	} else {
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		s = string(runes)
	}
	return strings.TrimRight(s, "\x00 ")
}
