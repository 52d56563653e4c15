package extract

import (
	"encoding/binary"
	"regexp"
	"strings"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
	"github.com/mqwatch/mq-stats-collector/internal/pcf"
)

// Parameter ids carrying identity fields. Deliberately wider than the
// canonical name table: this is a salvage path for messages the normal
// decoder gave up on, so every id family ever observed to carry a given
// field is accepted.
var (
	applNameIDs = map[uint32]bool{2001: true, 2024: true, 3001: true, 167772161: true}
	connNameIDs = map[uint32]bool{2003: true, 3003: true, 1269: true, 3502: true, 3506: true}
	chanNameIDs = map[uint32]bool{3501: true, 3004: true}
	userIDIDs   = map[uint32]bool{2005: true, 3002: true}
)

var (
	applNameRaw  = regexp.MustCompile(`([A-Za-z0-9_.\-]+\.(?:exe|jar|py|sh)|amqsput|amqsget)\x00`)
	applNameText = regexp.MustCompile(`(?i)([A-Za-z0-9_.\-]+\.(?:exe|jar|py|sh)|amqsput|amqsget)`)
	connAddr     = regexp.MustCompile(`(\d{1,3}(?:\.\d{1,3}){3})[(:](\d{1,5})\)?`)
	bareAddr     = regexp.MustCompile(`\d{1,3}(?:\.\d{1,3}){3}`)
)

// Identity salvages application identity from a raw message buffer.
// Three tiers are tried in order, first success wins: a structured walk
// over parameter records, regex scanning of the raw bytes, and finally
// regex scanning of a lossy text rendering. Never fails; the floor is
// Found=false with every field "unknown". Method records which tier
// produced the result, so downstream reader/writer attribution can be
// audited per message.
func Identity(buf []byte) domain.IdentityInfo {
	info := domain.IdentityInfo{
		ApplicationName: "unknown",
		ClientAddress:   "unknown",
		ConnectionName:  "unknown",
		ChannelName:     "unknown",
		UserID:          "unknown",
		Method:          domain.ExtractionNone,
	}

	tiers := []struct {
		method string
		fn     func([]byte, *domain.IdentityInfo) bool
	}{
		{domain.ExtractionStructured, extractStructured},
		{domain.ExtractionPattern, extractByPatterns},
		{domain.ExtractionBruteForce, extractFromText},
	}
	for _, tier := range tiers {
		if tier.fn(buf, &info) {
			info.Method = tier.method
			info.Found = true
			return info
		}
	}
	return info
}

// extractStructured walks parameter records behind the fixed header,
// picking out identity-bearing ids and ignoring everything else. Any
// record it cannot size terminates the walk.
func extractStructured(buf []byte, info *domain.IdentityInfo) bool {
	found := false
	offset := pcf.HeaderSize

	for offset+pcf.ParamHeaderSize <= len(buf) {
		id := binary.BigEndian.Uint32(buf[offset:])
		typ := int32(binary.BigEndian.Uint32(buf[offset+4:]))

		var consumed int
		var text string
		switch typ {
		case pcf.TypeInteger:
			consumed = 12
		case pcf.TypeString, pcf.TypeByteString:
			if offset+12 > len(buf) {
				return found
			}
			length := int(binary.BigEndian.Uint32(buf[offset+8:]))
			if length < 0 || length > len(buf)-offset-12 {
				return found
			}
			consumed = 12 + length
			text = salvageText(buf[offset+12 : offset+consumed])
		case pcf.TypeIntegerList:
			if offset+12 > len(buf) {
				return found
			}
			count := int(binary.BigEndian.Uint32(buf[offset+8:]))
			if count < 0 || count > (len(buf)-offset-12)/4 {
				return found
			}
			consumed = 12 + 4*count
		default:
			return found
		}
		if consumed < pcf.ParamHeaderSize || consumed > len(buf)-offset {
			return found
		}

		if text != "" {
			switch {
			case applNameIDs[id]:
				info.ApplicationName = text
				found = true
			case connNameIDs[id]:
				info.ConnectionName = text
				found = true
				if m := bareAddr.FindString(text); m != "" {
					info.ClientAddress = m
				}
			case chanNameIDs[id]:
				info.ChannelName = text
				found = true
			case userIDIDs[id]:
				info.UserID = text
				found = true
			}
		}

		offset += consumed
	}
	return found
}

// extractByPatterns scans the raw buffer for filename and address
// signatures, ignoring record boundaries entirely.
func extractByPatterns(buf []byte, info *domain.IdentityInfo) bool {
	found := false

	if m := applNameRaw.FindSubmatch(buf); m != nil {
		info.ApplicationName = string(m[1])
		found = true
	}

	if m := connAddr.FindSubmatch(buf); m != nil {
		info.ClientAddress = string(m[1])
		info.ConnectionName = string(m[1]) + "(" + string(m[2]) + ")"
		found = true
	} else if m := bareAddr.Find(buf); m != nil {
		info.ClientAddress = string(m)
		found = true
	}

	return found
}

// extractFromText re-applies the filename and address patterns against
// a lossy text rendering of the buffer. Last resort.
func extractFromText(buf []byte, info *domain.IdentityInfo) bool {
	text := strings.ToValidUTF8(string(buf), "")
	found := false

	if m := applNameText.FindStringSubmatch(text); m != nil {
		info.ApplicationName = m[1]
		found = true
	}
	if m := bareAddr.FindString(text); m != "" {
		info.ClientAddress = m
		found = true
	}

	return found
}

// salvageText strips padding and drops invalid UTF-8 instead of
// preserving it, since identity fields feed labels and log output.
func salvageText(raw []byte) string {
	s := strings.TrimRight(string(raw), "\x00 ")
	return strings.TrimSpace(strings.ToValidUTF8(s, ""))
}
