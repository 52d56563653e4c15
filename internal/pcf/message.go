package pcf

import (
	"github.com/rs/zerolog/log"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
)

// DecodeMessage decodes a complete PCF message: the fixed header, then
// the parameter stream. The only failure mode is a buffer too short for
// the header; everything past that degrades to a partial result.
func DecodeMessage(buf []byte) (*domain.Message, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	if header.Corrupted {
		log.Debug().
			Str("reason", header.CorruptionReason).
			Int("message_size", len(buf)).
			Msg("Corruption signature in PCF header")
	}

	params := DecodeParameters(buf[HeaderSize:], header.ParameterCount)

	return &domain.Message{
		Header:     header,
		Parameters: params,
		Size:       len(buf),
	}, nil
}
