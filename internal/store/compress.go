package store

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// minCompressSize skips compression for payloads too small to benefit.
const minCompressSize = 128

type compressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCompressor(level int) (*compressor, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &compressor{enc: enc, dec: dec}, nil
}

// compress returns data unchanged when compression does not help.
func (c *compressor) compress(data []byte) ([]byte, error) {
	if len(data) < minCompressSize {
		return data, nil
	}
	compressed := c.enc.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data, nil
	}
	return compressed, nil
}

// decompress accepts both compressed and stored-as-is objects: bytes that
// do not carry a zstd frame are returned unchanged.
func (c *compressor) decompress(data []byte) ([]byte, error) {
	decompressed, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return data, nil
	}
	return decompressed, nil
}
