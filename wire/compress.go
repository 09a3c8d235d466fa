package wire

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/schema"
)

// Compressor wraps the binary codec with ZStandard compression for
// persisted or batched request payloads. Create once and reuse to
// eliminate allocations. Safe for concurrent use.
type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCompressor creates a reusable compressing codec. Uses
// SpeedDefault (level 3) for balanced compression ratio and speed.
// Caller must call Close() when done to release resources.
func NewCompressor() (*Compressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("wire: create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("wire: create zstd decoder: %w", err)
	}
	return &Compressor{encoder: encoder, decoder: decoder}, nil
}

// Encode renders a request as compressed MessagePack.
func (c *Compressor) Encode(req filterql.Request) ([]byte, error) {
	data, err := EncodeBinary(req)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, 0, len(data)/2)
	return c.encoder.EncodeAll(data, dst), nil
}

// Decode parses a compressed MessagePack payload against the schema.
func (c *Compressor) Decode(data []byte, s *schema.Schema) (filterql.Request, error) {
	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return filterql.Request{}, &DecodeError{Err: fmt.Errorf("decompress: %w", err)}
	}
	return DecodeBinary(decompressed, s)
}

// Close releases compressor resources.
func (c *Compressor) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}
