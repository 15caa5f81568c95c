// Package zstd provides a payload codec that compresses payloads with
// Zstandard. The entire payload (metadata and body) is compressed into a new
// payload carrying the binary/zstd encoding, so type manifests shrink along
// with the body. Payloads below the size threshold and payloads produced by
// other codecs pass through untouched, keeping chains compatible with
// history written before compression was enabled.
package zstd

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/loomworks/fidelity"
)

// Encoding identifies compressed payloads produced by this codec.
const Encoding = "binary/zstd"

// DefaultMinSize is the body size below which payloads are not compressed.
// Small payloads usually grow under compression once framing is added.
const DefaultMinSize = 1024

// Codec compresses payloads with Zstandard. Safe for concurrent use.
type Codec struct {
	enc     *zstd.Encoder
	dec     *zstd.Decoder
	minSize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithMinSize sets the body size threshold below which payloads pass through
// uncompressed.
func WithMinSize(n int) Option {
	return func(c *Codec) {
		c.minSize = n
	}
}

// New creates a zstd payload codec at the given compression level.
func New(level zstd.EncoderLevel, opts ...Option) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd: encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: decoder: %w", err)
	}
	c := &Codec{enc: enc, dec: dec, minSize: DefaultMinSize}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name identifies the codec in pipeline traces.
func (c *Codec) Name() string {
	return "zstd"
}

// Encode compresses the payload when its body meets the size threshold.
func (c *Codec) Encode(_ context.Context, p *fidelity.Payload) (*fidelity.Payload, error) {
	if p == nil || len(p.Data) < c.minSize {
		return p, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("zstd: marshal payload: %w", err)
	}
	compressed := c.enc.EncodeAll(raw, nil)
	// Compression is not worth it if the result did not shrink.
	if len(compressed) >= len(raw) {
		return p, nil
	}
	return &fidelity.Payload{
		Metadata: fidelity.Metadata{
			fidelity.MetadataEncoding: fidelity.EncodeText(Encoding),
		},
		Data: compressed,
	}, nil
}

// Decode decompresses payloads this codec produced and passes every other
// payload through.
func (c *Codec) Decode(_ context.Context, p *fidelity.Payload) (*fidelity.Payload, error) {
	if p == nil || p.Encoding() != Encoding {
		return p, nil
	}
	if p.Data == nil {
		return nil, fidelity.ErrMissingData
	}
	raw, err := c.dec.DecodeAll(p.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: decompress: %w", err)
	}
	var inner fidelity.Payload
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("zstd: unmarshal payload: %w", err)
	}
	return &inner, nil
}

var _ fidelity.PayloadCodec = (*Codec)(nil)
