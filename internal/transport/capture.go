package transport

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CaptureWriter appends length-prefixed, zstd-compressed wire packets to an
// underlying writer, for offline replay via q2netdump.
type CaptureWriter struct {
	enc *zstd.Encoder
}

// NewCaptureWriter wraps w with a zstd encoder.
func NewCaptureWriter(w io.Writer) (*CaptureWriter, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("transport: new zstd encoder: %w", err)
	}
	return &CaptureWriter{enc: enc}, nil
}

// WritePacket appends one length-prefixed packet to the capture stream.
func (c *CaptureWriter) WritePacket(data []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := c.enc.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("transport: write capture length: %w", err)
	}
	if _, err := c.enc.Write(data); err != nil {
		return fmt.Errorf("transport: write capture payload: %w", err)
	}
	return nil
}

func (c *CaptureWriter) Close() error {
	return c.enc.Close()
}

// CaptureSource replays a zstd-compressed capture file as a PacketSource,
// for q2netdump. It implements PacketSource but ignores ctx since decoding
// is purely local.
type CaptureSource struct {
	dec  *zstd.Decoder
	data []byte
	pos  int
}

// OpenCapture decompresses the entire capture into memory and prepares it
// for sequential ReadPacket calls; capture files are small enough (single
// demo sessions) that streaming decode adds complexity with no benefit.
func OpenCapture(r io.Reader) (*CaptureSource, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("transport: new zstd decoder: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		dec.Close()
		return nil, fmt.Errorf("transport: decompress capture: %w", err)
	}
	return &CaptureSource{dec: dec, data: buf.Bytes()}, nil
}

func (c *CaptureSource) ReadPacket(ctx context.Context) ([]byte, error) {
	if c.pos+4 > len(c.data) {
		return nil, io.EOF
	}
	n := int(binary.LittleEndian.Uint32(c.data[c.pos:]))
	c.pos += 4
	if c.pos+n > len(c.data) {
		return nil, fmt.Errorf("transport: capture truncated")
	}
	pkt := c.data[c.pos : c.pos+n]
	c.pos += n
	return pkt, nil
}

func (c *CaptureSource) Close() error {
	c.dec.Close()
	return nil
}
