package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// chunkOverhead is the size of the length, type and CRC fields.
const chunkOverhead = 12

// Chunk is one length-prefixed, CRC protected record.
type Chunk struct {
	length    uint32
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// checksum computes the CRC over the type code and the payload.
// The IEEE table of hash/crc32 is the CRC used by PNG.
func checksum(t ChunkType, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, t[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// NewChunk creates a chunk with the given type and payload.
func NewChunk(t ChunkType, data []byte) *Chunk {
	payload := make([]byte, len(data))
	copy(payload, data)

	return &Chunk{
		length:    uint32(len(payload)),
		chunkType: t,
		data:      payload,
		crc:       checksum(t, payload),
	}
}

// ParseChunk parses a single serialized chunk.
// The payload spans everything between the type and the trailing CRC,
// the length field is carried through as declared.
func ParseChunk(b []byte) (*Chunk, error) {
	if len(b) < chunkOverhead {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooShort, len(b))
	}

	var t ChunkType
	copy(t[:], b[4:8])

	data := make([]byte, len(b)-chunkOverhead)
	copy(data, b[8:len(b)-4])

	stored := binary.BigEndian.Uint32(b[len(b)-4:])
	if computed := checksum(t, data); computed != stored {
		return nil, fmt.Errorf("%w: chunk %s: stored 0x%08x, computed 0x%08x", ErrCRCMismatch, t, stored, computed)
	}

	return &Chunk{
		length:    binary.BigEndian.Uint32(b[0:4]),
		chunkType: t,
		data:      data,
		crc:       stored,
	}, nil
}

// Length returns the declared payload length.
func (c *Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the payload. It must not be modified.
func (c *Chunk) Data() []byte {
	return c.data
}

// CRC returns the checksum of the chunk.
func (c *Chunk) CRC() uint32 {
	return c.crc
}

// Text interprets the payload as UTF-8 text.
func (c *Chunk) Text() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("%w: payload of chunk %s", ErrEncoding, c.chunkType)
	}

	return string(c.data), nil
}

// Bytes returns the on-wire form of the chunk.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, 0, chunkOverhead+len(c.data))
	buf = binary.BigEndian.AppendUint32(buf, c.length)
	buf = append(buf, c.chunkType[:]...)
	buf = append(buf, c.data...)
	return binary.BigEndian.AppendUint32(buf, c.crc)
}

// WriteTo implements io.WriterTo.
func (c *Chunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// String implements fmt.Stringer.
func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk{length: %d, type: %s, crc: 0x%08x, data: %d bytes}",
		c.length, c.chunkType, c.crc, len(c.data))
}
