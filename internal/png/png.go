// Package png reads and writes the chunk container of PNG files.
//
// The package never looks inside chunk payloads: IHDR, IDAT and friends are
// opaque records. A Png holds the whole file in memory as an ordered list of
// chunks and serializes back to the exact input when left untouched.
package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Signature is the fixed header of every PNG stream.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Png is a signature followed by an ordered list of chunks.
type Png struct {
	chunks []*Chunk
}

// New creates a container holding the given chunks.
func New(chunks ...*Chunk) *Png {
	return &Png{chunks: append([]*Chunk(nil), chunks...)}
}

// Parse parses a complete PNG stream.
func Parse(b []byte) (*Png, error) {
	if len(b) < len(Signature) || !bytes.Equal(b[:len(Signature)], Signature[:]) {
		n := len(b)
		if n > len(Signature) {
			n = len(Signature)
		}
		return nil, fmt.Errorf("%w: % x", ErrBadSignature, b[:n])
	}

	p := &Png{}
	offset := len(Signature)
	for offset < len(b) {
		rest := len(b) - offset
		if rest < 4 {
			return nil, fmt.Errorf("%w: chunk %d at offset %d: %d bytes left for length field",
				ErrTruncatedChunk, len(p.chunks), offset, rest)
		}

		span := uint64(binary.BigEndian.Uint32(b[offset:])) + chunkOverhead
		if span > uint64(rest) {
			return nil, fmt.Errorf("%w: chunk %d at offset %d: needs %d bytes, %d left",
				ErrTruncatedChunk, len(p.chunks), offset, span, rest)
		}

		c, err := ParseChunk(b[offset : offset+int(span)])
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), offset, err)
		}

		p.chunks = append(p.chunks, c)
		offset += int(span)
	}

	return p, nil
}

// Read reads r to the end and parses the result.
func Read(r io.Reader) (*Png, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(b)
}

// Chunks returns the chunks in serialization order.
func (p *Png) Chunks() []*Chunk {
	return append([]*Chunk(nil), p.chunks...)
}

// Len returns the number of chunks.
func (p *Png) Len() int {
	return len(p.chunks)
}

// AppendChunk adds c after the last chunk.
func (p *Png) AppendChunk(c *Chunk) {
	p.chunks = append(p.chunks, c)
}

func (p *Png) index(name string) int {
	for i, c := range p.chunks {
		if c.Type().String() == name {
			return i
		}
	}

	return -1
}

// ChunkByType returns the first chunk whose type is name.
func (p *Png) ChunkByType(name string) (*Chunk, error) {
	i := p.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return p.chunks[i], nil
}

// ChunksByType returns every chunk whose type is name, in order.
func (p *Png) ChunksByType(name string) []*Chunk {
	var out []*Chunk
	for _, c := range p.chunks {
		if c.Type().String() == name {
			out = append(out, c)
		}
	}

	return out
}

// RemoveChunkByType removes and returns the first chunk whose type is name.
func (p *Png) RemoveChunkByType(name string) (*Chunk, error) {
	i := p.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	c := p.chunks[i]
	p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
	return c, nil
}

// RemoveChunksByType removes every chunk whose type is name
// and returns how many were removed.
func (p *Png) RemoveChunksByType(name string) int {
	kept := p.chunks[:0]
	for _, c := range p.chunks {
		if c.Type().String() != name {
			kept = append(kept, c)
		}
	}

	n := len(p.chunks) - len(kept)
	for i := len(kept); i < len(p.chunks); i++ {
		p.chunks[i] = nil
	}
	p.chunks = kept
	return n
}

// InsertChunkBefore inserts c right before the first chunk whose type is name.
func (p *Png) InsertChunkBefore(name string, c *Chunk) error {
	i := p.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	p.chunks = append(p.chunks, nil)
	copy(p.chunks[i+1:], p.chunks[i:])
	p.chunks[i] = c
	return nil
}

// Bytes returns the serialized stream.
func (p *Png) Bytes() []byte {
	size := len(Signature)
	for _, c := range p.chunks {
		size += chunkOverhead + len(c.data)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Signature[:]...)
	for _, c := range p.chunks {
		buf = append(buf, c.Bytes()...)
	}

	return buf
}

// WriteTo implements io.WriterTo.
func (p *Png) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}

// String implements fmt.Stringer.
func (p *Png) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Png{signature: % x, chunks: %d}\n", Signature[:], len(p.chunks))
	for i, c := range p.chunks {
		fmt.Fprintf(&sb, "  %d: %s\n", i, c)
	}

	return sb.String()
}
