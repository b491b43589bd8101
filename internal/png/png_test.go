package png

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, s string) ChunkType {
	t.Helper()

	ct, err := ParseChunkType(s)
	require.NoError(t, err)
	return ct
}

func testingChunks(t *testing.T) []*Chunk {
	return []*Chunk{
		NewChunk(mustType(t, "FrSt"), []byte("I am the first chunk")),
		NewChunk(mustType(t, "miDl"), []byte("I am another chunk")),
		NewChunk(mustType(t, "LASe"), []byte("I am the last chunk")),
	}
}

func testingStream(t *testing.T) []byte {
	buf := append([]byte(nil), Signature[:]...)
	for _, c := range testingChunks(t) {
		buf = append(buf, c.Bytes()...)
	}
	return buf
}

func TestParse(t *testing.T) {
	p, err := Parse(testingStream(t))
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())

	chunks := p.Chunks()
	require.Equal(t, "FrSt", chunks[0].Type().String())
	require.Equal(t, "miDl", chunks[1].Type().String())
	require.Equal(t, "LASe", chunks[2].Type().String())
}

func TestParseSignatureOnly(t *testing.T) {
	p, err := Parse(Signature[:])
	require.NoError(t, err)
	require.Equal(t, 0, p.Len())
	require.Equal(t, Signature[:], p.Bytes())
}

func TestRead(t *testing.T) {
	stream := testingStream(t)
	p, err := Read(bytes.NewReader(stream))
	require.NoError(t, err)
	require.Equal(t, stream, p.Bytes())
}

func TestParseErrors(t *testing.T) {
	stream := testingStream(t)

	badSig := bytes.Clone(stream)
	badSig[1] = 'p'

	badCRC := bytes.Clone(stream)
	badCRC[len(Signature)+8] ^= 0x01

	hugeLength := bytes.Clone(stream)
	binary.BigEndian.PutUint32(hugeLength[len(Signature):], 0xffffffff)

	for _, ca := range []struct {
		name string
		in   []byte
		err  error
	}{
		{"empty", nil, ErrBadSignature},
		{"short-signature", Signature[:5], ErrBadSignature},
		{"bad-signature", badSig, ErrBadSignature},
		{"bad-crc", badCRC, ErrCRCMismatch},
		{"dangling-length", append(bytes.Clone(stream), 0, 0), ErrTruncatedChunk},
		{"cut-last-chunk", stream[:len(stream)-1], ErrTruncatedChunk},
		{"length-past-end", hugeLength, ErrTruncatedChunk},
	} {
		t.Run(ca.name, func(t *testing.T) {
			p, err := Parse(ca.in)
			require.ErrorIs(t, err, ca.err)
			require.Nil(t, p)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	stream := testingStream(t)
	p, err := Parse(stream)
	require.NoError(t, err)
	require.Equal(t, stream, p.Bytes())

	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(stream)), n)
	require.Equal(t, stream, buf.Bytes())
}

func TestChunkByType(t *testing.T) {
	p := New(testingChunks(t)...)

	c, err := p.ChunkByType("miDl")
	require.NoError(t, err)
	text, err := c.Text()
	require.NoError(t, err)
	require.Equal(t, "I am another chunk", text)

	_, err = p.ChunkByType("zzZz")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChunkByTypeFirstMatch(t *testing.T) {
	p := New(testingChunks(t)...)
	p.AppendChunk(NewChunk(mustType(t, "miDl"), []byte("second")))

	c, err := p.ChunkByType("miDl")
	require.NoError(t, err)
	require.Equal(t, []byte("I am another chunk"), c.Data())

	all := p.ChunksByType("miDl")
	require.Len(t, all, 2)
	require.Equal(t, []byte("second"), all[1].Data())
}

func TestAppendRemove(t *testing.T) {
	p, err := Parse(testingStream(t))
	require.NoError(t, err)
	before := p.Bytes()

	p.AppendChunk(NewChunk(mustType(t, "teSt"), []byte("hello")))
	require.Equal(t, 4, p.Len())

	removed, err := p.RemoveChunkByType("teSt")
	require.NoError(t, err)
	text, err := removed.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Equal(t, before, p.Bytes())
}

func TestRemoveChunkByTypeKeepsOrder(t *testing.T) {
	p := New(testingChunks(t)...)

	_, err := p.RemoveChunkByType("miDl")
	require.NoError(t, err)

	chunks := p.Chunks()
	require.Len(t, chunks, 2)
	require.Equal(t, "FrSt", chunks[0].Type().String())
	require.Equal(t, "LASe", chunks[1].Type().String())
}

func TestRemoveChunkByTypeMissing(t *testing.T) {
	p := New(testingChunks(t)...)
	before := p.Bytes()

	_, err := p.RemoveChunkByType("zzZz")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, before, p.Bytes())
}

func TestRemoveChunksByType(t *testing.T) {
	p := New(testingChunks(t)...)
	p.AppendChunk(NewChunk(mustType(t, "miDl"), nil))

	require.Equal(t, 2, p.RemoveChunksByType("miDl"))
	require.Equal(t, 2, p.Len())
	require.Equal(t, 0, p.RemoveChunksByType("miDl"))
}

func TestInsertChunkBefore(t *testing.T) {
	p := New(testingChunks(t)...)

	err := p.InsertChunkBefore("LASe", NewChunk(mustType(t, "teSt"), nil))
	require.NoError(t, err)

	chunks := p.Chunks()
	require.Equal(t, "teSt", chunks[2].Type().String())
	require.Equal(t, "LASe", chunks[3].Type().String())

	err = p.InsertChunkBefore("zzZz", NewChunk(mustType(t, "teSt"), nil))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 4, p.Len())
}

func TestChunksReturnsCopy(t *testing.T) {
	p := New(testingChunks(t)...)
	chunks := p.Chunks()
	chunks[0] = nil

	c, err := p.ChunkByType("FrSt")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestEndToEnd(t *testing.T) {
	first := NewChunk(mustType(t, "RuSt"), []byte(testMessage))
	stream := append(append([]byte(nil), Signature[:]...), first.Bytes()...)

	p, err := Parse(stream)
	require.NoError(t, err)

	c, err := p.ChunkByType("RuSt")
	require.NoError(t, err)
	require.Equal(t, uint32(42), c.Length())
	require.Equal(t, uint32(2882656334), c.CRC())

	extra := []byte("another message")
	p.AppendChunk(NewChunk(mustType(t, "teSt"), extra))

	out := p.Bytes()
	require.Len(t, out, len(stream)+12+len(extra))
	require.Equal(t, stream, out[:len(stream)])
}

func TestPngString(t *testing.T) {
	p := New(testingChunks(t)...)
	s := p.String()

	require.True(t, strings.HasPrefix(s, "Png{signature: 89 50 4e 47 0d 0a 1a 0a, chunks: 3}\n"))
	require.Contains(t, s, "type: miDl")
}
