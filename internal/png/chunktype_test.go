package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTypeFromBytes(t *testing.T) {
	ct := ChunkTypeFromBytes([4]byte{82, 117, 83, 116})
	require.Equal(t, [4]byte{82, 117, 83, 116}, ct.Bytes())
	require.Equal(t, uint32(0x52755374), ct.Uint32())
}

func TestParseChunkType(t *testing.T) {
	ct, err := ParseChunkType("RuSt")
	require.NoError(t, err)
	require.Equal(t, ChunkTypeFromBytes([4]byte{82, 117, 83, 116}), ct)
	require.Equal(t, "RuSt", ct.String())
}

func TestParseChunkTypeErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", "RuS"},
		{"long", "RuStY"},
		{"non-ascii", "Rué"},
	} {
		t.Run(ca.name, func(t *testing.T) {
			_, err := ParseChunkType(ca.in)
			require.ErrorIs(t, err, ErrInvalidTypeString)
		})
	}
}

func TestChunkTypeProperties(t *testing.T) {
	for _, ca := range []struct {
		name       string
		valid      bool
		critical   bool
		public     bool
		reserved   bool
		safeToCopy bool
	}{
		{"RuSt", true, true, false, true, true},
		{"ruSt", true, false, false, true, true},
		{"RUSt", true, true, true, true, true},
		{"RuST", true, true, false, true, false},
		{"IHDR", true, true, true, true, false},
		{"tEXt", true, false, true, true, true},
		{"Rust", false, false, false, false, false},
		{"Ru1t", false, false, false, false, false},
		{"R St", false, false, false, false, false},
	} {
		t.Run(ca.name, func(t *testing.T) {
			ct, err := ParseChunkType(ca.name)
			require.NoError(t, err)
			require.Equal(t, ca.valid, ct.IsValid())
			require.Equal(t, ca.critical, ct.IsCritical())
			require.Equal(t, ca.public, ct.IsPublic())
			require.Equal(t, ca.reserved, ct.IsReservedBitValid())
			require.Equal(t, ca.safeToCopy, ct.IsSafeToCopy())
		})
	}
}

func TestChunkTypeText(t *testing.T) {
	ct := ChunkTypeFromBytes([4]byte{0xff, 'a', 'B', 'c'})

	_, err := ct.Text()
	require.ErrorIs(t, err, ErrEncoding)
	require.Equal(t, `"\xffaBc"`, ct.String())
}

func TestChunkTypeEquality(t *testing.T) {
	a, err := ParseChunkType("RuSt")
	require.NoError(t, err)
	b := ChunkTypeFromBytes([4]byte{'R', 'u', 'S', 't'})
	c := ChunkTypeFromBytes([4]byte{'R', 'u', 'S', 'T'})

	require.True(t, a == b)
	require.False(t, a == c)
}
