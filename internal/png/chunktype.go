package png

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// ChunkType is the 4 byte type code of a chunk.
// The case of each letter carries one property bit:
//
//	byte 0: uppercase = critical, lowercase = ancillary
//	byte 1: uppercase = public, lowercase = private
//	byte 2: must be uppercase (reserved)
//	byte 3: uppercase = unsafe to copy, lowercase = safe to copy
type ChunkType [4]byte

// ChunkTypeFromBytes builds a chunk type from raw bytes.
// Any 4 bytes are accepted, use IsValid to check them.
func ChunkTypeFromBytes(b [4]byte) ChunkType {
	return ChunkType(b)
}

// ParseChunkType builds a chunk type from a 4 character ASCII name.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, fmt.Errorf("%w: %q has %d bytes, want 4", ErrInvalidTypeString, s, len(s))
	}

	var t ChunkType
	for i := 0; i < 4; i++ {
		if s[i] >= utf8.RuneSelf {
			return ChunkType{}, fmt.Errorf("%w: %q contains non-ASCII byte 0x%02x", ErrInvalidTypeString, s, s[i])
		}
		t[i] = s[i]
	}

	return t, nil
}

// Bytes returns the raw type code.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// Uint32 returns the type code as a big-endian integer.
func (t ChunkType) Uint32() uint32 {
	return binary.BigEndian.Uint32(t[:])
}

func isLetter(b byte) bool {
	return isUpper(b) || (b >= 'a' && b <= 'z')
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// IsValid reports whether all bytes are ASCII letters and the reserved byte is uppercase.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if !isLetter(b) {
			return false
		}
	}

	return isUpper(t[2])
}

// IsCritical reports whether the type is valid and critical.
func (t ChunkType) IsCritical() bool {
	return t.IsValid() && isUpper(t[0])
}

// IsPublic reports whether the type is valid and public.
func (t ChunkType) IsPublic() bool {
	return t.IsValid() && isUpper(t[1])
}

// IsReservedBitValid reports whether the type is valid and its reserved bit is clear.
func (t ChunkType) IsReservedBitValid() bool {
	return t.IsValid() && isUpper(t[2])
}

// IsSafeToCopy reports whether the type is valid and safe to copy.
func (t ChunkType) IsSafeToCopy() bool {
	return t.IsValid() && !isUpper(t[3])
}

// Text returns the type code as text, failing on invalid UTF-8.
func (t ChunkType) Text() (string, error) {
	if !utf8.Valid(t[:]) {
		return "", fmt.Errorf("%w: chunk type % x", ErrEncoding, t[:])
	}

	return string(t[:]), nil
}

// String implements fmt.Stringer.
// Types that are not valid UTF-8 are rendered as a quoted escape sequence.
func (t ChunkType) String() string {
	s, err := t.Text()
	if err != nil {
		return fmt.Sprintf("%q", t[:])
	}

	return s
}
