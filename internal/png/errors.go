package png

import "errors"

var (
	// ErrBadSignature indicates the stream does not start with the PNG signature.
	ErrBadSignature = errors.New("bad PNG signature")
	// ErrTooShort indicates a chunk span is shorter than the 12 byte minimum.
	ErrTooShort = errors.New("chunk too short")
	// ErrTruncatedChunk indicates a declared chunk length runs past the end of the input.
	ErrTruncatedChunk = errors.New("truncated chunk")
	// ErrCRCMismatch indicates the stored CRC does not match the chunk contents.
	ErrCRCMismatch = errors.New("CRC mismatch")
	// ErrEncoding indicates bytes that are not valid UTF-8 text.
	ErrEncoding = errors.New("invalid UTF-8")
	// ErrNotFound indicates no chunk of the requested type exists.
	ErrNotFound = errors.New("chunk not found")
	// ErrInvalidTypeString indicates a chunk type name that is not 4 ASCII characters.
	ErrInvalidTypeString = errors.New("invalid chunk type string")
)
