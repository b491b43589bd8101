// Package seal stores arbitrary data inside a PNG as a run of private chunks.
//
// The data is optionally compressed with LZ4 and optionally encrypted with
// AES-256-CFB under a scrypt derived key. The scrypt salt and the IV live in
// their own chunk so a sealed file can be opened with nothing but the password.
package seal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/crypto/scrypt"

	"github.com/trivernis/pngmsg/internal/png"
)

const (
	keyLength  = 32
	saltLength = 32

	flagCompressed = 0x01

	// an LZ4 block cannot expand by more than this factor
	maxLZ4Ratio = 255
)

// magic starts every sealed payload so a wrong password is detected.
var magic = [4]byte{'P', 'M', 'S', 'G'}

var (
	// ErrNoPayload indicates the file holds no sealed chunks.
	ErrNoPayload = errors.New("no sealed payload")
	// ErrAlreadySealed indicates the file already holds sealed chunks.
	ErrAlreadySealed = errors.New("file already holds a sealed payload")
	// ErrPasswordRequired indicates an encrypted payload was opened without a password.
	ErrPasswordRequired = errors.New("payload is encrypted, password required")
	// ErrCorrupt indicates a payload that cannot be decoded, or a wrong password.
	ErrCorrupt = errors.New("corrupt payload or wrong password")
	// ErrInvalidOptions indicates unusable options.
	ErrInvalidOptions = errors.New("invalid options")
)

// Options configures sealing and opening.
type Options struct {
	// DataType and SaltType are the chunk types used for the payload and the salt.
	DataType png.ChunkType
	SaltType png.ChunkType

	// Password enables encryption when not empty.
	Password []byte

	// Compress enables LZ4 compression before encryption.
	Compress bool

	// ChunkSize is the maximum payload size of each data chunk.
	ChunkSize int

	// Scrypt cost parameters.
	ScryptN int
	ScryptR int
	ScryptP int

	// OnChunk is called after each data chunk is written or read.
	OnChunk func(done, total int)
}

func (o *Options) progress(done, total int) {
	if o.OnChunk != nil {
		o.OnChunk(done, total)
	}
}

// addChunk keeps IEND the last chunk when there is one.
func addChunk(p *png.Png, c *png.Chunk) {
	if err := p.InsertChunkBefore("IEND", c); err != nil {
		p.AppendChunk(c)
	}
}

// Seal stores data inside p and returns the number of data chunks written.
// p is left untouched when an error is returned.
func Seal(p *png.Png, data []byte, opts Options) (int, error) {
	if opts.ChunkSize <= 0 {
		return 0, fmt.Errorf("%w: chunk size %d", ErrInvalidOptions, opts.ChunkSize)
	}
	if opts.DataType == opts.SaltType {
		return 0, fmt.Errorf("%w: data and salt chunk types are both %s", ErrInvalidOptions, opts.DataType)
	}
	if len(p.ChunksByType(opts.DataType.String())) != 0 {
		return 0, ErrAlreadySealed
	}

	payload, err := encode(data, opts.Compress)
	if err != nil {
		return 0, err
	}

	var km *keyMaterial
	if len(opts.Password) != 0 {
		km, err = newKeyMaterial()
		if err != nil {
			return 0, err
		}

		stream, err := km.stream(opts, false)
		if err != nil {
			return 0, err
		}
		stream.XORKeyStream(payload, payload)
	}

	// a stale salt would make an unencrypted payload look encrypted
	p.RemoveChunksByType(opts.SaltType.String())
	if km != nil {
		addChunk(p, png.NewChunk(opts.SaltType, km.bytes()))
	}

	total := (len(payload) + opts.ChunkSize - 1) / opts.ChunkSize
	for i := 0; i < total; i++ {
		start := i * opts.ChunkSize
		end := start + opts.ChunkSize
		if end > len(payload) {
			end = len(payload)
		}

		addChunk(p, png.NewChunk(opts.DataType, payload[start:end]))
		opts.progress(i+1, total)
	}

	return total, nil
}

// Encrypted reports whether p holds key material for an encrypted payload.
func Encrypted(p *png.Png, opts Options) bool {
	_, err := p.ChunkByType(opts.SaltType.String())
	return err == nil
}

// Open reads back the data stored by Seal.
func Open(p *png.Png, opts Options) ([]byte, error) {
	chunks := p.ChunksByType(opts.DataType.String())
	if len(chunks) == 0 {
		return nil, ErrNoPayload
	}

	var payload []byte
	for i, c := range chunks {
		payload = append(payload, c.Data()...)
		opts.progress(i+1, len(chunks))
	}

	saltChunk, err := p.ChunkByType(opts.SaltType.String())
	if err == nil {
		if len(opts.Password) == 0 {
			return nil, ErrPasswordRequired
		}

		km, err := parseKeyMaterial(saltChunk.Data())
		if err != nil {
			return nil, err
		}

		stream, err := km.stream(opts, true)
		if err != nil {
			return nil, err
		}
		stream.XORKeyStream(payload, payload)
	}

	return decode(payload)
}

// Strip removes every sealed chunk and returns how many were removed.
func Strip(p *png.Png, opts Options) int {
	return p.RemoveChunksByType(opts.DataType.String()) +
		p.RemoveChunksByType(opts.SaltType.String())
}

// encode prefixes data with the payload header, compressing it when asked.
// Data that LZ4 cannot shrink is stored as is.
func encode(data []byte, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])

	if compress && len(data) > 0 {
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}

		if n > 0 && n < len(data) {
			buf.WriteByte(flagCompressed)
			buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(data))))
			buf.Write(dst[:n])
			return buf.Bytes(), nil
		}
	}

	buf.WriteByte(0)
	buf.Write(data)
	return buf.Bytes(), nil
}

func decode(payload []byte) ([]byte, error) {
	if len(payload) < len(magic)+1 || !bytes.Equal(payload[:len(magic)], magic[:]) {
		return nil, ErrCorrupt
	}

	flags := payload[len(magic)]
	body := payload[len(magic)+1:]

	switch flags {
	case 0:
		return body, nil

	case flagCompressed:
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: missing uncompressed size", ErrCorrupt)
		}

		size := uint64(binary.BigEndian.Uint32(body))
		if size > uint64(len(body)-4)*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: uncompressed size %d from %d compressed bytes", ErrCorrupt, size, len(body)-4)
		}

		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body[4:], out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
		}
		if n != len(out) {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, n, len(out))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown flags 0x%02x", ErrCorrupt, flags)
	}
}

// keyMaterial is the content of the salt chunk:
// the scrypt salt followed by the CFB initialization vector.
type keyMaterial struct {
	salt []byte
	iv   []byte
}

func newKeyMaterial() (*keyMaterial, error) {
	buf := make([]byte, saltLength+aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}

	return &keyMaterial{salt: buf[:saltLength], iv: buf[saltLength:]}, nil
}

func parseKeyMaterial(b []byte) (*keyMaterial, error) {
	if len(b) != saltLength+aes.BlockSize {
		return nil, fmt.Errorf("%w: salt chunk has %d bytes, want %d", ErrCorrupt, len(b), saltLength+aes.BlockSize)
	}

	return &keyMaterial{salt: b[:saltLength], iv: b[saltLength:]}, nil
}

func (km *keyMaterial) bytes() []byte {
	return append(append([]byte(nil), km.salt...), km.iv...)
}

// stream derives the key from the password and returns the CFB keystream.
func (km *keyMaterial) stream(opts Options, decrypt bool) (cipher.Stream, error) {
	key, err := scrypt.Key(opts.Password, km.salt, opts.ScryptN, opts.ScryptR, opts.ScryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if decrypt {
		return cipher.NewCFBDecrypter(block, km.iv), nil //nolint:staticcheck
	}
	return cipher.NewCFBEncrypter(block, km.iv), nil //nolint:staticcheck
}
