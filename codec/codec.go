package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

const (
	// Magic identifies a bit-vector segment frame ("BITV").
	Magic uint32 = 0x42495456

	// Version is the current frame format version.
	Version uint8 = 1

	headerSize      = 4 + 1 + 1
	blockHeaderSize = 8
	checksumSize    = 4

	// maxBlockSize bounds the uncompressed payload of a single segment.
	maxBlockSize = 1 << 30
)

var (
	// ErrInvalidMagic is returned when a frame does not start with Magic.
	ErrInvalidMagic = errors.New("invalid segment magic")

	// ErrInvalidVersion is returned for an unsupported frame version.
	ErrInvalidVersion = errors.New("unsupported segment version")

	// ErrUnknownCompression is returned for an unrecognized compression
	// byte.
	ErrUnknownCompression = errors.New("unknown compression")

	// ErrInvalidVector is returned by Encode when a vector's word count
	// does not match its logical bit length.
	ErrInvalidVector = errors.New("invalid vector shape")

	// ErrTruncated is returned when a frame or payload ends early.
	ErrTruncated = errors.New("truncated segment")
)

// ChecksumMismatchError is returned when the frame trailer does not match
// the recomputed CRC32.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Vector pairs a word array with the logical bit length the caller tracks
// alongside it. Invariant: len(Words) == ceil(Len/64).
type Vector struct {
	Words []uint64
	Len   int
}

// Encode frames the vectors into a segment using the given compression.
func Encode(vectors []Vector, compression Compression) ([]byte, error) {
	payload, err := appendPayload(nil, vectors)
	if err != nil {
		return nil, err
	}

	block, err := compressBlock(payload, compression)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, headerSize+len(block)+checksumSize)
	buf = binary.LittleEndian.AppendUint32(buf, Magic)
	buf = append(buf, Version, byte(compression))
	buf = append(buf, block...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

	return buf, nil
}

// Decode verifies and unpacks a segment frame.
func Decode(data []byte) ([]Vector, error) {
	if len(data) < headerSize+blockHeaderSize+checksumSize {
		return nil, ErrTruncated
	}

	if magic := binary.LittleEndian.Uint32(data); magic != Magic {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic)
	}
	if version := data[4]; version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, version)
	}
	compression := Compression(data[5])

	body, trailer := data[:len(data)-checksumSize], data[len(data)-checksumSize:]
	expected := binary.LittleEndian.Uint32(trailer)
	if actual := crc32.ChecksumIEEE(body); actual != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	payload, err := decompressBlock(body[headerSize:], compression)
	if err != nil {
		return nil, err
	}

	return parsePayload(payload)
}

// EncodeTo frames the vectors and writes the segment to w.
func EncodeTo(w io.Writer, vectors []Vector, compression Compression) error {
	data, err := Encode(vectors, compression)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DecodeFrom reads a whole segment from r and unpacks it.
func DecodeFrom(r io.Reader) ([]Vector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func appendPayload(buf []byte, vectors []Vector) ([]byte, error) {
	buf = binary.AppendUvarint(buf, uint64(len(vectors)))

	for i, v := range vectors {
		if v.Len < 0 || len(v.Words) != (v.Len+63)/64 {
			return nil, fmt.Errorf("%w: vector %d has %d words for %d bits", ErrInvalidVector, i, len(v.Words), v.Len)
		}
		buf = binary.AppendUvarint(buf, uint64(v.Len))
		for _, w := range v.Words {
			buf = binary.LittleEndian.AppendUint64(buf, w)
		}
	}

	return buf, nil
}

func parsePayload(data []byte) ([]Vector, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad vector count", ErrTruncated)
	}
	data = data[n:]

	// Cap the preallocation: count is attacker-controlled input.
	vectors := make([]Vector, 0, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		bitLen, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, fmt.Errorf("%w: bad bit length for vector %d", ErrTruncated, i)
		}
		if bitLen > uint64(math.MaxInt-63) {
			return nil, fmt.Errorf("%w: vector %d bit length overflows", ErrInvalidVector, i)
		}
		data = data[n:]

		words := int((bitLen + 63) / 64)
		if len(data) < words*8 {
			return nil, fmt.Errorf("%w: vector %d needs %d words", ErrTruncated, i, words)
		}

		v := Vector{Words: make([]uint64, words), Len: int(bitLen)}
		for j := range v.Words {
			v.Words[j] = binary.LittleEndian.Uint64(data[j*8:])
		}
		data = data[words*8:]

		vectors = append(vectors, v)
	}

	return vectors, nil
}
