package zorder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/bitvec"
)

var (
	// ErrInvalidBits is returned when the per-coordinate bit width falls
	// outside [1, 64].
	ErrInvalidBits = errors.New("bits per coordinate must be in [1, 64]")

	// ErrNoCoords is returned when a key is requested for zero coordinates.
	ErrNoCoords = errors.New("at least one coordinate is required")

	// ErrCoordOverflow is returned when a coordinate does not fit the
	// configured bit width.
	ErrCoordOverflow = errors.New("coordinate exceeds bit width")

	// ErrShapeMismatch is returned when coordinate slices or encoded keys
	// disagree with the expected shape.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Key is an interleaved composite key over dims coordinates of bits width
// each. The zero Key is invalid; construct keys with Encode or
// KeyFromBytes.
type Key struct {
	words []uint64
	bits  int
	dims  int
}

// Encode interleaves the coordinates into a Key. Every coordinate must fit
// in bitsPerCoord bits.
func Encode(bitsPerCoord int, coords ...uint64) (Key, error) {
	if bitsPerCoord < 1 || bitsPerCoord > 64 {
		return Key{}, fmt.Errorf("%w: got %d", ErrInvalidBits, bitsPerCoord)
	}
	if len(coords) == 0 {
		return Key{}, ErrNoCoords
	}
	for i, c := range coords {
		if bitsPerCoord < 64 && c>>uint(bitsPerCoord) != 0 {
			return Key{}, fmt.Errorf("%w: coordinate %d = %d needs more than %d bits", ErrCoordOverflow, i, c, bitsPerCoord)
		}
	}

	return Key{
		words: bitvec.Interleave(bitsPerCoord, coords),
		bits:  bitsPerCoord,
		dims:  len(coords),
	}, nil
}

// Bits returns the per-coordinate bit width.
func (k Key) Bits() int { return k.bits }

// Dims returns the number of interleaved coordinates.
func (k Key) Dims() int { return k.dims }

// Words exposes the backing word array in interleaved (MSB-first per word)
// layout. The slice is shared, not copied; treat it as read-only.
func (k Key) Words() []uint64 { return k.words }

// Compare orders two keys of the same shape. The result matches the numeric
// ordering of the interleaved integers, which for Z-order codes means
// spatial locality is preserved.
func (k Key) Compare(other Key) int {
	return bitvec.CompareTo(k.words, other.words)
}

// Equal reports whether both keys have the same shape and value.
func (k Key) Equal(other Key) bool {
	return k.bits == other.bits && k.dims == other.dims && k.Compare(other) == 0
}

// Coords deinterleaves the key back into its coordinates.
func (k Key) Coords() []uint64 {
	return bitvec.Deinterleave(k.bits, k.dims, k.words)
}

// Bytes encodes the key big-endian, word 0 first, so that bytes.Compare
// over two encodings of the same shape agrees with Compare.
func (k Key) Bytes() []byte {
	buf := make([]byte, 0, len(k.words)*8)
	for _, w := range k.words {
		buf = binary.BigEndian.AppendUint64(buf, w)
	}
	return buf
}

// KeyFromBytes reverses Key.Bytes for a key of the given shape.
func KeyFromBytes(data []byte, bitsPerCoord, dims int) (Key, error) {
	if bitsPerCoord < 1 || bitsPerCoord > 64 {
		return Key{}, fmt.Errorf("%w: got %d", ErrInvalidBits, bitsPerCoord)
	}
	if dims < 1 {
		return Key{}, ErrNoCoords
	}

	words := bitvec.Create(bitsPerCoord * dims)
	if len(data) != len(words)*8 {
		return Key{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShapeMismatch, len(data), len(words)*8)
	}
	for i := range words {
		words[i] = binary.BigEndian.Uint64(data[i*8:])
	}

	return Key{words: words, bits: bitsPerCoord, dims: dims}, nil
}

// MinKey returns the smallest key of the given shape (all coordinates
// zero).
func MinKey(bitsPerCoord, dims int) (Key, error) {
	coords := make([]uint64, dims)
	return Encode(bitsPerCoord, coords...)
}

// MaxKey returns the largest key of the given shape (all coordinate bits
// set).
func MaxKey(bitsPerCoord, dims int) (Key, error) {
	if bitsPerCoord < 1 || bitsPerCoord > 64 {
		return Key{}, fmt.Errorf("%w: got %d", ErrInvalidBits, bitsPerCoord)
	}
	coords := make([]uint64, dims)
	for i := range coords {
		coords[i] = ^uint64(0) >> uint(64-bitsPerCoord)
	}
	return Encode(bitsPerCoord, coords...)
}

// InBox reports whether coords lie inside the inclusive box [min, max],
// coordinate-wise. All three slices must have equal length.
func InBox(coords, min, max []uint64) bool {
	for i := range coords {
		if coords[i] < min[i] || coords[i] > max[i] {
			return false
		}
	}
	return true
}
