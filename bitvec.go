package bitvec

import (
	"cmp"
	"fmt"

	"github.com/hupe1980/bitvec/internal/bits"
)

// WordBits is the number of bits held by a single backing word.
const WordBits = 64

// Create returns a zeroed word array large enough to hold length bits.
// The result has exactly ceil(length/64) words; length 0 yields an empty
// slice (the arithmetic right shift keeps the shared formula safe at zero).
func Create(length int) []uint64 {
	return make([]uint64, ((length-1)>>6)+1)
}

// CompareTo lexicographically compares two vectors of equal word length,
// treating the arrays as big-endian sequences of unsigned 64-bit limbs with
// limb 0 most significant. It returns -1, 0, or +1.
//
// Equal length is a caller contract and is not checked.
func CompareTo(a, b []uint64) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Get reads a bit range of the given length starting at offset. The range
// may span at most two adjacent words; the second word's low bits are merged
// above the chunk taken from the first.
//
// Length must be in [0, 64] or ErrInvalidRangeLength is returned. The caller
// guarantees that offset+length addresses bits inside the backing array.
func Get(vector []uint64, offset, length int) (uint64, error) {
	if length < 0 || length > WordBits {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRangeLength, length)
	}

	idx := offset >> 6
	bitIdx := offset & 63

	truncatedLen := min(length, WordBits-bitIdx)
	val := (vector[idx] >> uint(bitIdx)) & bits.MaskBelow(truncatedLen)

	if truncatedLen != length {
		val |= (vector[idx+1] & bits.MaskBelow(length-truncatedLen)) << uint(truncatedLen)
	}

	return val, nil
}

// Overwrite replaces the bit range [offset, offset+length) of the vector
// with the low length bits of val, leaving every bit outside the range
// untouched. It mutates at most words idx and idx+1.
//
// Length must be in [0, 64] or ErrInvalidRangeLength is returned and the
// vector is left unmodified.
func Overwrite(vector []uint64, val uint64, offset, length int) error {
	if length < 0 || length > WordBits {
		return fmt.Errorf("%w: got %d", ErrInvalidRangeLength, length)
	}

	// Bits of val above length must not leak outside the cleared range.
	val &= bits.MaskBelow(length)

	idx := offset >> 6
	bitIdx := offset & 63

	truncatedValLen := min(length, WordBits-bitIdx)
	vector[idx] &^= bits.MaskBelow(truncatedValLen) << uint(bitIdx)
	vector[idx] |= val << uint(bitIdx)

	if truncatedValLen != length {
		mask := bits.MaskBelow(length - truncatedValLen)
		vector[idx+1] &^= mask
		vector[idx+1] |= val >> uint(truncatedValLen)
	}

	return nil
}

// Copy copies length bits from src starting at srcOffset into dst starting
// at dstOffset, without intermediate allocation. Each iteration moves the
// largest chunk that fits the remainders of both the current source word and
// the current destination word.
//
// Copy only ORs bits into dst; the destination region must be pre-zeroed, as
// it is for freshly created vectors. Note the in-word shift uses the
// destination bit index, not the global offset: Go zeroes shifts >= 64
// rather than reducing them mod 64.
func Copy(src []uint64, srcOffset int, dst []uint64, dstOffset, length int) {
	srcLimit := srcOffset + length

	for srcOffset < srcLimit {
		srcIdx := srcOffset & 63
		dstIdx := dstOffset & 63

		chunkLen := min(WordBits-srcIdx, WordBits-dstIdx)
		mask := bits.MaskBelow(chunkLen) << uint(srcIdx)
		dst[dstOffset>>6] |= ((src[srcOffset>>6] & mask) >> uint(srcIdx)) << uint(dstIdx)

		srcOffset += chunkLen
		dstOffset += chunkLen
	}
}

// Insert returns a copy of the vector grown to vectorLen+length bits, with
// length zero bits spliced in at offset and every bit at or above offset
// shifted up by length. The input vector is not mutated.
func Insert(vector []uint64, vectorLen, offset, length int) []uint64 {
	updated := Create(vectorLen + length)

	idx := offset >> 6
	copy(updated, vector[:idx])

	if delta := offset & 63; delta != 0 {
		updated[idx] |= vector[idx] & bits.MaskBelow(delta)
	}

	Copy(vector, offset, updated, offset+length, vectorLen-offset)

	return updated
}

// Remove returns a copy of the vector shrunk to vectorLen-length bits, with
// the bit range [offset, offset+length) excised and every higher bit shifted
// down by length. The input vector is not mutated.
func Remove(vector []uint64, vectorLen, offset, length int) []uint64 {
	updated := Create(vectorLen - length)

	idx := offset >> 6
	copy(updated, vector[:idx])

	if delta := offset & 63; delta != 0 {
		updated[idx] |= vector[idx] & bits.MaskBelow(delta)
	}

	Copy(vector, offset+length, updated, offset, vectorLen-(offset+length))

	return updated
}

// Interleave produces the bit-wise interleaving of the given single-word
// vectors, a vector of logical length bitsPerVector*len(vectors). Source
// bits are taken ascending (least-significant first), visiting the vectors
// from the last index down to the first, and emitted at a write cursor that
// starts at the top bit of the allocated capacity and moves downward.
//
// Within an output word the emitted bit lands at position 63-(cursor&63),
// i.e. bit 0 of an output word is its most-significant bit. This reversed
// convention is what makes CompareTo over two interleavings agree with the
// numeric ordering of the conceptual interleaved integer, so it must not be
// "harmonized" with the LSB-first addressing used by Get and Overwrite.
func Interleave(bitsPerVector int, vectors []uint64) []uint64 {
	interleaved := Create(bitsPerVector * len(vectors))

	offset := (len(interleaved) << 6) - 1
	for i := 0; i < bitsPerVector; i++ {
		mask := uint64(1) << uint(i)

		for j := len(vectors) - 1; j >= 0; j-- {
			val := (vectors[j] & mask) >> uint(i)
			interleaved[offset>>6] |= val << uint(63-(offset&63))
			offset--
		}
	}

	return interleaved
}

// Deinterleave is the inverse of Interleave: it recovers count single-word
// vectors of width bitsPerVector from an interleaved vector produced with
// the same parameters.
func Deinterleave(bitsPerVector, count int, interleaved []uint64) []uint64 {
	vectors := make([]uint64, count)

	offset := (len(interleaved) << 6) - 1
	for i := 0; i < bitsPerVector; i++ {
		for j := count - 1; j >= 0; j-- {
			bit := (interleaved[offset>>6] >> uint(63-(offset&63))) & 1
			vectors[j] |= bit << uint(i)
			offset--
		}
	}

	return vectors
}
