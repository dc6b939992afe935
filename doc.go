// Package bitvec provides fixed-word bit-addressable vector primitives.
//
// A bit vector is a plain []uint64 word array plus a logical bit length that
// the caller tracks alongside it. Word i holds global bit offsets
// [64*i, 64*i+63], with bit 0 of a word being its least-significant bit. The
// package exposes free functions only; there is no wrapping type and no
// hidden state.
//
// # Operations
//
//	Create      allocate the minimal zeroed array for a bit length
//	Get         read an unsigned value of width <= 64 at any bit offset
//	Overwrite   write an unsigned value of width <= 64 at any bit offset
//	Copy        move an arbitrary-length bit range between vectors
//	Insert      splice a zeroed bit range into a vector, shifting higher bits up
//	Remove      excise a bit range from a vector, shifting higher bits down
//	CompareTo   lexicographic word-wise comparison (word 0 most significant)
//	Interleave  bit-interleave N single-word vectors into a composite key
//
// Get and Overwrite transparently span the boundary between two adjacent
// words. Interleave uses a reversed per-word bit convention (bit 0 of an
// output word is its most-significant bit) so that CompareTo over two
// interleaved vectors matches the numeric ordering of the conceptual
// interleaved integer. This enables Z-order range queries via plain array
// comparison; see the zorder and zindex packages.
//
// # Preconditions
//
// Only the range length of Get and Overwrite is validated
// (ErrInvalidRangeLength). All other contracts are the caller's
// responsibility: offsets must address bits inside the backing array,
// CompareTo operands must have equal length, and the destination region of
// Copy must be pre-zeroed (Copy ORs bits in, it never clears).
//
// No operation is safe for concurrent mutation of a shared backing array;
// callers serialize writes externally.
package bitvec
