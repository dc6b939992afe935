// Package bits provides word-level helpers shared by the bitvec primitives.
package bits

// MaskBelow returns a word with the lowest n bits set, for n in [0, 64].
//
// Go defines shifts by counts >= the operand width to yield zero, so the
// branchless form is total over the whole domain: n=0 yields 0 and n=64
// yields all ones.
func MaskBelow(n int) uint64 {
	return (uint64(1) << uint(n)) - 1
}
