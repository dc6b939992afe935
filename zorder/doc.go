// Package zorder builds spatially-local composite keys (Morton / Z-order
// codes) on top of the bitvec interleaving primitive.
//
// A Key packs N coordinates of equal bit width into one interleaved word
// array. Keys of the same shape compare with bitvec.CompareTo, and that
// ordering equals the numeric ordering of the interleaved integer, so
// Z-order range scans reduce to plain array comparison. Key.Bytes produces a
// big-endian encoding whose bytewise order matches Compare, for use as
// storage keys.
package zorder
