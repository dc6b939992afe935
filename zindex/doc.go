// Package zindex provides an in-memory spatial index of record IDs keyed by
// Z-order codes.
//
// Records are inserted under N-dimensional coordinates; the index keeps the
// distinct interleaved keys sorted by bitvec.CompareTo, each with a Roaring
// bitmap of the record IDs stored at that point. Box queries scan the key
// range between the interleavings of the box corners and reject the Z-curve
// false positives by deinterleaving candidate keys.
//
// The index is not safe for concurrent mutation, matching the concurrency
// model of the underlying primitives; callers synchronize externally.
package zindex
