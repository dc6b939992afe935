// Package codec provides the durable binary framing for bit-vector
// segments.
//
// A segment is a collection of bit vectors, each persisted together with its
// logical bit length (the backing array alone does not carry it). The frame
// is a magic/version header, one compressible payload block, and a CRC32-IEEE
// trailer over everything before it:
//
//	magic       uint32 LE  ("BITV")
//	version     uint8
//	compression uint8
//	block       uncompressedSize uint32 LE, compressedSize uint32 LE, data
//	checksum    uint32 LE
//
// A compressedSize of 0 marks a block stored raw, which also happens when
// compression does not pay for itself. The payload is a uvarint vector
// count followed by, per vector, a uvarint logical bit length and its words
// little-endian.
package codec
