package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm for a segment.
type Compression uint8

const (
	// CompressionNone stores the payload raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd block compression (better ratio, good for
	// cold data).
	CompressionZstd Compression = 2
)

func (c Compression) valid() bool {
	return c == CompressionNone || c == CompressionLZ4 || c == CompressionZstd
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBlock prefixes the payload with the block header and compresses it
// with the selected algorithm. Incompressible payloads are stored raw
// (compressedSize 0).
func compressBlock(payload []byte, compression Compression) ([]byte, error) {
	if !compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(compression))
	}
	if len(payload) > maxBlockSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds block limit", ErrInvalidVector, len(payload))
	}

	var compressed []byte
	switch compression {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(payload, nil)
		zstdEncoderPool.Put(enc)
	}

	// Store raw when compression is off or does not pay for itself.
	if len(compressed) == 0 || len(compressed) >= len(payload) {
		block := make([]byte, blockHeaderSize+len(payload))
		binary.LittleEndian.PutUint32(block[0:], uint32(len(payload)))
		binary.LittleEndian.PutUint32(block[4:], 0)
		copy(block[blockHeaderSize:], payload)
		return block, nil
	}

	block := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	copy(block[blockHeaderSize:], compressed)
	return block, nil
}

func decompressBlock(block []byte, compression Compression) ([]byte, error) {
	if !compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(compression))
	}
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block header", ErrTruncated)
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	data := block[blockHeaderSize:]

	// The size fields are untrusted input; bound them before allocating.
	if uncompressedSize > maxBlockSize {
		return nil, fmt.Errorf("%w: block claims %d bytes", ErrTruncated, uncompressedSize)
	}

	if compressedSize == 0 {
		if uint32(len(data)) < uncompressedSize {
			return nil, fmt.Errorf("%w: raw block", ErrTruncated)
		}
		return data[:uncompressedSize], nil
	}

	if uint32(len(data)) < compressedSize {
		return nil, fmt.Errorf("%w: compressed block", ErrTruncated)
	}
	data = data[:compressedSize]

	switch compression {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: lz4 size mismatch", ErrTruncated)
		}
		return out, nil

	case CompressionZstd:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(data, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("%w: zstd size mismatch", ErrTruncated)
		}
		return out, nil

	default:
		// compressedSize != 0 is impossible for CompressionNone.
		return nil, fmt.Errorf("%w: compressed block without algorithm", ErrUnknownCompression)
	}
}
