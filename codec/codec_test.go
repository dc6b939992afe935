package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitvec"
	"github.com/hupe1980/bitvec/testutil"
)

func randomVectors(rng *testutil.RNG, count int) []Vector {
	vectors := make([]Vector, count)
	for i := range vectors {
		bitLen := rng.Intn(500)
		words := bitvec.Create(bitLen)
		for j := range words {
			words[j] = rng.Uint64()
		}
		// Keep padding above the logical length zero, as Create-built
		// vectors have.
		if rem := bitLen & 63; rem != 0 {
			words[len(words)-1] &= (uint64(1) << uint(rem)) - 1
		}
		vectors[i] = Vector{Words: words, Len: bitLen}
	}
	return vectors
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(40)

	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			vectors := randomVectors(rng, 20)

			data, err := Encode(vectors, compression)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, vectors, decoded)
		})
	}
}

func TestEncodeDecode_Empty(t *testing.T) {
	data, err := Encode(nil, CompressionNone)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestEncode_InvalidVector(t *testing.T) {
	_, err := Encode([]Vector{{Words: make([]uint64, 3), Len: 64}}, CompressionNone)
	require.ErrorIs(t, err, ErrInvalidVector)

	_, err = Encode([]Vector{{Words: nil, Len: 1}}, CompressionNone)
	require.ErrorIs(t, err, ErrInvalidVector)

	_, err = Encode([]Vector{{Words: nil, Len: -1}}, CompressionNone)
	require.ErrorIs(t, err, ErrInvalidVector)
}

func TestEncode_UnknownCompression(t *testing.T) {
	_, err := Encode(nil, Compression(9))
	require.ErrorIs(t, err, ErrUnknownCompression)
}

func TestDecode_BadFrames(t *testing.T) {
	rng := testutil.NewRNG(41)
	data, err := Encode(randomVectors(rng, 5), CompressionLZ4)
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(data[:8])
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[0] ^= 0xFF
		_, err := Decode(corrupted)
		require.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[4] = 99
		_, err := Decode(corrupted)
		require.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[len(corrupted)-10] ^= 0x01
		_, err := Decode(corrupted)

		var mismatch *ChecksumMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.NotEqual(t, mismatch.Expected, mismatch.Actual)
	})
}

func TestEncodeToDecodeFrom(t *testing.T) {
	rng := testutil.NewRNG(42)
	vectors := randomVectors(rng, 10)

	var buf bytes.Buffer
	require.NoError(t, EncodeTo(&buf, vectors, CompressionZstd))

	decoded, err := DecodeFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, vectors, decoded)
}

func TestCompression_String(t *testing.T) {
	require.Equal(t, "none", CompressionNone.String())
	require.Equal(t, "lz4", CompressionLZ4.String())
	require.Equal(t, "zstd", CompressionZstd.String())
	require.Equal(t, "unknown(7)", Compression(7).String())
}
