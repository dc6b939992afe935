package bitvec

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitvec/internal/bits"
	"github.com/hupe1980/bitvec/testutil"
)

// bitAt reads a single bit under the LSB-first addressing used by Get.
func bitAt(vector []uint64, offset int) uint64 {
	return (vector[offset>>6] >> uint(offset&63)) & 1
}

func TestCreate_Sizing(t *testing.T) {
	if got := Create(0); len(got) != 0 {
		t.Fatalf("Create(0) has %d words, want 0", len(got))
	}

	for length := 1; length <= 256; length++ {
		v := Create(length)
		want := (length + 63) / 64
		if len(v) != want {
			t.Fatalf("Create(%d) has %d words, want %d", length, len(v), want)
		}
		for i, w := range v {
			if w != 0 {
				t.Fatalf("Create(%d) word %d = %#x, want 0", length, i, w)
			}
		}
	}
}

func TestGet_InvalidRangeLength(t *testing.T) {
	v := Create(128)

	for _, length := range []int{-1, -64, 65, 1000} {
		_, err := Get(v, 0, length)
		require.ErrorIs(t, err, ErrInvalidRangeLength, "length %d", length)
	}
}

func TestOverwrite_InvalidRangeLength(t *testing.T) {
	v := []uint64{0xDEADBEEF, 0xCAFEBABE}
	before := slices.Clone(v)

	for _, length := range []int{-1, 65} {
		err := Overwrite(v, ^uint64(0), 0, length)
		require.ErrorIs(t, err, ErrInvalidRangeLength, "length %d", length)
		require.Equal(t, before, v, "vector mutated on rejected length %d", length)
	}
}

// TestGetOverwrite_RoundTrip sweeps every (offset, length) pair over a
// three-word vector, checking that the written value reads back exactly and
// that no bit outside the target range moves.
func TestGetOverwrite_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(1)
	const totalBits = 192

	for length := 0; length <= 64; length++ {
		for offset := 0; offset+length <= totalBits; offset++ {
			base := rng.Words(3)
			v := slices.Clone(base)

			// Deliberately dirty above bit `length`; Overwrite must mask.
			val := rng.Uint64()

			if err := Overwrite(v, val, offset, length); err != nil {
				t.Fatalf("seed %d: Overwrite(offset=%d, length=%d): %v", rng.Seed(), offset, length, err)
			}

			want := val & bits.MaskBelow(length)
			got, err := Get(v, offset, length)
			if err != nil {
				t.Fatalf("seed %d: Get(offset=%d, length=%d): %v", rng.Seed(), offset, length, err)
			}
			if got != want {
				t.Fatalf("seed %d: Get(offset=%d, length=%d) = %#x, want %#x", rng.Seed(), offset, length, got, want)
			}

			for b := 0; b < totalBits; b++ {
				if b >= offset && b < offset+length {
					wantBit := (want >> uint(b-offset)) & 1
					if bitAt(v, b) != wantBit {
						t.Fatalf("seed %d: offset=%d length=%d: bit %d = %d, want %d", rng.Seed(), offset, length, b, bitAt(v, b), wantBit)
					}
				} else if bitAt(v, b) != bitAt(base, b) {
					t.Fatalf("seed %d: offset=%d length=%d: bit %d outside range changed", rng.Seed(), offset, length, b)
				}
			}
		}
	}
}

func TestGet_WordBoundary(t *testing.T) {
	tests := []struct {
		name     string
		vector   []uint64
		expected uint64
	}{
		{"both set", []uint64{1 << 63, 1}, 0b11},
		{"low only", []uint64{1 << 63, 0}, 0b01},
		{"high only", []uint64{0, 1}, 0b10},
		{"neither", []uint64{0, 0}, 0b00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(tt.vector, 63, 2)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestOverwrite_WordBoundary(t *testing.T) {
	v := []uint64{^uint64(0), ^uint64(0)}

	require.NoError(t, Overwrite(v, 0, 63, 2))

	// Bits [0,62] of word 0 and [1,63] of word 1 must survive.
	require.Equal(t, ^uint64(0)>>1, v[0])
	require.Equal(t, ^uint64(1), v[1])

	require.NoError(t, Overwrite(v, 0b11, 63, 2))
	require.Equal(t, ^uint64(0), v[0])
	require.Equal(t, ^uint64(0), v[1])
}

func TestOverwrite_FullWord(t *testing.T) {
	v := []uint64{0, 0xAAAAAAAAAAAAAAAA}

	require.NoError(t, Overwrite(v, 0x123456789ABCDEF0, 0, 64))
	require.Equal(t, uint64(0x123456789ABCDEF0), v[0])
	require.Equal(t, uint64(0xAAAAAAAAAAAAAAAA), v[1])
}

func TestCopy_Unaligned(t *testing.T) {
	rng := testutil.NewRNG(2)

	for iter := 0; iter < 500; iter++ {
		src := rng.Words(4)
		length := rng.Intn(200)
		srcOffset := rng.Intn(256 - length + 1)
		dstOffset := rng.Intn(256 - length + 1)
		dst := Create(256)

		Copy(src, srcOffset, dst, dstOffset, length)

		for b := 0; b < length; b++ {
			if bitAt(dst, dstOffset+b) != bitAt(src, srcOffset+b) {
				t.Fatalf("seed %d iter %d: bit %d of copied range differs (srcOffset=%d dstOffset=%d length=%d)",
					rng.Seed(), iter, b, srcOffset, dstOffset, length)
			}
		}
		for b := 0; b < dstOffset; b++ {
			if bitAt(dst, b) != 0 {
				t.Fatalf("seed %d iter %d: bit %d below destination range set", rng.Seed(), iter, b)
			}
		}
	}
}

// Copy never clears destination bits: a pre-populated region below the
// target range must survive untouched.
func TestCopy_PreservesBitsBelowRange(t *testing.T) {
	src := []uint64{^uint64(0)}
	dst := Create(128)
	require.NoError(t, Overwrite(dst, 0x7, 0, 3))

	Copy(src, 0, dst, 64, 64)

	low, err := Get(dst, 0, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(0x7), low)
	require.Equal(t, ^uint64(0), dst[1])
}

func TestInsert_ZeroRange(t *testing.T) {
	rng := testutil.NewRNG(3)
	const vectorLen = 150

	for iter := 0; iter < 300; iter++ {
		v := randomVector(rng, vectorLen)
		offset := rng.Intn(vectorLen + 1)
		length := rng.Intn(130)

		updated := Insert(v, vectorLen, offset, length)

		if want := (vectorLen + length + 63) / 64; len(updated) != want {
			t.Fatalf("iter %d: %d words, want %d", iter, len(updated), want)
		}
		for b := 0; b < offset; b++ {
			if bitAt(updated, b) != bitAt(v, b) {
				t.Fatalf("seed %d iter %d: prefix bit %d changed (offset=%d length=%d)", rng.Seed(), iter, b, offset, length)
			}
		}
		for b := offset; b < offset+length; b++ {
			if bitAt(updated, b) != 0 {
				t.Fatalf("seed %d iter %d: inserted bit %d not zero (offset=%d length=%d)", rng.Seed(), iter, b, offset, length)
			}
		}
		for b := offset; b < vectorLen; b++ {
			if bitAt(updated, b+length) != bitAt(v, b) {
				t.Fatalf("seed %d iter %d: shifted bit %d differs (offset=%d length=%d)", rng.Seed(), iter, b, offset, length)
			}
		}
	}
}

func TestInsert_ZeroLengthAtWordBoundary(t *testing.T) {
	rng := testutil.NewRNG(4)
	v := rng.Words(2)

	updated := Insert(v, 128, 64, 0)

	require.Equal(t, v, updated)
}

func TestInsert_DoesNotMutateInput(t *testing.T) {
	rng := testutil.NewRNG(5)
	v := rng.Words(3)
	before := slices.Clone(v)

	Insert(v, 192, 100, 17)
	require.Equal(t, before, v)

	Remove(v, 192, 100, 17)
	require.Equal(t, before, v)
}

func TestRemove_ShiftsTailDown(t *testing.T) {
	rng := testutil.NewRNG(6)
	const vectorLen = 150

	for iter := 0; iter < 300; iter++ {
		v := randomVector(rng, vectorLen)
		offset := rng.Intn(vectorLen + 1)
		length := rng.Intn(vectorLen - offset + 1)

		updated := Remove(v, vectorLen, offset, length)

		for b := 0; b < offset; b++ {
			if bitAt(updated, b) != bitAt(v, b) {
				t.Fatalf("seed %d iter %d: prefix bit %d changed (offset=%d length=%d)", rng.Seed(), iter, b, offset, length)
			}
		}
		for b := offset + length; b < vectorLen; b++ {
			if bitAt(updated, b-length) != bitAt(v, b) {
				t.Fatalf("seed %d iter %d: tail bit %d differs (offset=%d length=%d)", rng.Seed(), iter, b, offset, length)
			}
		}
	}
}

// Remove is the inverse of Insert over the original logical range.
func TestRemoveInsert_Inverse(t *testing.T) {
	rng := testutil.NewRNG(7)
	const vectorLen = 150

	for iter := 0; iter < 300; iter++ {
		v := randomVector(rng, vectorLen)
		offset := rng.Intn(vectorLen + 1)
		length := rng.Intn(100)

		restored := Remove(Insert(v, vectorLen, offset, length), vectorLen+length, offset, length)

		for b := 0; b < vectorLen; b++ {
			if bitAt(restored, b) != bitAt(v, b) {
				t.Fatalf("seed %d iter %d: bit %d differs after remove(insert(...)) (offset=%d length=%d)",
					rng.Seed(), iter, b, offset, length)
			}
		}
	}
}

func TestCompareTo(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []uint64
		expected int
	}{
		{"equal empty", nil, nil, 0},
		{"equal", []uint64{1, 2}, []uint64{1, 2}, 0},
		{"first word dominates", []uint64{1, 0}, []uint64{0, ^uint64(0)}, 1},
		{"second word decides", []uint64{5, 1}, []uint64{5, 2}, -1},
		// Limbs compare as unsigned: a signed 64-bit subtraction would
		// order 1<<63 below 1.
		{"unsigned limbs", []uint64{1 << 63}, []uint64{1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, CompareTo(tt.a, tt.b))
			require.Equal(t, -tt.expected, CompareTo(tt.b, tt.a))
		})
	}
}

func TestCompareTo_Antisymmetric(t *testing.T) {
	rng := testutil.NewRNG(8)

	for iter := 0; iter < 1000; iter++ {
		a := rng.Words(2)
		b := rng.Words(2)
		if rng.Intn(4) == 0 {
			b = slices.Clone(a)
		}

		ab, ba := CompareTo(a, b), CompareTo(b, a)
		if ab != -ba {
			t.Fatalf("seed %d iter %d: CompareTo not antisymmetric: %d vs %d", rng.Seed(), iter, ab, ba)
		}
		if (ab == 0) != slices.Equal(a, b) {
			t.Fatalf("seed %d iter %d: CompareTo zero iff equal violated", rng.Seed(), iter)
		}
	}
}

// The literal from the interleave algorithm, computed by hand:
// emission order is (bit 0 of vector 1) -> cursor 63, (bit 0 of vector 0) ->
// cursor 62, (bit 1 of vector 1) -> cursor 61, (bit 1 of vector 0) ->
// cursor 60; cursor c writes physical bit 63-(c&63). For vectors
// {0b10, 0b01} that yields physical bits {0, 3} set.
func TestInterleave_Literal(t *testing.T) {
	got := Interleave(2, []uint64{0b10, 0b01})
	require.Equal(t, []uint64{0b1001}, got)
}

// refMorton interleaves two coordinates the textbook way: bit i of y at
// position 2i, bit i of x at position 2i+1.
func refMorton(x, y uint64, bitsPerVector int) uint64 {
	var out uint64
	for i := 0; i < bitsPerVector; i++ {
		out |= ((y >> uint(i)) & 1) << uint(2*i)
		out |= ((x >> uint(i)) & 1) << uint(2*i+1)
	}
	return out
}

func TestInterleave_MatchesReferenceMorton(t *testing.T) {
	rng := testutil.NewRNG(9)

	for _, bitsPerVector := range []int{4, 8, 16} {
		for iter := 0; iter < 500; iter++ {
			x := rng.Uint64n(bitsPerVector)
			y := rng.Uint64n(bitsPerVector)

			got := Interleave(bitsPerVector, []uint64{x, y})
			if len(got) != 1 {
				t.Fatalf("bits=%d: expected single word, got %d", bitsPerVector, len(got))
			}
			if want := refMorton(x, y, bitsPerVector); got[0] != want {
				t.Fatalf("seed %d bits=%d: Interleave(%#x, %#x) = %#x, want %#x", rng.Seed(), bitsPerVector, x, y, got[0], want)
			}
		}
	}
}

// Comparator order over interleavings must equal numeric order of the
// conceptual interleaved integer, for all widths in the property set.
func TestInterleave_Ordering(t *testing.T) {
	rng := testutil.NewRNG(10)

	for _, bitsPerVector := range []int{4, 8, 16} {
		for iter := 0; iter < 500; iter++ {
			x1, y1 := rng.Uint64n(bitsPerVector), rng.Uint64n(bitsPerVector)
			x2, y2 := rng.Uint64n(bitsPerVector), rng.Uint64n(bitsPerVector)

			a := Interleave(bitsPerVector, []uint64{x1, y1})
			b := Interleave(bitsPerVector, []uint64{x2, y2})

			want := cmp.Compare(refMorton(x1, y1, bitsPerVector), refMorton(x2, y2, bitsPerVector))
			if got := CompareTo(a, b); got != want {
				t.Fatalf("seed %d bits=%d: CompareTo = %d, want %d for (%d,%d) vs (%d,%d)",
					rng.Seed(), bitsPerVector, got, want, x1, y1, x2, y2)
			}
		}
	}
}

func TestDeinterleave_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(11)

	for iter := 0; iter < 500; iter++ {
		count := 1 + rng.Intn(4)
		bitsPerVector := 1 + rng.Intn(32)

		vectors := make([]uint64, count)
		for i := range vectors {
			vectors[i] = rng.Uint64n(bitsPerVector)
		}

		interleaved := Interleave(bitsPerVector, vectors)
		recovered := Deinterleave(bitsPerVector, count, interleaved)

		if !slices.Equal(vectors, recovered) {
			t.Fatalf("seed %d iter %d: round trip failed: %v -> %v (count=%d bits=%d)",
				rng.Seed(), iter, vectors, recovered, count, bitsPerVector)
		}
	}
}

// randomVector returns a vector with exactly vectorLen significant bits;
// padding above vectorLen is zero, as for vectors built via Create.
func randomVector(rng *testutil.RNG, vectorLen int) []uint64 {
	v := rng.Words((vectorLen + 63) / 64)
	if rem := vectorLen & 63; rem != 0 {
		v[len(v)-1] &= bits.MaskBelow(rem)
	}
	return v
}
