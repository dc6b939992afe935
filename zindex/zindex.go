package zindex

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/bitvec/zorder"
)

// ErrDimensionMismatch is returned when a coordinate slice does not match
// the dimensionality the index was created with.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Index maps N-dimensional points to sets of record IDs, ordered by the
// Z-order code of the point.
type Index struct {
	bits int
	dims int

	// keys is sorted ascending by zorder.Key.Compare; ids is parallel.
	keys []zorder.Key
	ids  []*roaring.Bitmap
}

// New creates an empty index over dims coordinates of bitsPerCoord bits
// each.
func New(bitsPerCoord, dims int) (*Index, error) {
	// Validate the shape once up front by encoding the origin.
	if _, err := zorder.MinKey(bitsPerCoord, dims); err != nil {
		return nil, err
	}
	return &Index{bits: bitsPerCoord, dims: dims}, nil
}

// Bits returns the per-coordinate bit width.
func (ix *Index) Bits() int { return ix.bits }

// Dims returns the index dimensionality.
func (ix *Index) Dims() int { return ix.dims }

// Len returns the number of distinct points in the index.
func (ix *Index) Len() int { return len(ix.keys) }

// Cardinality returns the total number of stored record IDs.
func (ix *Index) Cardinality() uint64 {
	var total uint64
	for _, b := range ix.ids {
		total += b.GetCardinality()
	}
	return total
}

func (ix *Index) encode(coords []uint64) (zorder.Key, error) {
	if len(coords) != ix.dims {
		return zorder.Key{}, fmt.Errorf("%w: got %d coordinates, want %d", ErrDimensionMismatch, len(coords), ix.dims)
	}
	return zorder.Encode(ix.bits, coords...)
}

// search returns the position of key in the sorted key slice and whether it
// is present.
func (ix *Index) search(key zorder.Key) (int, bool) {
	pos := sort.Search(len(ix.keys), func(i int) bool {
		return ix.keys[i].Compare(key) >= 0
	})
	return pos, pos < len(ix.keys) && ix.keys[pos].Compare(key) == 0
}

// Insert stores a record ID at the given point.
func (ix *Index) Insert(coords []uint64, id uint32) error {
	key, err := ix.encode(coords)
	if err != nil {
		return err
	}

	pos, found := ix.search(key)
	if found {
		ix.ids[pos].Add(id)
		return nil
	}

	ix.keys = slices.Insert(ix.keys, pos, key)
	ix.ids = slices.Insert(ix.ids, pos, roaring.BitmapOf(id))
	return nil
}

// Delete removes a record ID from the given point, dropping the point once
// its last ID is gone. It reports whether the ID was present.
func (ix *Index) Delete(coords []uint64, id uint32) (bool, error) {
	key, err := ix.encode(coords)
	if err != nil {
		return false, err
	}

	pos, found := ix.search(key)
	if !found || !ix.ids[pos].Contains(id) {
		return false, nil
	}

	ix.ids[pos].Remove(id)
	if ix.ids[pos].IsEmpty() {
		ix.keys = slices.Delete(ix.keys, pos, pos+1)
		ix.ids = slices.Delete(ix.ids, pos, pos+1)
	}
	return true, nil
}

// Query returns the union of record IDs whose coordinates lie inside the
// inclusive box [min, max]. Candidates come from the contiguous key range
// between the box corners' Z-order codes; keys on the Z-curve's excursions
// outside the box are filtered out by deinterleaving.
func (ix *Index) Query(min, max []uint64) (*roaring.Bitmap, error) {
	lo, err := ix.encode(min)
	if err != nil {
		return nil, err
	}
	hi, err := ix.encode(max)
	if err != nil {
		return nil, err
	}

	out := roaring.New()
	start, _ := ix.search(lo)
	for i := start; i < len(ix.keys) && ix.keys[i].Compare(hi) <= 0; i++ {
		if zorder.InBox(ix.keys[i].Coords(), min, max) {
			out.Or(ix.ids[i])
		}
	}
	return out, nil
}
