package bits

import "testing"

func TestMaskBelow(t *testing.T) {
	tests := []struct {
		n        int
		expected uint64
	}{
		{0, 0},
		{1, 1},
		{2, 0b11},
		{8, 0xFF},
		{32, 0xFFFFFFFF},
		{63, 0x7FFFFFFFFFFFFFFF},
		{64, 0xFFFFFFFFFFFFFFFF},
	}

	for _, tt := range tests {
		if got := MaskBelow(tt.n); got != tt.expected {
			t.Errorf("MaskBelow(%d) = %#x, want %#x", tt.n, got, tt.expected)
		}
	}
}

func TestMaskBelow_Monotonic(t *testing.T) {
	prev := uint64(0)
	for n := 1; n <= 64; n++ {
		m := MaskBelow(n)
		if m <= prev {
			t.Fatalf("MaskBelow(%d) = %#x not greater than MaskBelow(%d) = %#x", n, m, n-1, prev)
		}
		prev = m
	}
}
