package bytesutil_test

import (
	"testing"

	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/gridbox-network/grysm/testing/assert"
	"github.com/gridbox-network/grysm/testing/require"
)

func TestToBytes(t *testing.T) {
	tests := []struct {
		a uint64
		b []byte
	}{
		{0, []byte{0}},
		{253, []byte{253}},
		{254, []byte{254, 0}},
		{255, []byte{255, 0, 0}},
		{256, []byte{0, 1, 0, 0}},
		{65535, []byte{255, 255, 0, 0, 0}},
		{4294967295, []byte{255, 255, 255, 255, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.b, bytesutil.ToBytes(tt.a, len(tt.b)))
	}
}

func TestBytes4(t *testing.T) {
	tests := []struct {
		a uint64
		b []byte
	}{
		{0, []byte{0, 0, 0, 0}},
		{256, []byte{0, 1, 0, 0}},
		{65536, []byte{0, 0, 1, 0}},
		{4294967295, []byte{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.b, bytesutil.Bytes4(tt.a))
	}
}

func TestBytes8(t *testing.T) {
	tests := []struct {
		a uint64
		b []byte
	}{
		{0, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{16777216, []byte{0, 0, 0, 1, 0, 0, 0, 0}},
		{18446744073709551615, []byte{255, 255, 255, 255, 255, 255, 255, 255}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.b, bytesutil.Bytes8(tt.a))
	}
}

func TestFromBytes8(t *testing.T) {
	tests := []uint64{0, 1, 4512371, 8293847, 18446744073709551615}
	for _, tt := range tests {
		b := bytesutil.Bytes8(tt)
		assert.Equal(t, tt, bytesutil.FromBytes8(b))
	}
}

func TestToBytes32(t *testing.T) {
	tests := []struct {
		a []byte
		b [32]byte
	}{
		{[]byte{0xAC}, [32]byte{0xAC}},
		{[]byte{0xAC, 0xDC}, [32]byte{0xAC, 0xDC}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.b, bytesutil.ToBytes32(tt.a))
	}
	// Values above 32 bytes are truncated.
	long := make([]byte, 33)
	long[32] = 0xFF
	assert.Equal(t, [32]byte{}, bytesutil.ToBytes32(long))
}

func TestSetBit(t *testing.T) {
	tests := []struct {
		a []byte
		b int
		c []byte
	}{
		{[]byte{0b00000000}, 1, []byte{0b00000010}},
		{[]byte{0b00000010}, 7, []byte{0b10000010}},
		{[]byte{0b10000010}, 9, []byte{0b10000010, 0b00000010}},
		{[]byte{0b11111111}, 0, []byte{0b11111111}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.c, bytesutil.SetBit(tt.a, tt.b))
	}
}

func TestClearBit(t *testing.T) {
	tests := []struct {
		a []byte
		b int
		c []byte
	}{
		{[]byte{0b00000000}, 1, []byte{0b00000000}},
		{[]byte{0b00000010}, 1, []byte{0b00000000}},
		{[]byte{0b10000010}, 7, []byte{0b00000010}},
		{[]byte{0b10000010}, 25, []byte{0b10000010}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.c, bytesutil.ClearBit(tt.a, tt.b))
	}
}

func TestHighestBitIndex(t *testing.T) {
	tests := []struct {
		a     []byte
		b     int
		error bool
	}{
		{nil, 0, true},
		{[]byte{}, 0, true},
		{[]byte{0b00000001}, 1, false},
		{[]byte{0b10100101}, 8, false},
		{[]byte{0x00, 0x00}, 0, false},
		{[]byte{0xff, 0xa0}, 16, false},
	}
	for _, tt := range tests {
		if !tt.error {
			i, err := bytesutil.HighestBitIndex(tt.a)
			require.NoError(t, err)
			assert.DeepEqual(t, tt.b, i)
		} else {
			_, err := bytesutil.HighestBitIndex(tt.a)
			assert.ErrorContains(t, "input list can't be empty or nil", err)
		}
	}
}

func TestPadTo(t *testing.T) {
	b := bytesutil.PadTo([]byte{1, 2}, 4)
	assert.DeepEqual(t, []byte{1, 2, 0, 0}, b)
	// Larger input than size is returned untouched.
	b = bytesutil.PadTo([]byte{1, 2, 3}, 2)
	assert.DeepEqual(t, []byte{1, 2, 3}, b)
}
