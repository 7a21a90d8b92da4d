package extended80

import (
	"math"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		bytes    [10]byte
		expected float64
	}{
		{
			// The canonical AIFF extended-precision encoding of 44100 Hz,
			// as written by most AIFF encoders.
			name:     "44100 Hz",
			bytes:    [10]byte{0x40, 0x0E, 0xAC, 0x44, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			expected: 44100,
		},
		{
			name:     "zero",
			bytes:    [10]byte{},
			expected: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.bytes)
			if math.Abs(got-tc.expected) > 0.5 {
				t.Errorf("Decode(%v) = %v, want %v", tc.bytes, got, tc.expected)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rates := []float64{44100, 48000, 88200, 96000, 192000, 8000, 11025, 1}

	for _, rate := range rates {
		encoded := Encode(rate)
		got := Decode(encoded)
		if math.Abs(got-rate) > 0.001 {
			t.Errorf("round trip %v: got %v", rate, got)
		}
	}
}

func TestEncodeZero(t *testing.T) {
	encoded := Encode(0)
	if encoded != [10]byte{} {
		t.Errorf("Encode(0) = %v, want all zero", encoded)
	}
}

func TestDecodeZeroExponentNonzeroMantissa(t *testing.T) {
	// Historical convention: a zero exponent is treated as 0.0 even
	// when the mantissa is non-zero.
	b := [10]byte{0, 0, 0x80, 0, 0, 0, 0, 0, 0, 0}
	if got := Decode(b); got != 0 {
		t.Errorf("Decode(denormal) = %v, want 0", got)
	}
}
