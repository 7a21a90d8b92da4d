package pipeline

import (
	"math"
	"testing"

	"aifflib/pkg/audioformat"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

// TestFloatToInt24 checks the exact float<->int conversion table at
// width 24: full scale is 2^23 - 1 and conversion truncates toward
// zero rather than rounding.
func TestFloatToInt24(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.5, 4194303},
		{-0.5, -4194303},
		{1, 8388607},
		{-1, -8388607},
		{-0.25, -2097151},
		{0.25, 2097151},
		{0.75, 6291455},
		{-0.75, -6291455},
	}

	for _, c := range cases {
		got := floatToInt(c.in, 24)
		if got != c.want {
			t.Errorf("floatToInt(%v, 24) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestIntToFloatRoundTrip(t *testing.T) {
	for _, want := range []int64{0, 1, -1, 8388607, -8388607, 4194303, -4194303} {
		f := intToFloat(want, 24)
		if f < -1 || f > 1 {
			t.Errorf("intToFloat(%d, 24) = %v, out of [-1, 1]", want, f)
		}
		got := floatToInt(f, 24)
		if got != want {
			t.Errorf("round trip %d -> %v -> %d", want, f, got)
		}
	}
}

func TestClampToWidth(t *testing.T) {
	cases := []struct {
		in    int64
		width int
		want  int64
	}{
		{100, 8, 100},
		{200, 8, 127},
		{-200, 8, -128},
		{8388607, 24, 8388607},
		{9000000, 24, 8388607},
		{-9000000, 24, -8388608},
	}
	for _, c := range cases {
		if got := clampToWidth(c.in, c.width); got != c.want {
			t.Errorf("clampToWidth(%d, %d) = %d, want %d", c.in, c.width, got, c.want)
		}
	}
}

func TestToSignedFromSignedRoundTrip(t *testing.T) {
	for _, format := range []audioformat.SampleFormat{audioformat.SampleFormatTwosComplement, audioformat.SampleFormatUnsigned} {
		for _, want := range []int64{0, 1, -1, 127, -128} {
			raw := fromSigned(want, 8, format)
			got := toSigned(raw, 8, format)
			if got != want {
				t.Errorf("format %v: round trip %d -> raw %d -> %d", format, want, raw, got)
			}
		}
	}
}

func monoFormat(width int, format audioformat.SampleFormat) audioformat.Format {
	return audioformat.Format{
		SampleRate:   44100,
		Channels:     1,
		SampleWidth:  width,
		SampleFormat: format,
		ByteOrder:    audioformat.BigEndian,
	}
}

// TestDecodeEncodeIdentity asserts a same-format, same-channel pipeline
// round-trips 16-bit PCM samples exactly.
func TestDecodeEncodeIdentity(t *testing.T) {
	f := monoFormat(16, audioformat.SampleFormatTwosComplement)
	p, err := New(f, f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	raw := []byte{0x7F, 0xFF, 0x80, 0x00, 0x00, 0x00}
	frames, err := p.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := [][]float64{{32767, -32768, 0}}
	if !cmp.Equal(frames, want) {
		t.Errorf("Decode(%v) mismatch (-got +want):\n%s", raw, cmp.Diff(frames, want))
	}

	back, err := p.Encode(frames)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !cmp.Equal(back, raw) {
		t.Errorf("Encode mismatch (-got +want):\n%s", cmp.Diff(back, raw))
	}
}

// TestDecodeMonoToStereoDuplicates verifies the default upmix matrix
// duplicates a mono source across both output channels.
func TestDecodeMonoToStereoDuplicates(t *testing.T) {
	stored := monoFormat(16, audioformat.SampleFormatTwosComplement)
	virtual := stored
	virtual.Channels = 2

	p, err := New(stored, virtual)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	raw := []byte{0x00, 0x64} // 100
	frames, err := p.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d channels, want 2", len(frames))
	}
	if frames[0][0] != 100 || frames[1][0] != 100 {
		t.Errorf("frames = %+v, want both channels at 100", frames)
	}
}

// TestEncodeStereoToMonoAverages verifies the default downmix matrix
// averages two channels rather than summing them.
func TestEncodeStereoToMonoAverages(t *testing.T) {
	stored := monoFormat(16, audioformat.SampleFormatTwosComplement)
	virtual := stored
	virtual.Channels = 2

	p, err := New(stored, virtual)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	frames := [][]float64{{100}, {200}}
	raw, err := p.Encode(frames)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := int64(raw[0])<<8 | int64(raw[1])
	if got != 150 {
		t.Errorf("encoded mono sample = %d, want 150", got)
	}
}

// TestULawRoundTrip checks the G.711 µ-law compander recovers values to
// within the codec's quantization error, not bit-exactly.
func TestULawRoundTrip(t *testing.T) {
	for _, want := range []int16{0, 100, -100, 1000, -1000, 30000, -30000} {
		coded := encodeULaw(want)
		got := decodeULaw(coded)
		diff := math.Abs(float64(got) - float64(want))
		if diff > math.Abs(float64(want))/8+64 {
			t.Errorf("µ-law round trip %d -> %#x -> %d, diff %v too large", want, coded, got, diff)
		}
	}
}

func TestALawRoundTrip(t *testing.T) {
	for _, want := range []int16{0, 100, -100, 1000, -1000, 30000, -30000} {
		coded := encodeALaw(want)
		got := decodeALaw(coded)
		diff := math.Abs(float64(got) - float64(want))
		if diff > math.Abs(float64(want))/8+64 {
			t.Errorf("A-law round trip %d -> %#x -> %d, diff %v too large", want, coded, got, diff)
		}
	}
}

func TestNewRejectsMismatchedChannelMatrix(t *testing.T) {
	stored := monoFormat(16, audioformat.SampleFormatTwosComplement)
	virtual := stored
	virtual.Channels = 2

	bad := mat.NewDense(3, 3, nil)
	if _, err := New(stored, virtual, WithChannelMatrix(bad)); err == nil {
		t.Error("expected error for mismatched channel matrix dimensions")
	}
}
