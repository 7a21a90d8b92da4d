package pipeline

import (
	"math"

	"aifflib/pkg/audioformat"

	"gonum.org/v1/gonum/mat"
)

// fullScale returns the divisor that maps an integer sample at the
// given bit width onto the symmetric float range [-1, 1]:
// 2^(width-1) - 1, so that ±(2^(width-1) - 1) map onto ±1
// symmetrically. The most negative representable integer,
// -2^(width-1), maps slightly below -1.
func fullScale(width int) float64 {
	return float64((int64(1) << (width - 1)) - 1)
}

// floatToInt converts a virtual float sample in [-1, 1] to the integer
// representation at width bits, truncating toward zero rather than
// rounding (0.5 -> 4194303 at width 24, not 4194304).
func floatToInt(r float64, width int) int64 {
	return int64(math.Trunc(r * fullScale(width)))
}

// intToFloat is floatToInt's inverse.
func intToFloat(i int64, width int) float64 {
	return float64(i) / fullScale(width)
}

// clampToWidth saturates i to the representable signed range of width
// bits. Used by the width-contract direction of the pipeline (going
// from a wider stored/virtual representation to a narrower one), which
// is inherently lossy for out-of-range samples; saturation avoids the
// wraparound clicks a naive bitmask would introduce.
func clampToWidth(i int64, width int) int64 {
	max := (int64(1) << (width - 1)) - 1
	min := -max - 1
	if i > max {
		return max
	}
	if i < min {
		return min
	}
	return i
}

// toSigned reinterprets raw, the plain unsigned bit pattern read off
// disk, as the two's-complement integer it represents. For
// SampleFormatUnsigned (0 is mid-scale, not silence) it re-centers by
// subtracting half scale first.
func toSigned(raw int64, width int, format audioformat.SampleFormat) int64 {
	if format == audioformat.SampleFormatUnsigned {
		raw -= int64(1) << (width - 1)
	}
	half := int64(1) << (width - 1)
	if raw >= half {
		raw -= int64(1) << width
	}
	return raw
}

// fromSigned is toSigned's inverse, producing the plain unsigned bit
// pattern to write to disk for a two's-complement value signed.
func fromSigned(signed int64, width int, format audioformat.SampleFormat) int64 {
	mask := (int64(1) << width) - 1
	raw := signed & mask
	if format == audioformat.SampleFormatUnsigned {
		raw = (signed + (int64(1) << (width - 1))) & mask
	}
	return raw
}

// defaultChannelMatrix builds the mixdown/upmix matrix the channel
// stage falls back to when a caller does not supply one explicitly via
// WithChannelMatrix: identity when channel counts already match, even
// duplication for mono-to-stereo, and equal-weight averaging otherwise.
// This mirrors the simple, predictable matrices gonum's own examples
// build by hand rather than attempting a psychoacoustic downmix.
func defaultChannelMatrix(inCh, outCh int) *mat.Dense {
	m := mat.NewDense(outCh, inCh, nil)

	if inCh == outCh {
		for i := 0; i < inCh; i++ {
			m.Set(i, i, 1)
		}
		return m
	}

	if inCh == 1 {
		for o := 0; o < outCh; o++ {
			m.Set(o, 0, 1)
		}
		return m
	}

	if outCh == 1 {
		weight := 1.0 / float64(inCh)
		for i := 0; i < inCh; i++ {
			m.Set(0, i, weight)
		}
		return m
	}

	weight := 1.0 / float64(inCh)
	for o := 0; o < outCh; o++ {
		for i := 0; i < inCh; i++ {
			m.Set(o, i, weight)
		}
	}
	return m
}

// mixFrame applies m to one frame of inCh samples, returning outCh
// samples. m is outCh x inCh.
func mixFrame(m *mat.Dense, frame []float64) []float64 {
	r, c := m.Dims()
	in := mat.NewVecDense(c, frame)
	out := mat.NewVecDense(r, nil)
	out.MulVec(m, in)

	result := make([]float64, r)
	for i := range result {
		result[i] = out.AtVec(i)
	}
	return result
}
