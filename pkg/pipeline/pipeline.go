// Package pipeline implements the sample-format conversion chain.
// Decode runs: source -> decompand / byte order / signed-unsigned ->
// width -> channel-matrix -> int-to-float -> sink. A float stored
// format is converted to integers before the channel matrix, but an
// integer sample bound for a float virtual format is converted after
// it, from the rounded mix result.
//
// A Pipeline is assembled once per track from the track's stored format
// (what COMM/SSND actually hold on disk) and its virtual format (what
// the caller asked to read or write); Decode runs the chain forward
// (disk bytes -> caller-shaped frames) and Encode runs it in reverse.
// Every stage runs for every sample; a stage whose stored and virtual
// fields agree acts as an identity.
package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"

	"aifflib/pkg/audioformat"

	"gonum.org/v1/gonum/mat"
)

// Pipeline converts between a track's on-disk stored format and the
// in-memory virtual format a caller requested.
type Pipeline struct {
	stored  audioformat.Format
	virtual audioformat.Format
	mix     *mat.Dense // stored -> virtual, used by Decode
	mixBack *mat.Dense // virtual -> stored, used by Encode
}

// Option configures a Pipeline at assembly time.
type Option func(*Pipeline)

// WithChannelMatrix overrides the default channel mixdown/upmix matrix
// used when decoding (stored -> virtual). m must be virtual.Channels x
// stored.Channels. Encode uses m's transpose; there is no option for
// supplying a separate reverse matrix.
func WithChannelMatrix(m *mat.Dense) Option {
	return func(p *Pipeline) {
		p.mix = m
		p.mixBack = mat.DenseCopyOf(m.T())
	}
}

// New assembles a Pipeline converting between stored and virtual.
// Both formats should already have had Normalise applied.
func New(stored, virtual audioformat.Format, opts ...Option) (*Pipeline, error) {
	if stored.Channels <= 0 || virtual.Channels <= 0 {
		return nil, fmt.Errorf("pipeline: channel count must be positive, got stored=%d virtual=%d", stored.Channels, virtual.Channels)
	}
	if stored.SampleWidth <= 0 || stored.SampleWidth > 64 {
		return nil, fmt.Errorf("pipeline: invalid stored sample width %d", stored.SampleWidth)
	}
	if virtual.SampleWidth <= 0 || virtual.SampleWidth > 64 {
		return nil, fmt.Errorf("pipeline: invalid virtual sample width %d", virtual.SampleWidth)
	}

	p := &Pipeline{stored: stored, virtual: virtual}
	for _, opt := range opts {
		opt(p)
	}
	if p.mix == nil {
		// Built independently per direction, not by transposing one
		// matrix, so a mono<->stereo round trip duplicates on the way
		// out and averages (not doubles) on the way back.
		p.mix = defaultChannelMatrix(stored.Channels, virtual.Channels)
		p.mixBack = defaultChannelMatrix(virtual.Channels, stored.Channels)
	}

	r, c := p.mix.Dims()
	if r != virtual.Channels || c != stored.Channels {
		return nil, fmt.Errorf("pipeline: channel matrix is %dx%d, want %dx%d (virtual x stored)", r, c, virtual.Channels, stored.Channels)
	}

	return p, nil
}

// FrameCount returns how many complete stored-format frames raw holds.
func (p *Pipeline) FrameCount(raw []byte) int {
	frameSize := p.stored.FrameSize()
	if frameSize == 0 {
		return 0
	}
	return len(raw) / frameSize
}

// Decode runs the forward chain: raw stored-format bytes to
// channel-major virtual-format frames, frames[channel][sample].
func (p *Pipeline) Decode(raw []byte) ([][]float64, error) {
	n := p.FrameCount(raw)
	storedCh := p.stored.Channels
	raws := make([][]int64, storedCh)
	for c := range raws {
		raws[c] = make([]int64, n)
	}

	stride := p.stored.RawBytesPerSample()
	for i := 0; i < n; i++ {
		for c := 0; c < storedCh; c++ {
			off := (i*storedCh + c) * stride
			sample := raw[off : off+stride]

			if p.stored.SampleFormat == audioformat.SampleFormatFloat32 || p.stored.SampleFormat == audioformat.SampleFormatFloat64 {
				f, err := decodeStoredFloat(sample, p.stored)
				if err != nil {
					return nil, err
				}
				raws[c][i] = floatToInt(f, p.virtual.SampleWidth)
				continue
			}

			var v int64
			switch p.stored.CompressionType {
			case audioformat.CompressionULaw:
				v = int64(decodeULaw(sample[0]))
			case audioformat.CompressionALaw:
				v = int64(decodeALaw(sample[0]))
			default:
				raw := decodeStoredInt(sample, p.stored)
				v = toSigned(raw, p.stored.SampleWidth, p.stored.SampleFormat)
			}

			raws[c][i] = clampToWidth(v, p.virtual.SampleWidth)
		}
	}

	// channel-matrix stage: mix storedCh -> virtualCh, frame by frame.
	virtCh := p.virtual.Channels
	out := make([][]float64, virtCh)
	for c := range out {
		out[c] = make([]float64, n)
	}

	frame := make([]float64, storedCh)
	for i := 0; i < n; i++ {
		for c := 0; c < storedCh; c++ {
			frame[c] = float64(raws[c][i])
		}
		mixed := mixFrame(p.mix, frame)
		for c := 0; c < virtCh; c++ {
			out[c][i] = mixed[c]
		}
	}

	// int/float stage: if the caller wants float virtual samples,
	// convert the mixed integer domain down to [-1, 1]; otherwise round
	// the mix result (a weighted sum may not land on an integer) and
	// clamp it back into the virtual container's representable range.
	for c := range out {
		for i := range out[c] {
			if p.virtual.SampleFormat == audioformat.SampleFormatFloat32 || p.virtual.SampleFormat == audioformat.SampleFormatFloat64 {
				out[c][i] = intToFloat(int64(math.Round(out[c][i])), p.stored.SampleWidth)
			} else {
				out[c][i] = float64(clampToWidth(int64(math.Round(out[c][i])), p.virtual.SampleWidth))
			}
		}
	}

	return out, nil
}

// Encode runs the reverse chain: channel-major virtual-format frames to
// raw stored-format bytes.
func (p *Pipeline) Encode(frames [][]float64) ([]byte, error) {
	virtCh := p.virtual.Channels
	if len(frames) != virtCh {
		return nil, fmt.Errorf("pipeline: Encode got %d channels, want %d", len(frames), virtCh)
	}
	n := 0
	if virtCh > 0 {
		n = len(frames[0])
	}

	storedCh := p.stored.Channels

	stored := make([][]int64, storedCh)
	for c := range stored {
		stored[c] = make([]int64, n)
	}

	frame := make([]float64, virtCh)
	for i := 0; i < n; i++ {
		for c := 0; c < virtCh; c++ {
			v := frames[c][i]
			if p.virtual.SampleFormat == audioformat.SampleFormatFloat32 || p.virtual.SampleFormat == audioformat.SampleFormatFloat64 {
				frame[c] = float64(floatToInt(v, p.stored.SampleWidth))
			} else {
				frame[c] = v
			}
		}
		mixed := mixFrame(p.mixBack, frame)
		for c := 0; c < storedCh; c++ {
			stored[c][i] = clampToWidth(int64(math.Round(mixed[c])), p.stored.SampleWidth)
		}
	}

	stride := p.stored.RawBytesPerSample()
	raw := make([]byte, n*storedCh*stride)
	for i := 0; i < n; i++ {
		for c := 0; c < storedCh; c++ {
			off := (i*storedCh + c) * stride
			v := fromSigned(stored[c][i], p.stored.SampleWidth, p.stored.SampleFormat)

			switch p.stored.CompressionType {
			case audioformat.CompressionULaw:
				raw[off] = encodeULaw(int16(stored[c][i]))
			case audioformat.CompressionALaw:
				raw[off] = encodeALaw(int16(stored[c][i]))
			default:
				if p.stored.SampleFormat == audioformat.SampleFormatFloat32 || p.stored.SampleFormat == audioformat.SampleFormatFloat64 {
					encodeStoredFloat(raw[off:off+stride], intToFloat(stored[c][i], p.stored.SampleWidth), p.stored)
				} else {
					encodeStoredInt(raw[off:off+stride], v, p.stored)
				}
			}
		}
	}

	return raw, nil
}

func byteOrder(f audioformat.Format) binary.ByteOrder {
	if f.ByteOrder == audioformat.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func decodeStoredInt(b []byte, f audioformat.Format) int64 {
	order := byteOrder(f)
	switch len(b) {
	case 1:
		return int64(b[0])
	case 2:
		return int64(order.Uint16(b))
	case 3:
		var buf [4]byte
		if f.ByteOrder == audioformat.LittleEndian {
			copy(buf[:3], b)
		} else {
			copy(buf[1:], b)
		}
		return int64(order.Uint32(buf[:]))
	case 4:
		return int64(order.Uint32(b))
	default:
		return 0
	}
}

func encodeStoredInt(dst []byte, v int64, f audioformat.Format) {
	order := byteOrder(f)
	switch len(dst) {
	case 1:
		dst[0] = byte(v)
	case 2:
		order.PutUint16(dst, uint16(v))
	case 3:
		var buf [4]byte
		order.PutUint32(buf[:], uint32(v))
		if f.ByteOrder == audioformat.LittleEndian {
			copy(dst, buf[:3])
		} else {
			copy(dst, buf[1:])
		}
	case 4:
		order.PutUint32(dst, uint32(v))
	}
}

func decodeStoredFloat(b []byte, f audioformat.Format) (float64, error) {
	order := byteOrder(f)
	switch f.SampleFormat {
	case audioformat.SampleFormatFloat32:
		return float64(math.Float32frombits(order.Uint32(b))), nil
	case audioformat.SampleFormatFloat64:
		return math.Float64frombits(order.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("pipeline: not a float sample format: %s", f.SampleFormat)
	}
}

func encodeStoredFloat(dst []byte, v float64, f audioformat.Format) {
	order := byteOrder(f)
	switch f.SampleFormat {
	case audioformat.SampleFormatFloat32:
		order.PutUint32(dst, math.Float32bits(float32(v)))
	case audioformat.SampleFormatFloat64:
		order.PutUint64(dst, math.Float64bits(v))
	}
}
