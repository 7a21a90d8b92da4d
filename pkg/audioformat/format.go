// Package audioformat defines the sample-encoding description shared by
// every chunk handler, the file-setup validator, and the conversion
// pipeline. It is deliberately container-agnostic, since the
// conversion pipeline is meant to be reusable by container families
// beyond AIFF.
package audioformat

// SampleFormat is the in-memory representation of one sample.
type SampleFormat int

const (
	// SampleFormatUnknown is the zero value, used before a format has
	// been established.
	SampleFormatUnknown SampleFormat = iota
	// SampleFormatTwosComplement is a signed two's-complement integer.
	SampleFormatTwosComplement
	// SampleFormatUnsigned is an unsigned integer.
	SampleFormatUnsigned
	// SampleFormatFloat32 is an IEEE 754 single-precision float.
	SampleFormatFloat32
	// SampleFormatFloat64 is an IEEE 754 double-precision float.
	SampleFormatFloat64
)

// String implements fmt.Stringer.
func (f SampleFormat) String() string {
	switch f {
	case SampleFormatTwosComplement:
		return "twos-complement"
	case SampleFormatUnsigned:
		return "unsigned"
	case SampleFormatFloat32:
		return "float32"
	case SampleFormatFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// ByteOrder is the on-the-wire byte order of a sample.
type ByteOrder int

const (
	// BigEndian is AIFF's native byte order.
	BigEndian ByteOrder = iota
	// LittleEndian is used by the AIFF-C "sowt" variant.
	LittleEndian
)

// String implements fmt.Stringer.
func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// CompressionType names the compander, if any, applied to samples.
type CompressionType int

const (
	// CompressionNone means samples are stored uncompressed.
	CompressionNone CompressionType = iota
	// CompressionULaw is G.711 µ-law companding.
	CompressionULaw
	// CompressionALaw is G.711 A-law companding.
	CompressionALaw
)

// String implements fmt.Stringer.
func (c CompressionType) String() string {
	switch c {
	case CompressionULaw:
		return "G.711 µ-law"
	case CompressionALaw:
		return "G.711 A-law"
	default:
		return "none"
	}
}

// Format describes the encoding of one audio frame: how many channels,
// how wide each sample is, its numeric representation, byte order, and
// any companding applied.
type Format struct {
	SampleRate        float64
	Channels          int
	SampleWidth       int
	SampleFormat      SampleFormat
	ByteOrder         ByteOrder
	CompressionType   CompressionType
	CompressionParams map[string]any
}

// FrameSize returns the number of bytes one frame (one sample per
// channel) occupies in this format.
func (f Format) FrameSize() int {
	return f.Channels * f.RawBytesPerSample()
}

// RawBytesPerSample returns how many bytes one sample occupies on disk.
// Companded formats always store one byte per sample (the G.711 code),
// regardless of the nominal SampleWidth COMM carries for the format's
// decoded representation.
func (f Format) RawBytesPerSample() int {
	switch f.CompressionType {
	case CompressionULaw, CompressionALaw:
		return 1
	default:
		return (f.SampleWidth + 7) / 8
	}
}

// Normalise derives a consistent (SampleFormat, SampleWidth) pairing:
// compander types normalise their virtual width to 16-bit signed
// output, float formats fix their own width, and everything else is
// left alone.
//
// Chunk handlers call this after assigning CompressionType/SampleFormat
// from the COMM chunk's compressionID so that downstream pipeline
// assembly always sees a self-consistent Format.
func (f Format) Normalise() Format {
	switch f.CompressionType {
	case CompressionULaw, CompressionALaw:
		f.SampleFormat = SampleFormatTwosComplement
		f.SampleWidth = 16
	}

	switch f.SampleFormat {
	case SampleFormatFloat32:
		f.SampleWidth = 32
	case SampleFormatFloat64:
		f.SampleWidth = 64
	}

	return f
}
