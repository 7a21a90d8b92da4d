package aiff

import (
	"fmt"

	"aifflib/pkg/audioformat"
	"aifflib/pkg/bytestream"
	"aifflib/pkg/extended80"
)

// compressionID is the 4-byte AIFF-C tag naming a track's compander:
// none, the two G.711 laws, and the byte-swapped "sowt" variant plain
// AIFF never carries.
type compressionID [4]byte

var (
	compNone     = compressionID{'N', 'O', 'N', 'E'}
	compTwos     = compressionID{'t', 'w', 'o', 's'}
	compULawUp   = compressionID{'U', 'L', 'A', 'W'}
	compULawLow  = compressionID{'u', 'l', 'a', 'w'}
	compALawUp   = compressionID{'A', 'L', 'A', 'W'}
	compALawLow  = compressionID{'a', 'l', 'a', 'w'}
	compSowt     = compressionID{'s', 'o', 'w', 't'}
	compIn24     = compressionID{'i', 'n', '2', '4'}
	compIn32     = compressionID{'i', 'n', '3', '2'}
	compFl32Low  = compressionID{'f', 'l', '3', '2'}
	compFl32Up   = compressionID{'F', 'L', '3', '2'}
	compFl64Low  = compressionID{'f', 'l', '6', '4'}
	compFl64Up   = compressionID{'F', 'L', '6', '4'}

	// compULaw, compALaw, compFl32, and compFl64 are the canonical
	// spellings fromFormat writes; readers must also accept the
	// alternate case shown above.
	compULaw = compULawUp
	compALaw = compALawUp
	compFl32 = compFl32Low
	compFl64 = compFl64Low
)

// commChunk is the decoded contents of a COMM chunk: channel count,
// sample count, nominal bit depth, sample rate, and (AIFF-C only) the
// compressionID plus its human-readable name.
type commChunk struct {
	numChannels     int16
	numSampleFrames uint32
	sampleSize      int16
	sampleRate      float64
	compression     compressionID
	compressionName string
	isAIFC          bool
}

// toFormat maps a commChunk onto the container-agnostic audioformat.Format
// the conversion pipeline consumes: each known compressionID overrides
// byte order, width, or numeric representation independently of what
// sampleSize said.
func (c commChunk) toFormat() (audioformat.Format, error) {
	f := audioformat.Format{
		SampleRate:   c.sampleRate,
		Channels:     int(c.numChannels),
		SampleWidth:  int(c.sampleSize),
		SampleFormat: audioformat.SampleFormatTwosComplement,
		ByteOrder:    audioformat.BigEndian,
	}

	if !c.isAIFC {
		return f, nil
	}

	switch c.compression {
	case compNone, compTwos, compressionID{}:
		// plain two's-complement, big-endian, exactly as sampleSize says.
	case compULawUp, compULawLow:
		f.CompressionType = audioformat.CompressionULaw
	case compALawUp, compALawLow:
		f.CompressionType = audioformat.CompressionALaw
	case compSowt:
		f.ByteOrder = audioformat.LittleEndian
	case compIn24:
		f.SampleWidth = 24
	case compIn32:
		f.SampleWidth = 32
	case compFl32Low, compFl32Up:
		f.SampleFormat = audioformat.SampleFormatFloat32
		f.SampleWidth = 32
	case compFl64Low, compFl64Up:
		f.SampleFormat = audioformat.SampleFormatFloat64
		f.SampleWidth = 64
	default:
		return audioformat.Format{}, fmt.Errorf("%w: compression %q", ErrUnsupportedCompression, c.compression)
	}

	return f.Normalise(), nil
}

// fromFormat is toFormat's inverse, used when writing a new AIFF-C file:
// it picks the compressionID that reproduces f and the human-readable
// compression name written after it.
func fromFormat(f audioformat.Format) (compressionID, string) {
	switch {
	case f.CompressionType == audioformat.CompressionULaw:
		return compULaw, "mu-law compressed"
	case f.CompressionType == audioformat.CompressionALaw:
		return compALaw, "A-law compressed"
	case f.SampleFormat == audioformat.SampleFormatFloat32:
		return compFl32, "32-bit floating point"
	case f.SampleFormat == audioformat.SampleFormatFloat64:
		return compFl64, "64-bit floating point"
	case f.ByteOrder == audioformat.LittleEndian:
		return compSowt, "little-endian"
	case f.SampleWidth == 24:
		return compIn24, "24-bit integer"
	case f.SampleWidth == 32:
		return compIn32, "32-bit integer"
	default:
		return compNone, "not compressed"
	}
}

// readCOMM reads a COMM chunk's body, already positioned at its first
// byte, with size bytes remaining. isAIFC tells it whether to expect the
// AIFF-C extension fields (compressionID + pstring name) that plain
// AIFF's COMM chunk lacks.
func readCOMM(bs *bytestream.Stream, size uint32, isAIFC bool) (commChunk, error) {
	var c commChunk
	c.isAIFC = isAIFC

	numChannels, err := bs.ReadS16BE()
	if err != nil {
		return c, fmt.Errorf("%w: reading numChannels: %w", ErrMalformedCOMM, err)
	}
	c.numChannels = numChannels

	numSampleFrames, err := bs.ReadU32BE()
	if err != nil {
		return c, fmt.Errorf("%w: reading numSampleFrames: %w", ErrMalformedCOMM, err)
	}
	c.numSampleFrames = numSampleFrames

	sampleSize, err := bs.ReadS16BE()
	if err != nil {
		return c, fmt.Errorf("%w: reading sampleSize: %w", ErrMalformedCOMM, err)
	}
	c.sampleSize = sampleSize

	var rateBytes [10]byte
	if err := bs.Read(rateBytes[:]); err != nil {
		return c, fmt.Errorf("%w: reading sampleRate: %w", ErrMalformedCOMM, err)
	}
	c.sampleRate = extended80.Decode(rateBytes)

	if !isAIFC {
		return c, nil
	}

	id, err := bs.ReadID()
	if err != nil {
		return c, fmt.Errorf("%w: reading compressionID: %w", ErrMalformedCOMM, err)
	}
	c.compression = compressionID(id)

	name, err := bs.ReadPString()
	if err != nil {
		return c, fmt.Errorf("%w: reading compressionName: %w", ErrMalformedCOMM, err)
	}
	c.compressionName = name

	return c, nil
}

// writeCOMM encodes c's body (not the chunk header) for writeChunk.
func writeCOMM(c commChunk) ([]byte, error) {
	buf := newMemBuffer()
	bs := bytestream.New(buf)

	if err := bs.WriteS16BE(c.numChannels); err != nil {
		return nil, err
	}
	if err := bs.WriteU32BE(c.numSampleFrames); err != nil {
		return nil, err
	}
	if err := bs.WriteS16BE(c.sampleSize); err != nil {
		return nil, err
	}
	rateBytes := extended80.Encode(c.sampleRate)
	if err := bs.Write(rateBytes[:]); err != nil {
		return nil, err
	}

	if c.isAIFC {
		if err := bs.WriteID(string(c.compression[:])); err != nil {
			return nil, err
		}
		if err := bs.WritePString(c.compressionName); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
