package aiff

import (
	"aifflib/pkg/afreport"
	"aifflib/pkg/audioformat"
	"aifflib/pkg/container"

	pkgerrors "github.com/pkg/errors"
)

// Setup describes how a caller wants a new track written: its sample
// format, channel count, and any markers/instrument/misc metadata to
// attach. ValidateSetup checks it against eight validation rules and
// returns a canonicalised copy merged over defaultSetup.
type Setup struct {
	Tag           container.Tag
	NumTracks     int // 0 means "unset"; any explicit value must be 1
	Format        audioformat.Format
	Markers       []Marker
	Instrument    *Instrument
	Miscellaneous []Misc
}

// defaultSetup mirrors _af_aiff_default_filesetup: mono, 16-bit,
// two's-complement, 44100 Hz, big-endian, no compression, no markers,
// no instrument.
func defaultSetup(tag container.Tag) Setup {
	return Setup{
		Tag:       tag,
		NumTracks: 1,
		Format: audioformat.Format{
			SampleRate:   44100,
			Channels:     1,
			SampleWidth:  16,
			SampleFormat: audioformat.SampleFormatTwosComplement,
			ByteOrder:    audioformat.BigEndian,
		},
	}
}

// ValidateSetup applies the eight rules below in order and stops at the
// first violation, reporting it through reporter and returning its
// error; later rules are not checked. On success it
// returns setup merged over defaultSetup(setup.Tag) with byte order
// coerced to big-endian (rule 6 always proceeds rather than failing
// outright, logging the violation instead).
func ValidateSetup(setup Setup, reporter afreport.Sink) (Setup, error) {
	if reporter == nil {
		reporter = afreport.Default()
	}

	merged := defaultSetup(setup.Tag)
	if setup.NumTracks != 0 {
		merged.NumTracks = setup.NumTracks
	}
	if setup.Format.Channels != 0 || setup.Format.SampleWidth != 0 {
		merged.Format = setup.Format
	}
	merged.Markers = setup.Markers
	merged.Instrument = setup.Instrument
	merged.Miscellaneous = setup.Miscellaneous

	// Rule 1: track count, if set, must equal 1.
	if merged.NumTracks != 1 {
		reporter.Report(afreport.BadNumTracks, "track count %d, want 1", merged.NumTracks)
		return Setup{}, pkgerrors.Wrap(afreport.BadNumTracks.Err(), "validating track count")
	}

	// Rule 2: unsigned samples are rejected outright.
	if merged.Format.SampleFormat == audioformat.SampleFormatUnsigned {
		reporter.Report(afreport.BadFileFmt, "unsigned sample format is not supported")
		return Setup{}, pkgerrors.Wrap(afreport.BadFileFmt.Err(), "validating sample format")
	}

	// Rule 3: plain AIFF permits only two's-complement.
	if merged.Tag == container.TagAIFF && merged.Format.SampleFormat != audioformat.SampleFormatTwosComplement {
		reporter.Report(afreport.BadFileFmt, "plain AIFF requires two's-complement samples, got %s", merged.Format.SampleFormat)
		return Setup{}, afreport.BadFileFmt.Err()
	}

	// Rule 4: two's-complement width must be in 1..32.
	if merged.Format.SampleFormat == audioformat.SampleFormatTwosComplement {
		if merged.Format.SampleWidth < 1 || merged.Format.SampleWidth > 32 {
			reporter.Report(afreport.BadWidth, "sample width %d outside 1..32", merged.Format.SampleWidth)
			return Setup{}, afreport.BadWidth.Err()
		}
	}

	// Rule 5: AIFF forbids compression; AIFF-C allows the enumerated set.
	if merged.Tag == container.TagAIFF && merged.Format.CompressionType != audioformat.CompressionNone {
		reporter.Report(afreport.BadFileSetup, "plain AIFF cannot carry compression %s", merged.Format.CompressionType)
		return Setup{}, afreport.BadFileSetup.Err()
	}

	// Rule 6: byte order is coerced to big-endian; a little-endian
	// request at 9+ bits is logged but does not abort.
	if merged.Format.ByteOrder == audioformat.LittleEndian && merged.Format.SampleWidth >= 9 {
		reporter.Report(afreport.BadByteOrder, "little-endian setup at width %d coerced to big-endian", merged.Format.SampleWidth)
	}
	merged.Format.ByteOrder = audioformat.BigEndian

	// Rule 7: instrument count must be 0 or 1. merged.Instrument is either
	// nil or a single *Instrument with exactly two named loops (Sustain,
	// Release), so this is already guaranteed by the Go type and needs no
	// further check here.

	// Rule 8: each Misc entry's kind must be a recognised type.
	for i, m := range merged.Miscellaneous {
		switch m.Type {
		case MiscName, MiscAuthor, MiscCopyright, MiscAnnotation, MiscApplication, MiscMIDI:
		default:
			reporter.Report(afreport.BadMiscType, "miscellaneous entry %d has unrecognised kind %v", i, m.Type)
			return Setup{}, afreport.BadMiscType.Err()
		}
	}

	return merged, nil
}
