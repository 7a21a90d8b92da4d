package aiff

import (
	"fmt"
	"io"

	"aifflib/pkg/afreport"
	"aifflib/pkg/bytestream"
	"aifflib/pkg/container"
)

// fileMode distinguishes a File opened for reading from one created for
// writing. Each handle is single-threaded and synchronous; there is no
// mixed read/write lifecycle.
type fileMode int

const (
	modeRead fileMode = iota
	modeWrite
)

// File is an open AIFF or AIFF-C file handle wrapping exactly one
// Track (track count must equal 1). All I/O is synchronous over the
// io.ReadWriteSeeker given to Open or Create.
type File struct {
	tag      container.Tag
	rws      io.ReadWriteSeeker
	reporter afreport.Sink
	mode     fileMode
	track    *Track
	dirty    bool

	formSizeOffset        int64
	commFramesFieldOffset int64
	ssndSizeFieldOffset   int64
}

// Tag reports whether the file is plain AIFF or AIFF-C.
func (f *File) Tag() container.Tag { return f.tag }

// Track returns the file's single track.
func (f *File) Track() *Track { return f.track }

// Open reads an existing AIFF or AIFF-C file's chunk list from rws and
// returns a read-only File. If reporter is nil, afreport.Default() is
// used.
//
// A missing COMM chunk is reported through reporter as BAD_AIFF_COMM
// but does not fail Open. This mirrors a long-standing leniency in
// AIFF readers generally: whether it's intentional or a bug is murky,
// but changing it would silently reject files other readers accept.
func Open(rws io.ReadWriteSeeker, reporter afreport.Sink) (*File, error) {
	if reporter == nil {
		reporter = afreport.Default()
	}
	bs := bytestream.New(rws)

	if err := bs.SeekStart(0); err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	driver := recognizeDriver(bs)
	if driver == nil {
		reporter.Report(afreport.BadFileFmt, "unrecognised form type")
		return nil, ErrNotAIFF
	}
	tag := driver.Tag()

	if err := bs.SeekStart(0); err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}
	if _, err := bs.ReadID(); err != nil {
		return nil, fmt.Errorf("%w: reading FORM id: %w", ErrTruncated, err)
	}
	if _, err := bs.ReadU32BE(); err != nil {
		return nil, fmt.Errorf("%w: reading FORM size: %w", ErrTruncated, err)
	}
	if _, err := bs.ReadID(); err != nil {
		return nil, fmt.Errorf("%w: reading form type: %w", ErrTruncated, err)
	}

	f := &File{tag: tag, rws: rws, reporter: reporter, mode: modeRead, track: &Track{}}
	f.track.file = f

	haveCOMM := false
	haveSSND := false

	for {
		header, err := readChunkHeader(bs)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		id := string(header.id[:])
		bodyStart, err := bs.Tell()
		if err != nil {
			return nil, err
		}

		switch id {
		case idCOMM:
			c, err := readCOMM(bs, header.size, tag == container.TagAIFFC)
			if err != nil {
				reporter.Report(afreport.BadAIFFCOMM, "%v", err)
				return nil, err
			}
			format, err := c.toFormat()
			if err != nil {
				reporter.Report(afreport.BadAIFFCOMM, "%v", err)
				return nil, err
			}
			f.track.Stored = format
			f.track.numSampleFrames = c.numSampleFrames
			haveCOMM = true

		case idSSND:
			if haveSSND {
				reporter.Report(afreport.BadAIFFSSND, "duplicate SSND chunk")
				return nil, ErrDuplicateSSND
			}
			ssnd, err := readSSNDHeader(bs, header.size)
			if err != nil {
				reporter.Report(afreport.BadAIFFSSND, "%v", err)
				return nil, err
			}
			f.track.ssnd = ssnd
			haveSSND = true

		case idFVER:
			v, err := readFVER(bs)
			if err != nil {
				return nil, err
			}
			f.track.fverTimestamp = v
			f.track.hasFVER = true

		case idMARK:
			markers, err := readMARK(bs)
			if err != nil {
				return nil, err
			}
			f.track.Markers = markers

		case idINST:
			inst, err := readINST(bs)
			if err != nil {
				reporter.Report(afreport.BadNumInsts, "%v", err)
				return nil, err
			}
			f.track.Instrument = &inst

		case idAESD:
			aesd, err := readAESD(bs, header.size)
			if err != nil {
				return nil, err
			}
			f.track.AESD = &aesd

		case idNAME, idAUTH, idCOPY, idANNO, idAPPL, idMIDI:
			m, ok, err := readMisc(bs, header.id, header.size)
			if err != nil {
				reporter.Report(afreport.BadMiscType, "%v", err)
				return nil, err
			}
			if ok {
				m.ID = len(f.track.Miscellaneous) + 1
				f.track.Miscellaneous = append(f.track.Miscellaneous, m)
			}

		default:
			// Unrecognised chunk: skip its body untouched.
		}

		if err := bs.SeekStart(bodyStart + int64(header.size)); err != nil {
			return nil, err
		}
		if err := bs.SkipPad(header.size); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOddChunkSize, err)
		}
	}

	if !haveCOMM {
		reporter.Report(afreport.BadAIFFCOMM, "file has no COMM chunk")
		return f, nil
	}
	if !haveSSND {
		f.track.ssnd = ssndChunk{}
	}

	if err := f.track.SetVirtualFormat(f.track.Stored); err != nil {
		return nil, err
	}

	return f, nil
}

// Create writes a new AIFF or AIFF-C file's header chunks to rws per
// setup (validated with ValidateSetup) and returns a write-only File
// whose Track is ready for WriteFrames. Close must be called to
// back-patch the FORM size, COMM frame count, and SSND size.
func Create(rws io.ReadWriteSeeker, setup Setup, reporter afreport.Sink) (*File, error) {
	if reporter == nil {
		reporter = afreport.Default()
	}

	merged, err := ValidateSetup(setup, reporter)
	if err != nil {
		return nil, err
	}

	bs := bytestream.New(rws)

	if err := bs.SeekStart(0); err != nil {
		return nil, err
	}
	if err := bs.WriteID(idFORM); err != nil {
		return nil, err
	}
	formSizeOffset, err := bs.Tell()
	if err != nil {
		return nil, err
	}
	if err := bs.WriteU32BE(0); err != nil { // placeholder
		return nil, err
	}

	driver := driverForTag(merged.Tag)
	if driver == nil {
		return nil, fmt.Errorf("aiff: no driver for tag %v", merged.Tag)
	}

	formType := idAIFF
	if merged.Tag == container.TagAIFFC {
		formType = idAIFC
	}
	if err := bs.WriteID(formType); err != nil {
		return nil, err
	}

	if version := driver.Version(); version != 0 {
		if _, err := writeChunk(bs, idFVER, writeFVER(version)); err != nil {
			return nil, err
		}
	}

	compID, compName := fromFormat(merged.Format)
	comm := commChunk{
		numChannels:     int16(merged.Format.Channels),
		numSampleFrames: 0,
		sampleSize:      int16(merged.Format.SampleWidth),
		sampleRate:      merged.Format.SampleRate,
		compression:     compID,
		compressionName: compName,
		isAIFC:          merged.Tag == container.TagAIFFC,
	}
	commBody, err := writeCOMM(comm)
	if err != nil {
		return nil, err
	}
	commSizeOffset, err := writeChunk(bs, idCOMM, commBody)
	if err != nil {
		return nil, err
	}
	commFramesFieldOffset := commSizeOffset + 4 + 2 // size field + numChannels

	if merged.Instrument != nil {
		instBody, err := writeINST(*merged.Instrument)
		if err != nil {
			return nil, err
		}
		if _, err := writeChunk(bs, idINST, instBody); err != nil {
			return nil, err
		}
	}

	if len(merged.Markers) > 0 {
		markBody, err := writeMARK(merged.Markers)
		if err != nil {
			return nil, err
		}
		if _, err := writeChunk(bs, idMARK, markBody); err != nil {
			return nil, err
		}
	}

	for _, m := range merged.Miscellaneous {
		if _, err := writeChunk(bs, m.Type.chunkID(), writeMisc(m)); err != nil {
			return nil, err
		}
	}

	ssndSizeOffset, err := writeSSNDHeader(bs)
	if err != nil {
		return nil, err
	}
	dataOffset, err := bs.Tell()
	if err != nil {
		return nil, err
	}

	f := &File{
		tag:                   merged.Tag,
		rws:                   rws,
		reporter:              reporter,
		mode:                  modeWrite,
		formSizeOffset:        formSizeOffset,
		commFramesFieldOffset: commFramesFieldOffset,
	}

	track := &Track{
		Stored:        merged.Format.Normalise(),
		Markers:       merged.Markers,
		Instrument:    merged.Instrument,
		Miscellaneous: merged.Miscellaneous,
		ssnd:          ssndChunk{dataOffset: dataOffset},
		file:          f,
	}
	f.track = track

	if err := track.SetVirtualFormat(track.Stored); err != nil {
		return nil, err
	}

	f.ssndSizeFieldOffset = ssndSizeOffset

	return f, nil
}

// Close finalises a File. For a File opened with Open, this is a no-op.
// For a File created with Create, it
// back-patches FORM's size, COMM's numSampleFrames, and SSND's size now
// that the track's final length is known.
func (f *File) Close() error {
	if f.mode == modeRead {
		return nil
	}

	bs := bytestream.New(f.rws)

	if err := backpatchSize(bs, f.commFramesFieldOffset, f.track.numSampleFrames); err != nil {
		return fmt.Errorf("aiff: back-patching COMM numSampleFrames: %w", err)
	}

	if err := backpatchSize(bs, f.ssndSizeFieldOffset, f.track.ssnd.dataSize+8); err != nil {
		return fmt.Errorf("aiff: back-patching SSND size: %w", err)
	}

	end, err := bs.Tell()
	if err != nil {
		return err
	}
	// FORM's size excludes the 8-byte id+size header of FORM itself.
	if err := backpatchSize(bs, f.formSizeOffset, uint32(end-(f.formSizeOffset+4))); err != nil {
		return fmt.Errorf("aiff: back-patching FORM size: %w", err)
	}

	return nil
}
