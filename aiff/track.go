package aiff

import (
	"fmt"
	"io"

	"aifflib/pkg/audioformat"
	"aifflib/pkg/bytestream"
	"aifflib/pkg/pipeline"
)

// Track holds one file's audio data plus the metadata attached to it.
// AIFF permits exactly one Track per File; WAVE-style multi-track
// files are out of scope.
type Track struct {
	Stored          audioformat.Format // the format COMM/SSND actually hold on disk
	virtual         audioformat.Format // the format callers read/write through ReadFrames/WriteFrames
	numSampleFrames uint32
	ssnd            ssndChunk
	fverTimestamp   uint32
	hasFVER         bool

	Markers       []Marker
	Instrument    *Instrument
	Miscellaneous []Misc
	AESD          *AESD

	file      *File
	nextFrame uint32
	pipe      *pipeline.Pipeline
}

// SetVirtualFormat selects the in-memory representation ReadFrames and
// WriteFrames convert to/from, reassembling the conversion pipeline.
// Channels, SampleWidth, and SampleFormat are honoured; SampleRate and
// CompressionType are ignored (a track's sample rate is fixed at
// open/create time, and only the stored format may compand), and so is
// ByteOrder, since frames are exchanged as float64 values.
func (t *Track) SetVirtualFormat(virtual audioformat.Format) error {
	virtual.SampleRate = t.Stored.SampleRate
	virtual = virtual.Normalise()

	pipe, err := pipeline.New(t.Stored.Normalise(), virtual)
	if err != nil {
		return fmt.Errorf("aiff: assembling conversion pipeline: %w", err)
	}

	t.virtual = virtual
	t.pipe = pipe
	return nil
}

// VirtualFormat returns the format ReadFrames/WriteFrames currently
// convert through.
func (t *Track) VirtualFormat() audioformat.Format {
	return t.virtual
}

// NumSampleFrames returns the track's total frame count, as recorded in
// COMM's numSampleFrames field.
func (t *Track) NumSampleFrames() uint32 {
	return t.numSampleFrames
}

// SeekFrame repositions the next ReadFrames/WriteFrames call to frame
// index n. Virtual and stored frame indices are equal; only the sample
// encoding differs between them.
func (t *Track) SeekFrame(n uint32) {
	t.nextFrame = n
}

// ReadFrames reads up to n frames starting at the track's current
// cursor, returning channel-major samples in the virtual format. Fewer
// than n frames are returned at end of track rather than padded out;
// io.EOF is never returned for a partial read, only when the cursor is
// already at the end.
func (t *Track) ReadFrames(n int) ([][]float64, error) {
	if t.pipe == nil {
		return nil, fmt.Errorf("aiff: track has no virtual format set; call SetVirtualFormat first")
	}
	if t.nextFrame >= t.numSampleFrames {
		return nil, io.EOF
	}

	remaining := t.numSampleFrames - t.nextFrame
	if uint32(n) > remaining {
		n = int(remaining)
	}

	frameSize := t.Stored.FrameSize()
	raw := make([]byte, n*frameSize)

	bs := bytestream.New(t.file.rws)
	offset := t.ssnd.dataOffset + int64(t.nextFrame)*int64(frameSize)
	if err := bs.SeekStart(offset); err != nil {
		return nil, fmt.Errorf("aiff: seeking to frame %d: %w", t.nextFrame, err)
	}
	if err := bs.Read(raw); err != nil {
		return nil, fmt.Errorf("aiff: reading %d frames at %d: %w", n, t.nextFrame, err)
	}

	frames, err := t.pipe.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("aiff: decoding frames: %w", err)
	}

	t.nextFrame += uint32(n)
	return frames, nil
}

// WriteFrames encodes frames (channel-major, in the virtual format) and
// appends them at the track's current cursor, extending the track's
// sample-frame count if writing past its previous end. Writing is only
// supported at or past the current end of track; arbitrary overwrite-
// in-place of existing sample data is not modeled.
func (t *Track) WriteFrames(frames [][]float64) (int, error) {
	if t.pipe == nil {
		return 0, fmt.Errorf("aiff: track has no virtual format set; call SetVirtualFormat first")
	}
	if len(frames) != t.virtual.Channels {
		return 0, fmt.Errorf("aiff: WriteFrames got %d channels, want %d", len(frames), t.virtual.Channels)
	}
	if t.nextFrame != t.numSampleFrames {
		return 0, fmt.Errorf("aiff: WriteFrames must be called at the current end of track (frame %d), not %d", t.numSampleFrames, t.nextFrame)
	}

	raw, err := t.pipe.Encode(frames)
	if err != nil {
		return 0, fmt.Errorf("aiff: encoding frames: %w", err)
	}

	bs := bytestream.New(t.file.rws)
	offset := t.ssnd.dataOffset + int64(t.nextFrame)*int64(t.Stored.FrameSize())
	if err := bs.SeekStart(offset); err != nil {
		return 0, fmt.Errorf("aiff: seeking to append offset: %w", err)
	}
	if err := bs.Write(raw); err != nil {
		return 0, fmt.Errorf("aiff: writing frames: %w", err)
	}

	n := 0
	if t.virtual.Channels > 0 {
		n = len(frames[0])
	}

	t.nextFrame += uint32(n)
	t.numSampleFrames += uint32(n)
	t.ssnd.dataSize += uint32(n) * uint32(t.Stored.FrameSize())
	t.file.dirty = true

	return n, nil
}
