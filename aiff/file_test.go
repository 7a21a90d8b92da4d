package aiff

import (
	"testing"

	"aifflib/pkg/audioformat"
	"aifflib/pkg/bytestream"
	"aifflib/pkg/container"
)

// TestCreateOpenRoundTrip writes a mono 16-bit AIFF file through Create,
// appends a few frames, closes it, then reopens it with Open and checks
// the samples and header fields survive intact.
func TestCreateOpenRoundTrip(t *testing.T) {
	buf := newMemBuffer()

	setup := Setup{
		Tag: container.TagAIFF,
		Format: audioformat.Format{
			SampleRate:   44100,
			Channels:     1,
			SampleWidth:  16,
			SampleFormat: audioformat.SampleFormatTwosComplement,
			ByteOrder:    audioformat.BigEndian,
		},
	}

	f, err := Create(buf, setup, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []float64{100, -100, 32767, -32768, 0}
	if _, err := f.Track().WriteFrames([][]float64{want}); err != nil {
		t.Fatalf("WriteFrames: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(buf, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	track := reopened.Track()
	if track.NumSampleFrames() != uint32(len(want)) {
		t.Fatalf("NumSampleFrames = %d, want %d", track.NumSampleFrames(), len(want))
	}
	if track.Stored.Channels != 1 || track.Stored.SampleWidth != 16 {
		t.Fatalf("unexpected stored format: %+v", track.Stored)
	}

	got, err := track.ReadFrames(len(want))
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(got) != 1 || len(got[0]) != len(want) {
		t.Fatalf("unexpected frame shape: %+v", got)
	}
	for i, w := range want {
		if got[0][i] != w {
			t.Errorf("sample %d = %v, want %v", i, got[0][i], w)
		}
	}

	if _, err := track.ReadFrames(1); err == nil {
		t.Error("expected io.EOF-like error reading past end of track")
	}
}

// TestRecognize verifies RecognizeAIFF/RecognizeAIFFC distinguish form
// types: an AIFF-C file written by Create matches RecognizeAIFFC and
// not RecognizeAIFF.
func TestRecognize(t *testing.T) {
	buf := newMemBuffer()
	setup := Setup{
		Tag: container.TagAIFFC,
		Format: audioformat.Format{
			SampleRate:   8000,
			Channels:     1,
			SampleWidth:  16,
			SampleFormat: audioformat.SampleFormatTwosComplement,
		},
	}
	f, err := Create(buf, setup, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	bs := bytestream.New(buf)
	if RecognizeAIFF(bs) {
		t.Error("RecognizeAIFF matched an AIFF-C file")
	}
	if !RecognizeAIFFC(bs) {
		t.Error("RecognizeAIFFC did not match an AIFF-C file")
	}
}

// TestDuplicateSSNDRejected builds a file with two SSND chunks by hand
// and checks Open reports the duplicate rather than silently keeping
// the first or last one.
func TestDuplicateSSNDRejected(t *testing.T) {
	buf := newMemBuffer()
	bs := bytestream.New(buf)

	_ = bs.WriteID(idFORM)
	sizeOff, _ := bs.Tell()
	_ = bs.WriteU32BE(0)
	_ = bs.WriteID(idAIFF)

	commBody, _ := writeCOMM(commChunk{
		numChannels:     1,
		numSampleFrames: 0,
		sampleSize:      16,
		sampleRate:      44100,
	})
	if _, err := writeChunk(bs, idCOMM, commBody); err != nil {
		t.Fatalf("writeChunk COMM: %v", err)
	}

	if _, err := writeChunk(bs, idSSND, []byte{0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("writeChunk SSND 1: %v", err)
	}
	if _, err := writeChunk(bs, idSSND, []byte{0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("writeChunk SSND 2: %v", err)
	}

	end, _ := bs.Tell()
	_ = backpatchSize(bs, sizeOff, uint32(end-(sizeOff+4)))

	if _, err := Open(buf, nil); err == nil {
		t.Error("expected an error opening a file with duplicate SSND chunks")
	}
}
