// Package aiff reads and writes AIFF and AIFF-C audio files: the
// chunked, big-endian container IFF derives, carrying one audio track
// plus optional markers, loop points, and application-defined chunks.
//
// A File is opened over anything satisfying io.ReadWriteSeeker; reading
// walks the chunk list once at Open, and writing back-patches the FORM
// and SSND sizes at Close the way the original library's writeInit and
// completeSetup/close pairing does.
package aiff

import (
	"errors"
	"fmt"
	"io"

	"aifflib/pkg/bytestream"
)

// Chunk IDs this package recognises. Unknown chunk IDs are skipped
// rather than rejected.
const (
	idFORM = "FORM"
	idAIFF = "AIFF"
	idAIFC = "AIFC"
	idCOMM = "COMM"
	idSSND = "SSND"
	idFVER = "FVER"
	idMARK = "MARK"
	idINST = "INST"
	idAESD = "AESD"
	idAPPL = "APPL"
	idNAME = "NAME"
	idAUTH = "AUTH"
	idANNO = "ANNO"
	idCOPY = "(c) "
	idMIDI = "MIDI"
)

// Errors returned while framing chunks. Handler-specific errors live
// alongside their handlers (comm.go, ssnd.go, ...).
var (
	ErrNotAIFF                = errors.New("aiff: not an AIFF or AIFF-C file")
	ErrTruncated              = errors.New("aiff: file is truncated")
	ErrOddChunkSize           = errors.New("aiff: chunk padding byte missing before EOF")
	ErrChunkTooLarge          = errors.New("aiff: chunk size exceeds remaining file data")
	ErrMalformedCOMM          = errors.New("aiff: malformed COMM chunk")
	ErrUnsupportedCompression = errors.New("aiff: unsupported AIFF-C compressionID")
)

// chunkHeader is the 8-byte id+size pair every chunk starts with.
type chunkHeader struct {
	id   [4]byte
	size uint32
}

// readChunkHeader reads one chunk header, or io.EOF at the natural end
// of the chunk list.
func readChunkHeader(bs *bytestream.Stream) (chunkHeader, error) {
	id, err := bs.ReadID()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return chunkHeader{}, io.EOF
		}
		return chunkHeader{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	size, err := bs.ReadU32BE()
	if err != nil {
		return chunkHeader{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return chunkHeader{id: id, size: size}, nil
}

// rawChunk holds a chunk's id and payload bytes verbatim. Nothing in
// this package constructs one: Open skips unrecognised chunks, so they
// are not carried through to a file written with Create.
type rawChunk struct {
	id   [4]byte
	data []byte
}

// writeChunk writes one chunk with its id, size, payload, and the even-
// boundary pad byte required when size is odd. It returns the stream
// offset of the chunk's size field, so the caller can
// back-patch it later (the FORM and SSND chunks are sized only once
// everything after them has been written).
func writeChunk(bs *bytestream.Stream, id string, payload []byte) (sizeFieldOffset int64, err error) {
	if err := bs.WriteID(id); err != nil {
		return 0, err
	}
	sizeFieldOffset, err = bs.Tell()
	if err != nil {
		return 0, err
	}
	if err := bs.WriteU32BE(uint32(len(payload))); err != nil {
		return 0, err
	}
	if err := bs.Write(payload); err != nil {
		return 0, err
	}
	if err := bs.WritePad(uint32(len(payload))); err != nil {
		return 0, err
	}
	return sizeFieldOffset, nil
}

// backpatchSize seeks to a previously recorded size field and overwrites
// it, then returns the stream to its prior position (the end of file,
// in every caller in this package).
func backpatchSize(bs *bytestream.Stream, sizeFieldOffset int64, size uint32) error {
	end, err := bs.Tell()
	if err != nil {
		return err
	}
	if err := bs.SeekStart(sizeFieldOffset); err != nil {
		return err
	}
	if err := bs.WriteU32BE(size); err != nil {
		return err
	}
	return bs.SeekStart(end)
}
