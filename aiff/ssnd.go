package aiff

import (
	"errors"
	"fmt"

	"aifflib/pkg/bytestream"
)

// ErrDuplicateSSND is returned when a file carries more than one SSND
// chunk: that's treated as a fatal BAD_AIFF_SSND error rather than the
// last-one-wins behaviour some chunk types tolerate.
var ErrDuplicateSSND = errors.New("aiff: duplicate SSND chunk")

// ssndChunk is the decoded SSND header. offset and blockSize are block-
// aligned playback hints almost every real encoder leaves at zero; this
// package records whatever it read but never interprets them as
// anything beyond a byte offset into the sample data that follows.
// writeSSNDHeader always writes both as zero.
type ssndChunk struct {
	offset     uint32
	blockSize  uint32
	dataOffset int64 // absolute stream offset of the first sample byte
	dataSize   uint32
}

// readSSNDHeader reads SSND's 8-byte offset/blockSize prefix; the
// caller is left positioned just after that prefix, with dataSize
// bytes remaining in the chunk. The first sample byte is offset bytes
// further on, at dataOffset.
func readSSNDHeader(bs *bytestream.Stream, chunkSize uint32) (ssndChunk, error) {
	offset, err := bs.ReadU32BE()
	if err != nil {
		return ssndChunk{}, fmt.Errorf("aiff: reading SSND offset: %w", err)
	}
	blockSize, err := bs.ReadU32BE()
	if err != nil {
		return ssndChunk{}, fmt.Errorf("aiff: reading SSND blockSize: %w", err)
	}
	if chunkSize < 8 {
		return ssndChunk{}, fmt.Errorf("%w: SSND chunk smaller than its own header", ErrTruncated)
	}

	pos, err := bs.Tell()
	if err != nil {
		return ssndChunk{}, err
	}

	return ssndChunk{
		offset:     offset,
		blockSize:  blockSize,
		dataOffset: pos + int64(offset),
		dataSize:   chunkSize - 8,
	}, nil
}

// writeSSNDHeader writes SSND's 8-byte offset/blockSize prefix and
// returns the size-field offset for later back-patching, once the total
// sample byte count is known.
func writeSSNDHeader(bs *bytestream.Stream) (sizeFieldOffset int64, err error) {
	if err := bs.WriteID(idSSND); err != nil {
		return 0, err
	}
	sizeFieldOffset, err = bs.Tell()
	if err != nil {
		return 0, err
	}
	if err := bs.WriteU32BE(0); err != nil { // placeholder, backpatched at Close
		return 0, err
	}
	if err := bs.WriteU32BE(0); err != nil { // offset
		return 0, err
	}
	if err := bs.WriteU32BE(0); err != nil { // blockSize
		return 0, err
	}
	return sizeFieldOffset, nil
}
