package aiff

import (
	"fmt"

	"aifflib/pkg/bytestream"
)

// AIFCVersion1 is the Mac OS epoch-relative timestamp AIFF-C's format
// version 1 was frozen at (May 23, 1990: 2726318400 seconds after
// 1904-01-01 00:00:00), carried as a raw
// uint32 rather than decoded into a time.Time since nothing here
// interprets it as a calendar date.
const AIFCVersion1 uint32 = 0xA2805140

// readFVER reads an FVER chunk's 4-byte timestamp. Only AIFF-C files
// carry FVER; the raw value is retained on the Track rather than
// discarded, and is not checked against AIFCVersion1. Create always
// writes AIFCVersion1, whatever timestamp a file read earlier carried.
func readFVER(bs *bytestream.Stream) (uint32, error) {
	v, err := bs.ReadU32BE()
	if err != nil {
		return 0, fmt.Errorf("aiff: reading FVER timestamp: %w", err)
	}
	return v, nil
}

// writeFVER encodes an FVER chunk body.
func writeFVER(timestamp uint32) []byte {
	buf := newMemBuffer()
	bs := bytestream.New(buf)
	_ = bs.WriteU32BE(timestamp)
	return buf.Bytes()
}
