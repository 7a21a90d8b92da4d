package aiff

import (
	"fmt"

	"aifflib/pkg/bytestream"
)

// aesdSize is AESD's fixed 24-byte payload: one AES3 (AES/EBU) channel
// status block, read and written as an opaque blob since interpreting
// channel-status bits is outside this package's own concern.
const aesdSize = 24

// AESD is an AES channel-status block attached to a track, read
// verbatim into Track.AESD. Create does not write an AESD chunk.
type AESD struct {
	Data [aesdSize]byte
}

func readAESD(bs *bytestream.Stream, size uint32) (AESD, error) {
	var a AESD
	if size != aesdSize {
		return a, fmt.Errorf("aiff: AESD chunk is %d bytes, want %d", size, aesdSize)
	}
	if err := bs.Read(a.Data[:]); err != nil {
		return a, fmt.Errorf("aiff: reading AESD: %w", err)
	}
	return a, nil
}

func writeAESD(a AESD) []byte {
	buf := make([]byte, aesdSize)
	copy(buf, a.Data[:])
	return buf
}
