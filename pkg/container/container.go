// Package container defines the shared trait the aiff package's two
// drivers (plain AIFF and AIFF-C) implement so aiff.Open and aiff.Create
// can pick between them by Tag/Recognize/Version rather than an inline
// form-type switch. Other container families (WAVE, IRCAM/BICSF,
// NeXT/SND) are out of scope, but the interface is shaped so a second
// implementor could be added without touching the conversion pipeline
// or byte-stream adapter.
package container

import "aifflib/pkg/bytestream"

// Tag identifies a container family and, within AIFF's case, whether
// the file carries AIFF-C's compression extensions.
type Tag int

const (
	// TagAIFF is plain AIFF: two's-complement, big-endian, uncompressed.
	TagAIFF Tag = iota
	// TagAIFFC is AIFF-C: adds a compressionID and compander support.
	TagAIFFC
)

// String implements fmt.Stringer.
func (t Tag) String() string {
	if t == TagAIFFC {
		return "AIFF-C"
	}
	return "AIFF"
}

// Format is the trait a container-family driver implements: recognize a
// stream and report the family's tag and format-version constant. The
// actual header parsing and setup validation stay in the aiff package's
// own File/Setup types rather than on this interface, since Go has no
// clean way to express "the associated track type" as part of an
// interface without generics obscuring the trait's intent.
type Format interface {
	// Tag reports which family/variant this driver implements.
	Tag() Tag
	// Recognize reports whether bs currently holds a file this driver
	// can read, without consuming more than the magic bytes.
	Recognize(bs *bytestream.Stream) bool
	// Version returns the format-version constant this driver writes
	// (0 for plain AIFF, AIFC_VERSION_1 for AIFF-C).
	Version() uint32
}
