package aiff

import (
	"fmt"

	"aifflib/pkg/bytestream"
)

// MiscType identifies which of AIFF's miscellaneous chunk kinds a Misc
// value came from.
type MiscType int

const (
	MiscUnknown MiscType = iota
	MiscName
	MiscAuthor
	MiscCopyright
	MiscAnnotation
	MiscApplication
	MiscMIDI
)

// String implements fmt.Stringer.
func (t MiscType) String() string {
	switch t {
	case MiscName:
		return "NAME"
	case MiscAuthor:
		return "AUTH"
	case MiscCopyright:
		return "(c) "
	case MiscAnnotation:
		return "ANNO"
	case MiscApplication:
		return "APPL"
	case MiscMIDI:
		return "MIDI"
	default:
		return "UNKNOWN"
	}
}

func miscTypeForID(id [4]byte) MiscType {
	switch string(id[:]) {
	case idNAME:
		return MiscName
	case idAUTH:
		return MiscAuthor
	case idCOPY:
		return MiscCopyright
	case idANNO:
		return MiscAnnotation
	case idAPPL:
		return MiscApplication
	case idMIDI:
		return MiscMIDI
	default:
		return MiscUnknown
	}
}

func (t MiscType) chunkID() string {
	return t.String()
}

// Misc is one miscellaneous chunk attached to a File: free-form text
// (NAME/AUTH/(c) /ANNO) or an application-defined blob (APPL). IDs are
// assigned in read order starting at 1, so callers can refer back to
// "the Nth misc chunk" by a stable small integer.
type Misc struct {
	ID                   int
	Type                 MiscType
	Text                 string
	ApplicationSignature [4]byte
	Data                 []byte
}

// readMisc decodes one miscellaneous chunk body. A zero-length body is
// legal (some encoders emit an empty ANNO as a placeholder) but carries
// no information, so readMisc reports ok=false for it and the caller
// skips adding it to the track's Misc list instead of treating it as
// an error.
func readMisc(bs *bytestream.Stream, id [4]byte, size uint32) (m Misc, ok bool, err error) {
	if size == 0 {
		return Misc{}, false, nil
	}

	mtype := miscTypeForID(id)
	m.Type = mtype

	if mtype == MiscApplication {
		if size < 4 {
			return Misc{}, false, fmt.Errorf("aiff: APPL chunk shorter than its signature")
		}
		var sig [4]byte
		if err := bs.Read(sig[:]); err != nil {
			return Misc{}, false, fmt.Errorf("aiff: reading APPL signature: %w", err)
		}
		m.ApplicationSignature = sig

		data := make([]byte, size-4)
		if err := bs.Read(data); err != nil {
			return Misc{}, false, fmt.Errorf("aiff: reading APPL data: %w", err)
		}
		m.Data = data
		return m, true, nil
	}

	data := make([]byte, size)
	if err := bs.Read(data); err != nil {
		return Misc{}, false, fmt.Errorf("aiff: reading %s chunk: %w", mtype, err)
	}
	m.Data = data
	if mtype != MiscMIDI {
		m.Text = string(data)
	}
	return m, true, nil
}

// writeMisc encodes m's chunk body (not its header).
func writeMisc(m Misc) []byte {
	if m.Type == MiscApplication {
		buf := make([]byte, 4+len(m.Data))
		copy(buf, m.ApplicationSignature[:])
		copy(buf[4:], m.Data)
		return buf
	}
	if m.Type == MiscMIDI {
		return m.Data
	}
	return []byte(m.Text)
}
