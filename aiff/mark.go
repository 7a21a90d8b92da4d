package aiff

import (
	"fmt"

	"aifflib/pkg/bytestream"
)

// Marker names one sample-frame position in a track: a cue point, loop
// boundary, or edit point, identified by a small positive id a track's
// Instrument loops refer back to.
type Marker struct {
	ID       int16
	Position uint32
	Name     string
}

// readMARK decodes a MARK chunk body: a uint16 marker count, then that
// many (id, position, pstring name) triples.
func readMARK(bs *bytestream.Stream) ([]Marker, error) {
	count, err := bs.ReadU16BE()
	if err != nil {
		return nil, fmt.Errorf("aiff: reading MARK count: %w", err)
	}

	markers := make([]Marker, 0, count)
	for i := uint16(0); i < count; i++ {
		id, err := bs.ReadS16BE()
		if err != nil {
			return nil, fmt.Errorf("aiff: reading marker %d id: %w", i, err)
		}
		pos, err := bs.ReadU32BE()
		if err != nil {
			return nil, fmt.Errorf("aiff: reading marker %d position: %w", i, err)
		}
		name, err := bs.ReadPString()
		if err != nil {
			return nil, fmt.Errorf("aiff: reading marker %d name: %w", i, err)
		}
		markers = append(markers, Marker{ID: id, Position: pos, Name: name})
	}

	return markers, nil
}

// writeMARK encodes a MARK chunk body for markers.
func writeMARK(markers []Marker) ([]byte, error) {
	buf := newMemBuffer()
	bs := bytestream.New(buf)

	if err := bs.WriteU16BE(uint16(len(markers))); err != nil {
		return nil, err
	}
	for _, m := range markers {
		if err := bs.WriteS16BE(m.ID); err != nil {
			return nil, err
		}
		if err := bs.WriteU32BE(m.Position); err != nil {
			return nil, err
		}
		if err := bs.WritePString(m.Name); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
