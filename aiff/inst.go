package aiff

import (
	"fmt"

	"aifflib/pkg/bytestream"
)

// LoopPlayMode selects how a Loop is traversed during sustain/release.
type LoopPlayMode int16

const (
	LoopNone LoopPlayMode = iota
	LoopForward
	LoopForwardBackward
)

// Loop names a forward or forward/backward loop by the two Markers that
// bound it. An INST chunk always carries exactly two: sustain and
// release. That "exactly two named loops" invariant holds by
// construction: Instrument has exactly two Loop fields.
type Loop struct {
	PlayMode    LoopPlayMode
	BeginMarker int16
	EndMarker   int16
}

// Instrument is the decoded INST chunk: MIDI mapping fields plus the
// sustain and release loops.
type Instrument struct {
	BaseNote     int8
	Detune       int8
	LowNote      int8
	HighNote     int8
	LowVelocity  int8
	HighVelocity int8
	Gain         int16
	Sustain      Loop
	Release      Loop
}

// instParamRange is the valid [min, max] range for one Instrument field.
type instParamRange struct {
	min, max int
}

var instParamRanges = map[string]instParamRange{
	"baseNote":     {0, 127},
	"detune":       {-50, 50},
	"lowNote":      {0, 127},
	"highNote":     {0, 127},
	"lowVelocity":  {1, 127},
	"highVelocity": {1, 127},
}

// ValidateInstParam reports whether value is within the valid range for
// the named Instrument field. Unknown field names are always valid
// (nothing to check).
func ValidateInstParam(field string, value int) bool {
	r, ok := instParamRanges[field]
	if !ok {
		return true
	}
	return value >= r.min && value <= r.max
}

func readLoop(bs *bytestream.Stream) (Loop, error) {
	mode, err := bs.ReadS16BE()
	if err != nil {
		return Loop{}, fmt.Errorf("aiff: reading loop playMode: %w", err)
	}
	begin, err := bs.ReadS16BE()
	if err != nil {
		return Loop{}, fmt.Errorf("aiff: reading loop beginMarker: %w", err)
	}
	end, err := bs.ReadS16BE()
	if err != nil {
		return Loop{}, fmt.Errorf("aiff: reading loop endMarker: %w", err)
	}
	return Loop{PlayMode: LoopPlayMode(mode), BeginMarker: begin, EndMarker: end}, nil
}

func writeLoop(bs *bytestream.Stream, l Loop) error {
	if err := bs.WriteS16BE(int16(l.PlayMode)); err != nil {
		return err
	}
	if err := bs.WriteS16BE(l.BeginMarker); err != nil {
		return err
	}
	return bs.WriteS16BE(l.EndMarker)
}

// readINST decodes an INST chunk body: 6 signed bytes, a gain, then
// exactly two Loops (sustain, then release) in a fixed 20-byte layout.
func readINST(bs *bytestream.Stream) (Instrument, error) {
	var inst Instrument

	fields := []*int8{&inst.BaseNote, &inst.Detune, &inst.LowNote, &inst.HighNote, &inst.LowVelocity, &inst.HighVelocity}
	for i, f := range fields {
		v, err := bs.ReadS8()
		if err != nil {
			return inst, fmt.Errorf("aiff: reading INST field %d: %w", i, err)
		}
		*f = v
	}

	gain, err := bs.ReadS16BE()
	if err != nil {
		return inst, fmt.Errorf("aiff: reading INST gain: %w", err)
	}
	inst.Gain = gain

	sustain, err := readLoop(bs)
	if err != nil {
		return inst, fmt.Errorf("aiff: reading INST sustain loop: %w", err)
	}
	inst.Sustain = sustain

	release, err := readLoop(bs)
	if err != nil {
		return inst, fmt.Errorf("aiff: reading INST release loop: %w", err)
	}
	inst.Release = release

	return inst, nil
}

// writeINST encodes an Instrument's chunk body.
func writeINST(inst Instrument) ([]byte, error) {
	buf := newMemBuffer()
	bs := bytestream.New(buf)

	fields := []int8{inst.BaseNote, inst.Detune, inst.LowNote, inst.HighNote, inst.LowVelocity, inst.HighVelocity}
	for _, v := range fields {
		if err := bs.WriteS8(v); err != nil {
			return nil, err
		}
	}
	if err := bs.WriteS16BE(inst.Gain); err != nil {
		return nil, err
	}
	if err := writeLoop(bs, inst.Sustain); err != nil {
		return nil, err
	}
	if err := writeLoop(bs, inst.Release); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
