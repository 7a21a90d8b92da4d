package aiff

import (
	"aifflib/pkg/bytestream"
	"aifflib/pkg/container"
)

// RecognizeAIFF reports whether bs currently holds a plain AIFF file:
// bytes [0,4) equal "FORM" and [8,12) equal "AIFF". It seeks to the
// start, reads exactly 12 bytes, and consumes no more.
func RecognizeAIFF(bs *bytestream.Stream) bool {
	return recognize(bs, idAIFF)
}

// RecognizeAIFFC reports whether bs currently holds an AIFF-C file:
// same shape as RecognizeAIFF but with form type "AIFC".
func RecognizeAIFFC(bs *bytestream.Stream) bool {
	return recognize(bs, idAIFC)
}

func recognize(bs *bytestream.Stream, formType string) bool {
	if err := bs.SeekStart(0); err != nil {
		return false
	}

	form, err := bs.ReadID()
	if err != nil || string(form[:]) != idFORM {
		return false
	}

	if _, err := bs.ReadU32BE(); err != nil {
		return false
	}

	kind, err := bs.ReadID()
	if err != nil {
		return false
	}

	return string(kind[:]) == formType
}

// aiffFormat and aiffcFormat are the two container.Format implementors
// this package provides. Open uses recognizeDriver to pick between them
// instead of inlining a form-type switch, and Create uses the chosen
// driver's Version to decide whether an FVER chunk is needed and what
// it says.
type aiffFormat struct{}
type aiffcFormat struct{}

func (aiffFormat) Tag() container.Tag  { return container.TagAIFF }
func (aiffcFormat) Tag() container.Tag { return container.TagAIFFC }

func (aiffFormat) Recognize(bs *bytestream.Stream) bool  { return RecognizeAIFF(bs) }
func (aiffcFormat) Recognize(bs *bytestream.Stream) bool { return RecognizeAIFFC(bs) }

func (aiffFormat) Version() uint32  { return 0 }
func (aiffcFormat) Version() uint32 { return AIFCVersion1 }

var (
	_ container.Format = aiffFormat{}
	_ container.Format = aiffcFormat{}
)

// drivers lists every container.Format this package implements, tried in
// order by recognizeDriver.
var drivers = []container.Format{aiffFormat{}, aiffcFormat{}}

// recognizeDriver returns whichever driver's Recognize matches bs's
// contents, or nil if none do. Each Recognize call leaves bs positioned
// wherever it likes; callers needing a particular offset afterward must
// seek there themselves.
func recognizeDriver(bs *bytestream.Stream) container.Format {
	for _, d := range drivers {
		if d.Recognize(bs) {
			return d
		}
	}
	return nil
}

// driverForTag returns the driver matching tag, used by Create to pick
// the write-side counterpart of whatever Setup.Tag names.
func driverForTag(tag container.Tag) container.Format {
	for _, d := range drivers {
		if d.Tag() == tag {
			return d
		}
	}
	return nil
}
