package afreport

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogSinkReport(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(log.New(&buf, "", 0))

	sink.Report(BadAIFFSSND, "duplicate SSND at offset %d", 42)

	got := buf.String()
	if !strings.Contains(got, "BAD_AIFF_SSND") {
		t.Errorf("report missing error kind: %q", got)
	}
	if !strings.Contains(got, "duplicate SSND at offset 42") {
		t.Errorf("report missing formatted message: %q", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := map[ErrorKind]string{
		BadAIFFSSND:       "BAD_AIFF_SSND",
		BadAIFFCOMM:       "BAD_AIFF_COMM",
		BadNotImplemented: "BAD_NOT_IMPLEMENTED",
		BadNumTracks:      "BAD_NUMTRACKS",
		BadFileFmt:        "BAD_FILEFMT",
		BadWidth:          "BAD_WIDTH",
		BadByteOrder:      "BAD_BYTEORDER",
		BadNumInsts:       "BAD_NUMINSTS",
		BadNumLoops:       "BAD_NUMLOOPS",
		BadMiscType:       "BAD_MISCTYPE",
		BadFileSetup:      "BAD_FILESETUP",
	}

	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestSetDefaultAndRestore(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogSink(log.New(&buf, "", 0)))

	Default().Report(BadFileSetup, "test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("custom default sink was not used: %q", buf.String())
	}
}
