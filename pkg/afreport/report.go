// Package afreport implements the process-wide error-reporter sink: a
// (errorKind, printf-style message) callback that every aiff.File
// reports through, defaulting to a rotating log file unless a caller
// installs its own Sink.
//
// The default sink is a gopkg.in/natefinch/lumberjack.v2 rotating
// writer feeding a standard library *log.Logger, guarded by a mutex so
// it is safe to share across concurrently-used file handles: the
// reporter is a process-wide sink and must be thread-safe.
package afreport

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// ErrorKind enumerates the BAD_* error kinds this package reports.
type ErrorKind int

const (
	BadAIFFSSND ErrorKind = iota
	BadAIFFCOMM
	BadNotImplemented
	BadNumTracks
	BadFileFmt
	BadWidth
	BadByteOrder
	BadNumInsts
	BadNumLoops
	BadMiscType
	BadFileSetup
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case BadAIFFSSND:
		return "BAD_AIFF_SSND"
	case BadAIFFCOMM:
		return "BAD_AIFF_COMM"
	case BadNotImplemented:
		return "BAD_NOT_IMPLEMENTED"
	case BadNumTracks:
		return "BAD_NUMTRACKS"
	case BadFileFmt:
		return "BAD_FILEFMT"
	case BadWidth:
		return "BAD_WIDTH"
	case BadByteOrder:
		return "BAD_BYTEORDER"
	case BadNumInsts:
		return "BAD_NUMINSTS"
	case BadNumLoops:
		return "BAD_NUMLOOPS"
	case BadMiscType:
		return "BAD_MISCTYPE"
	case BadFileSetup:
		return "BAD_FILESETUP"
	default:
		return "BAD_UNKNOWN"
	}
}

// Sentinel errors, one per ErrorKind, so callers can errors.Is against a
// specific failure the way the rest of this codebase does.
var (
	ErrAIFFSSND       = errors.New("aiff: duplicate or malformed SSND chunk")
	ErrAIFFCOMM       = errors.New("aiff: missing or malformed COMM chunk")
	ErrNotImplemented = errors.New("aiff: unsupported compression or chunk type")
	ErrNumTracks      = errors.New("aiff: track count must be 1")
	ErrFileFmt        = errors.New("aiff: unsupported sample format for this file type")
	ErrWidth          = errors.New("aiff: invalid sample width")
	ErrByteOrder      = errors.New("aiff: unsupported byte order")
	ErrNumInsts       = errors.New("aiff: instrument count must be 0 or 1")
	ErrNumLoops       = errors.New("aiff: instrument must have exactly 2 loops")
	ErrMiscType       = errors.New("aiff: invalid miscellaneous chunk kind")
	ErrFileSetup      = errors.New("aiff: invalid file setup")
)

// Err returns the sentinel error for k.
func (k ErrorKind) Err() error {
	switch k {
	case BadAIFFSSND:
		return ErrAIFFSSND
	case BadAIFFCOMM:
		return ErrAIFFCOMM
	case BadNotImplemented:
		return ErrNotImplemented
	case BadNumTracks:
		return ErrNumTracks
	case BadFileFmt:
		return ErrFileFmt
	case BadWidth:
		return ErrWidth
	case BadByteOrder:
		return ErrByteOrder
	case BadNumInsts:
		return ErrNumInsts
	case BadNumLoops:
		return ErrNumLoops
	case BadMiscType:
		return ErrMiscType
	case BadFileSetup:
		return ErrFileSetup
	default:
		return errors.New("aiff: unknown error")
	}
}

// Sink receives error reports. Implementations must be safe for
// concurrent use, since the default sink is shared process-wide.
type Sink interface {
	Report(kind ErrorKind, format string, args ...any)
}

// LogSink is a Sink backed by a *log.Logger, guarded by a mutex.
type LogSink struct {
	mu     sync.Mutex
	logger *log.Logger
}

// NewLogSink wraps logger as a Sink.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Report logs kind and the formatted message.
func (s *LogSink) Report(kind ErrorKind, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Printf("%s: %s", kind, fmt.Sprintf(format, args...))
}

var (
	defaultMu   sync.Mutex
	defaultSink Sink = newDefaultSink()
)

// newDefaultSink builds the process default: a rotating log file via
// lumberjack. There is no fallback writer: if the log file cannot be
// opened, the write fails and log.Logger drops the report.
func newDefaultSink() Sink {
	writer := &lumberjack.Logger{
		Filename:   defaultLogPath(),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	return NewLogSink(log.New(writer, "", log.LstdFlags))
}

func defaultLogPath() string {
	dir := os.TempDir()
	return dir + string(os.PathSeparator) + "aifflib.log"
}

// Default returns the process-wide default sink.
func Default() Sink {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSink
}

// SetDefault replaces the process-wide default sink. Intended for
// callers that want every aiff.File created without an explicit sink to
// report through their own logging infrastructure.
func SetDefault(sink Sink) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSink = sink
}
