// Package bytestream provides the seek/read/write/tell adapter that the
// aiff package uses for all file I/O, plus endian-aware primitive reads
// and writes and the Pascal-string encoding shared by several AIFF
// chunks.
package bytestream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Stream wraps an io.ReadWriteSeeker with the primitive operations the
// chunk framer and chunk handlers need: absolute seek, cursor query, and
// big/little-endian typed reads and writes.
//
// A Stream is not safe for concurrent use; callers must serialize access
// the same way a single aiff.File must (see aiff package docs).
type Stream struct {
	rws io.ReadWriteSeeker
}

// New wraps rws in a Stream.
func New(rws io.ReadWriteSeeker) *Stream {
	return &Stream{rws: rws}
}

// Tell returns the current absolute offset.
func (s *Stream) Tell() (int64, error) {
	return s.rws.Seek(0, io.SeekCurrent)
}

// SeekStart seeks to an absolute offset from the start of the stream.
func (s *Stream) SeekStart(offset int64) error {
	_, err := s.rws.Seek(offset, io.SeekStart)
	return err
}

// Read reads len(p) bytes, requiring a full read.
func (s *Stream) Read(p []byte) error {
	_, err := io.ReadFull(s.rws, p)
	return err
}

// Write writes p in full.
func (s *Stream) Write(p []byte) error {
	_, err := s.rws.Write(p)
	return err
}

// ReadU8 reads a single byte.
func (s *Stream) ReadU8() (uint8, error) {
	var b [1]byte
	if err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteU8 writes a single byte.
func (s *Stream) WriteU8(v uint8) error {
	return s.Write([]byte{v})
}

// ReadS8 reads a signed byte.
func (s *Stream) ReadS8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

// WriteS8 writes a signed byte.
func (s *Stream) WriteS8(v int8) error {
	return s.WriteU8(uint8(v))
}

// ReadU16BE reads a big-endian uint16.
func (s *Stream) ReadU16BE() (uint16, error) {
	var b [2]byte
	if err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// WriteU16BE writes a big-endian uint16.
func (s *Stream) WriteU16BE(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return s.Write(b[:])
}

// ReadS16BE reads a big-endian int16.
func (s *Stream) ReadS16BE() (int16, error) {
	v, err := s.ReadU16BE()
	return int16(v), err
}

// WriteS16BE writes a big-endian int16.
func (s *Stream) WriteS16BE(v int16) error {
	return s.WriteU16BE(uint16(v))
}

// ReadU32BE reads a big-endian uint32.
func (s *Stream) ReadU32BE() (uint32, error) {
	var b [4]byte
	if err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// WriteU32BE writes a big-endian uint32.
func (s *Stream) WriteU32BE(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return s.Write(b[:])
}

// ReadID reads a 4-byte chunk identifier.
func (s *Stream) ReadID() ([4]byte, error) {
	var id [4]byte
	err := s.Read(id[:])
	return id, err
}

// WriteID writes a 4-byte chunk identifier, padding or truncating id to
// exactly 4 bytes.
func (s *Stream) WriteID(id string) error {
	var b [4]byte
	copy(b[:], id)
	return s.Write(b[:])
}

// ReadPString reads a Pascal string: a length byte followed by that many
// bytes, then a pad byte if the total length (1+len) is odd: if len is
// even, the string's total length including the length byte is odd, so
// one pad byte is consumed.
func (s *Stream) ReadPString() (string, error) {
	n, err := s.ReadU8()
	if err != nil {
		return "", fmt.Errorf("read pstring length: %w", err)
	}

	buf := make([]byte, n)
	if err := s.Read(buf); err != nil {
		return "", fmt.Errorf("read pstring body: %w", err)
	}

	if n%2 == 0 {
		if _, err := s.ReadU8(); err != nil {
			return "", fmt.Errorf("read pstring pad byte: %w", err)
		}
	}

	return string(buf), nil
}

// WritePString writes a Pascal string with the same padding rule as
// ReadPString. Strings longer than 255 bytes are truncated, since the
// length prefix is a single byte.
func (s *Stream) WritePString(str string) error {
	if len(str) > 255 {
		str = str[:255]
	}

	if err := s.WriteU8(uint8(len(str))); err != nil {
		return fmt.Errorf("write pstring length: %w", err)
	}

	if err := s.Write([]byte(str)); err != nil {
		return fmt.Errorf("write pstring body: %w", err)
	}

	if len(str)%2 == 0 {
		if err := s.WriteU8(0); err != nil {
			return fmt.Errorf("write pstring pad byte: %w", err)
		}
	}

	return nil
}

// SkipPad reads and discards one byte if size is odd, matching the
// even-chunk-boundary padding every chunk body is followed by.
func (s *Stream) SkipPad(size uint32) error {
	if size%2 == 0 {
		return nil
	}
	_, err := s.ReadU8()
	return err
}

// WritePad writes one zero pad byte if size is odd.
func (s *Stream) WritePad(size uint32) error {
	if size%2 == 0 {
		return nil
	}
	return s.WriteU8(0)
}
